package stripool

// Stats is a snapshot of a Pool.
type Stats struct {
	StripSize       int // Raw size of a strip
	StripCount      int // Number of strips
	ActiveStrips    int // Strips with live allocations
	LiveAllocations int // Allocations acquired and not released yet
	ReservedBytes   int // Bytes taken from active strips, including back pointers and padding
	Capacity        int // Bytes available for allocations when all strips are pristine
}

// Utilization returns the ratio of reserved bytes to capacity (0.0 to 1.0).
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.ReservedBytes) / float64(s.Capacity)
}

// Stats returns a snapshot of the Pool.
// Strips are loaded one by one, so it's not consistent under concurrent use.
func (p *Pool) Stats() Stats {
	s := Stats{
		StripSize:  int(p.stripSize),
		StripCount: int(p.stripCount),
		Capacity:   int(p.stripSize-hdrSize) * int(p.stripCount),
	}
	for i := uint32(0); i < p.stripCount; i++ {
		count, head := header(p.headerAt(i).Load()).unpack()
		if count == 0 {
			continue
		}
		s.ActiveStrips++
		s.LiveAllocations += int(count)
		s.ReservedBytes += int(head - hdrSize)
	}
	return s
}
