package stripool

import "github.com/cloudwego/stripool/unsafex"

// RawStripSize returns the raw size of a strip which can always satisfy
// at least one allocation of target bytes once it's pristine.
// The result is a multiple of unsafex.MaxAlign.
func RawStripSize(target int) int {
	return unsafex.AlignUp(HeaderSize + requestBytes(target) + BackPointerSize)
}

// BufferSize returns the bytes of backing buffer needed by stripCount strips
// each sized by RawStripSize(target).
func BufferSize(target, stripCount int) int {
	return unsafex.AlignUp(RawStripSize(target) * stripCount)
}

// requestBytes returns the data bytes taken by a request of size bytes.
func requestBytes(size int) int {
	if size == 0 {
		// make sure the returned pointer stays inside the strip
		return 1
	}
	return size
}

// reservation returns the bytes taken from a strip by a request of size bytes,
// without trailing padding.
func reservation(size int) uint32 {
	return uint32(requestBytes(size)) + bpSize
}

// trailingPad returns the padding needed after an allocation of n bytes
// so the next allocation of the strip starts aligned.
func trailingPad(n uint32) uint32 {
	return uint32(unsafex.AlignPad(int(n)))
}

// SlotsPerStrip returns how many allocations of size bytes a pristine strip
// of rawStripSize bytes satisfies before it's exhausted.
//
// A pool of n strips returns nil for a request of size bytes
// after n * SlotsPerStrip(rawStripSize, size) live allocations of the same size.
func SlotsPerStrip(rawStripSize, size int) int {
	if size < 0 || size > MaxStripSize || rawStripSize <= 0 || rawStripSize > MaxStripSize {
		return 0
	}
	stripSize := uint32(rawStripSize)
	need := reservation(size)
	head := hdrSize
	n := 0
	for n < MaxLiveAllocations && head+need <= stripSize {
		res := need
		if pad := trailingPad(res); head+res+pad <= stripSize {
			res += pad
		}
		head += res
		n++
	}
	return n
}
