package stripool

import "github.com/cloudwego/stripool/unsafex"

const (
	// HeaderSize is the bytes reserved at the start of every strip for its header.
	// The header is a uint32 padded to MaxAlign so the first allocation starts aligned.
	HeaderSize = unsafex.MaxAlign

	// BackPointerSize is the bytes prefixed to every allocation.
	// The prefix holds the index of the owning strip as a uint32.
	BackPointerSize = unsafex.MaxAlign

	// MaxStripSize is the max raw strip size, the head offset of a strip must fit 24 bits.
	MaxStripSize = headMask

	// MaxLiveAllocations is the max number of live allocations of one strip.
	MaxLiveAllocations = countMask >> countShift
)

// both the header and the back pointer must be able to hold a uint32
var (
	_ [HeaderSize - 4]struct{}
	_ [BackPointerSize - 4]struct{}
)

// header is the bookkeeping word of a strip. It packs two fields so they
// can be updated together by a single compare-and-swap:
// * count (high 8 bits): number of live allocations carved from the strip
// * head (low 24 bits): offset from the strip start where the next allocation begins
type header uint32

const (
	countShift = 24
	countInc   = header(1) << countShift
	countMask  = 0xFF000000
	headMask   = 0x00FFFFFF

	hdrSize = uint32(HeaderSize)
	bpSize  = uint32(BackPointerSize)

	// pristineHeader is the header of a strip without live allocations.
	pristineHeader = header(hdrSize)
)

func packHeader(count, head uint32) header {
	return header(count<<countShift | head&headMask)
}

func (h header) count() uint32 {
	return uint32(h) >> countShift
}

func (h header) head() uint32 {
	return uint32(h) & headMask
}

func (h header) unpack() (count, head uint32) {
	return h.count(), h.head()
}
