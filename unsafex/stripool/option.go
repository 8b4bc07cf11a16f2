package stripool

import "github.com/cloudwego/stripool/unsafex/arena"

// Option ...
type Option struct {
	// StripSize is the allocation size which a pristine strip can always satisfy.
	// Smaller allocations share a strip, up to MaxLiveAllocations of them.
	StripSize int

	// StripCount is the number of strips.
	// It's the max number of live allocations of StripSize bytes.
	StripCount int

	// Arena provides the backing buffer, arena.Heap is used if nil.
	Arena arena.Provider
}

// DefaultOption returns the default values of Option.
func DefaultOption() *Option {
	return &Option{
		StripSize:  256,
		StripCount: 64,
		Arena:      arena.Heap{},
	}
}
