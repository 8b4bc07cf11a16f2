package arena

import (
	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/cloudwego/stripool/unsafex"
)

// Pooled allocates from the size classed buffer cache of bytedance/gopkg.
// Free puts the block back into the cache so a later Alloc can reuse it.
type Pooled struct{}

// Alloc implements Provider.
func (Pooled) Alloc(size int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	// cap rounded to MaxAlign keeps small blocks out of the unaligned tiny allocator
	b := mcache.Malloc(size, unsafex.AlignUp(size))
	if err := checkAligned(b); err != nil {
		mcache.Free(b)
		return nil, err
	}
	return b, nil
}

// Free implements Provider.
func (Pooled) Free(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	mcache.Free(b)
	return nil
}
