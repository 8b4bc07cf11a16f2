// Package arena provides backing storage for fixed size memory pools.
//
// A Provider hands out one contiguous block aligned to unsafex.MaxAlign and
// owns it until Free is called with the same slice.
package arena

import (
	"fmt"
	"strings"

	"github.com/cloudwego/stripool/unsafex"
)

// Provider supplies aligned backing memory.
type Provider interface {
	// Alloc returns a block of exactly size bytes aligned to unsafex.MaxAlign.
	// The content of the block is unspecified.
	Alloc(size int) ([]byte, error)

	// Free releases a block returned by Alloc.
	// The block MUST NOT be used after calling Free.
	Free(b []byte) error
}

// ByName returns the provider registered under name: "heap", "pooled" or "mmap".
func ByName(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "", "heap":
		return Heap{}, nil
	case "pooled", "mcache":
		return Pooled{}, nil
	case "mmap":
		return Mmap{}, nil
	}
	return nil, fmt.Errorf("arena: unknown provider %q", name)
}

func checkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("arena: size must be > 0, got %d", size)
	}
	return nil
}

func checkAligned(b []byte) error {
	if !unsafex.IsAligned(unsafex.DataPtr(b)) {
		return fmt.Errorf("arena: block at %p is not aligned to %d", unsafex.DataPtr(b), unsafex.MaxAlign)
	}
	return nil
}
