//go:build unix

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap allocates anonymous private mappings outside of the Go heap.
// Blocks are page aligned and invisible to the GC, Free unmaps them.
type Mmap struct{}

// Alloc implements Provider.
func (Mmap) Alloc(size int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	return b, nil
}

// Free implements Provider.
func (Mmap) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("arena: munmap: %w", err)
	}
	return nil
}
