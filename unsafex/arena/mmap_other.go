//go:build !unix

package arena

import "errors"

var errMmapUnsupported = errors.New("arena: mmap is not supported on this platform")

// Mmap allocates anonymous private mappings. Only unix platforms are supported.
type Mmap struct{}

// Alloc implements Provider.
func (Mmap) Alloc(size int) ([]byte, error) {
	return nil, errMmapUnsupported
}

// Free implements Provider.
func (Mmap) Free(b []byte) error {
	return errMmapUnsupported
}
