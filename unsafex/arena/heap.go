package arena

import (
	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/cloudwego/stripool/unsafex"
)

// Heap allocates from the Go heap without zeroing.
// Blocks are reclaimed by the GC once unreferenced, Free is a no-op.
type Heap struct{}

// Alloc implements Provider.
func (Heap) Alloc(size int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	// padding for MaxAlign alignment, mostly unused since the runtime
	// already aligns size classes that are multiple of 8
	buf := dirtmake.Bytes(size+unsafex.MaxAlign, size+unsafex.MaxAlign)
	shift := unsafex.AlignPad(int(uintptr(unsafex.DataPtr(buf))))
	return buf[shift : shift+size : shift+size], nil
}

// Free implements Provider.
func (Heap) Free(b []byte) error {
	return nil
}
