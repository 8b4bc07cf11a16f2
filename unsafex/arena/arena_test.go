package arena

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/stripool/unsafex"
)

func testProvider(t *testing.T, p Provider) {
	for _, sz := range []int{1, 7, 64, 1000, 4096, 1 << 20} {
		b, err := p.Alloc(sz)
		require.NoError(t, err, "size=%d", sz)
		require.Equal(t, sz, len(b))
		assert.True(t, unsafex.IsAligned(unsafex.DataPtr(b)), "size=%d", sz)
		for i := range b {
			b[i] = byte(i)
		}
		for i := range b {
			if b[i] != byte(i) {
				t.Fatalf("size=%d: byte %d corrupted", sz, i)
			}
		}
		require.NoError(t, p.Free(b))
	}
	_, err := p.Alloc(0)
	assert.Error(t, err)
	_, err = p.Alloc(-1)
	assert.Error(t, err)
}

func TestHeap(t *testing.T) {
	testProvider(t, Heap{})
}

func TestPooled(t *testing.T) {
	testProvider(t, Pooled{})
	assert.NoError(t, Pooled{}.Free(nil))
}

func TestMmap(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "js" || runtime.GOOS == "wasip1" || runtime.GOOS == "plan9" {
		_, err := Mmap{}.Alloc(4096)
		assert.Error(t, err)
		return
	}
	testProvider(t, Mmap{})
	assert.NoError(t, Mmap{}.Free(nil))
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Provider
		wantErr bool
	}{
		{"", Heap{}, false},
		{"heap", Heap{}, false},
		{"HEAP", Heap{}, false},
		{"pooled", Pooled{}, false},
		{"mcache", Pooled{}, false},
		{"mmap", Mmap{}, false},
		{"tcmalloc", nil, true},
	}
	for _, tt := range tests {
		p, err := ByName(tt.name)
		if tt.wantErr {
			assert.Error(t, err, "name=%q", tt.name)
			continue
		}
		assert.NoError(t, err, "name=%q", tt.name)
		assert.Equal(t, tt.want, p)
	}
}
