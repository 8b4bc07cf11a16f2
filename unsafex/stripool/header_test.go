package stripool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderPackUnpack(t *testing.T) {
	tests := []struct {
		count, head uint32
	}{
		{0, hdrSize},
		{1, hdrSize + 16},
		{MaxLiveAllocations, MaxStripSize},
		{128, 0x00ABCDEF},
	}
	for _, tt := range tests {
		h := packHeader(tt.count, tt.head)
		count, head := h.unpack()
		assert.Equal(t, tt.count, count)
		assert.Equal(t, tt.head, head)
		assert.Equal(t, tt.count, h.count())
		assert.Equal(t, tt.head, h.head())
	}
}

func TestHeaderLayout(t *testing.T) {
	h := packHeader(0x12, 0x345678)
	assert.Equal(t, uint32(0x12345678), uint32(h))

	// head never leaks into count
	assert.Equal(t, uint32(0), packHeader(0, 0xFFFFFFFF).count())

	assert.Equal(t, uint32(0), pristineHeader.count())
	assert.Equal(t, hdrSize, pristineHeader.head())

	// count is changed by adding or subtracting countInc without touching head
	h = packHeader(3, 100) + countInc
	assert.Equal(t, uint32(4), h.count())
	assert.Equal(t, uint32(100), h.head())
	h -= 2 * countInc
	assert.Equal(t, uint32(2), h.count())
	assert.Equal(t, uint32(100), h.head())
}

func TestLimits(t *testing.T) {
	assert.Equal(t, 1<<24-1, MaxStripSize)
	assert.Equal(t, 255, MaxLiveAllocations)
	assert.GreaterOrEqual(t, HeaderSize, 4)
	assert.GreaterOrEqual(t, BackPointerSize, 4)
}
