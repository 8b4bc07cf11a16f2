// Package stripool implements a lock free pool for short-lived, bounded size memory blocks.
//
// The backing buffer is cut into strips of equal size. Each strip only keeps track of
// the number of its live allocations and the offset where the next allocation starts.
// Allocations are carved sequentially from a strip, a release only decrements the count,
// and once the count drops to zero the whole strip becomes available again.
//
// Tips for usage:
// * Acquire returns nil when no strip has room, it's not an error. Retry, back off or fall back.
// * Release MUST be called exactly once with the slice returned by Acquire of the same Pool.
// * DO NOT use a buf after releasing it, its bytes may be handed out again.
// * A strip is reclaimed only when all its allocations are released, avoid holding blocks for long.
package stripool

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/cloudwego/stripool/unsafex"
	"github.com/cloudwego/stripool/unsafex/arena"
)

// Pool is a strip pool. It's safe for concurrent use.
type Pool struct {
	buf  []byte
	base unsafe.Pointer

	stripSize  uint32
	stripCount uint32
	limit      uintptr // end of the last strip

	// arena owns buf if the Pool is created by NewSized.
	arena arena.Provider

	_ cpu.CacheLinePad

	// current is the index of the strip used most recently.
	// It's only a hint, races on it are harmless.
	current atomic.Uint32

	_ cpu.CacheLinePad
}

// New creates a Pool which uses buf as stripCount strips of rawStripSize bytes.
//
// rawStripSize includes the strip header and the back pointer of allocations,
// use RawStripSize and BufferSize to size buf for a given allocation size.
// buf must be aligned to unsafex.MaxAlign, and it's owned by the Pool until the Pool is dropped.
func New(rawStripSize, stripCount int, buf []byte) (*Pool, error) {
	if stripCount <= 0 || uint64(stripCount) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("stripCount must be in (0, %d], got %d", ^uint32(0), stripCount)
	}
	if rawStripSize%unsafex.MaxAlign != 0 {
		return nil, fmt.Errorf("rawStripSize must be a multiple of %d, got %d", unsafex.MaxAlign, rawStripSize)
	}
	if rawStripSize <= HeaderSize+BackPointerSize || rawStripSize > MaxStripSize {
		return nil, fmt.Errorf("rawStripSize must be in (%d, %d], got %d",
			HeaderSize+BackPointerSize, MaxStripSize, rawStripSize)
	}
	if len(buf)/stripCount < rawStripSize {
		return nil, fmt.Errorf("buf must be at least %d*%d bytes, got %d", rawStripSize, stripCount, len(buf))
	}
	base := unsafex.DataPtr(buf)
	if !unsafex.IsAligned(base) {
		return nil, fmt.Errorf("buf must be aligned to %d bytes, got %p", unsafex.MaxAlign, base)
	}
	p := &Pool{
		buf:        buf,
		base:       base,
		stripSize:  uint32(rawStripSize),
		stripCount: uint32(stripCount),
		limit:      uintptr(rawStripSize) * uintptr(stripCount),
	}
	p.Reset()
	return p, nil
}

// NewSized creates a Pool of which every strip can satisfy at least one allocation
// of o.StripSize bytes. The backing buffer is allocated from o.Arena and handed
// back to it by Close.
func NewSized(o *Option) (*Pool, error) {
	if o == nil {
		o = DefaultOption()
	}
	if o.StripSize < 0 || o.StripCount <= 0 {
		return nil, fmt.Errorf("invalid option: StripSize=%d StripCount=%d", o.StripSize, o.StripCount)
	}
	// check the limits before allocating anything
	if o.StripSize > MaxStripSize || RawStripSize(o.StripSize) > MaxStripSize {
		return nil, fmt.Errorf("StripSize must be <= %d, got %d",
			MaxStripSize-HeaderSize-BackPointerSize-unsafex.MaxAlign+1, o.StripSize)
	}
	if raw := RawStripSize(o.StripSize); o.StripCount > math.MaxInt/raw || uint64(o.StripCount) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("StripCount too large for StripSize=%d, got %d", o.StripSize, o.StripCount)
	}
	provider := o.Arena
	if provider == nil {
		provider = arena.Heap{}
	}
	buf, err := provider.Alloc(BufferSize(o.StripSize, o.StripCount))
	if err != nil {
		return nil, err
	}
	p, err := New(RawStripSize(o.StripSize), o.StripCount, buf)
	if err != nil {
		_ = provider.Free(buf)
		return nil, err
	}
	p.arena = provider
	return p, nil
}

// Close hands the backing buffer back to the arena it's allocated from.
// It's a no-op for a Pool created by New.
//
// Close MUST NOT be called while any allocation of the Pool is in use,
// and the Pool MUST NOT be used after Close.
func (p *Pool) Close() error {
	if p.arena == nil {
		return nil
	}
	a, buf := p.arena, p.buf
	p.arena = nil
	return a.Free(buf)
}

// Reset returns every strip to its pristine state.
//
// Reset MUST NOT be called while any allocation of the Pool is in use,
// all blocks acquired before it become invalid.
func (p *Pool) Reset() {
	for i := uint32(0); i < p.stripCount; i++ {
		p.headerAt(i).Store(uint32(pristineHeader))
	}
	p.current.Store(0)
}

// StripSize returns the raw size of a strip in bytes.
func (p *Pool) StripSize() int { return int(p.stripSize) }

// StripCount returns the number of strips.
func (p *Pool) StripCount() int { return int(p.stripCount) }

func (p *Pool) stripAt(i uint32) unsafe.Pointer {
	return unsafe.Add(p.base, uintptr(i)*uintptr(p.stripSize))
}

// headerAt returns the header word at the start of the ith strip.
func (p *Pool) headerAt(i uint32) *atomic.Uint32 {
	return (*atomic.Uint32)(p.stripAt(i))
}

// Acquire returns a block of size bytes, or nil if no strip has enough room.
//
// The block is aligned to unsafex.MaxAlign and its content is unspecified.
// cap of the block may be greater than size, the extra bytes also belong to the block.
// A request larger than a strip can ever hold returns nil like any other exhaustion.
func (p *Pool) Acquire(size int) []byte {
	if size < 0 || size > MaxStripSize {
		return nil
	}
	need := reservation(size)

	// start from the strip used last time, and give up after checking every strip once.
	idx := p.current.Load() % p.stripCount
	interrogated := uint32(0)
	hdr := p.headerAt(idx)
	for {
		old := header(hdr.Load())
		count, head := old.unpack()
		if head+need > p.stripSize || count == MaxLiveAllocations {
			interrogated++
			if interrogated >= p.stripCount {
				return nil
			}
			if idx++; idx == p.stripCount {
				idx = 0
			}
			hdr = p.headerAt(idx)
			continue
		}
		res := need
		if pad := trailingPad(res); head+res+pad <= p.stripSize {
			res += pad
		}
		if !hdr.CompareAndSwap(uint32(old), uint32(packHeader(count+1, head+res))) {
			// the strip is changed by others, check it again
			continue
		}
		slot := unsafe.Add(p.stripAt(idx), head)
		*(*uint32)(slot) = idx
		p.current.Store(idx)
		n := int(res - bpSize)
		return unsafe.Slice((*byte)(unsafe.Add(slot, bpSize)), n)[:size:n]
	}
}

// Release returns a block to the Pool. The block must be the slice returned by Acquire,
// resliced or not, as long as its data pointer is unchanged.
//
// Panics if the block doesn't belong to the Pool, or it's detected as released already.
// Not all double releases can be detected, DO NOT rely on it.
func (p *Pool) Release(b []byte) {
	data := unsafex.DataPtr(b)
	off := uintptr(data) - uintptr(p.base)
	if off >= p.limit || off%uintptr(p.stripSize) < uintptr(hdrSize+bpSize) {
		panic("stripool: block not in pool")
	}
	idx := *(*uint32)(unsafe.Add(data, -BackPointerSize))
	if uintptr(idx) != off/uintptr(p.stripSize) {
		panic("stripool: corrupted back-pointer")
	}
	hdr := p.headerAt(idx)
	for {
		old := header(hdr.Load())
		if old.count() == 0 {
			panic("stripool: release on empty strip")
		}
		update := old - countInc
		if update.count() == 0 {
			// the last allocation is gone, the whole strip is available again.
			update = pristineHeader
		}
		if hdr.CompareAndSwap(uint32(old), uint32(update)) {
			return
		}
	}
}

// Owns reports whether b is a block of the Pool.
// It only checks the address, not whether the block is currently acquired.
func (p *Pool) Owns(b []byte) bool {
	off := uintptr(unsafex.DataPtr(b)) - uintptr(p.base)
	return off < p.limit && off%uintptr(p.stripSize) >= uintptr(hdrSize+bpSize)
}
