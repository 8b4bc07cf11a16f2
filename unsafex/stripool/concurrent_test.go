package stripool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentNoOverlap(t *testing.T) {
	const (
		workers    = 24
		iterations = 2000
		checks     = 8
	)
	iters := iterations
	if testing.Short() {
		iters = 200
	}
	p := newTestPool(t, 32, 12)

	var corrupted atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				var b []byte
				for b == nil {
					runtime.Gosched()
					b = p.Acquire(8 + i%25)
				}
				for c := 0; c < checks; c++ {
					fill(b, id)
					runtime.Gosched()
					if !filledWith(b, id) {
						corrupted.Add(1)
					}
				}
				p.Release(b)
			}
		}(byte(w + 1))
	}
	wg.Wait()
	assert.Equal(t, int32(0), corrupted.Load())

	s := p.Stats()
	assert.Equal(t, 0, s.LiveAllocations)
	assert.Equal(t, 0, s.ActiveStrips)
}

func TestConcurrentSameStrip(t *testing.T) {
	// one strip, every goroutine races on the same header
	p := newTestPool(t, 4096, 1)
	const workers = 8
	var wg sync.WaitGroup
	var acquired atomic.Int64
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				b, err := p.AcquireContext(context.Background(), 16)
				if err != nil {
					return
				}
				acquired.Add(1)
				p.Release(b)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(workers*1000), acquired.Load())
	assert.Equal(t, pristineHeader, header(p.headerAt(0).Load()))
}

func TestAcquireContext(t *testing.T) {
	p := newTestPool(t, 16, 1)
	b, err := p.AcquireContext(context.Background(), 16)
	require.NoError(t, err)
	require.NotNil(t, b)

	// exhausted until b is released
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	_, err = p.AcquireContext(ctx, 16)
	cancel()
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Release(b)
	}()
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := p.AcquireContext(ctx, 16)
	require.NoError(t, err)
	assert.Equal(t, addr(b), addr(c))
	p.Release(c)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	b = p.Acquire(16)
	_, err = p.AcquireContext(ctx, 16)
	assert.ErrorIs(t, err, context.Canceled)
	p.Release(b)
}
