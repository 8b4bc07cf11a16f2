package stripool

import (
	"context"
	"runtime"
	"time"
)

const (
	waitSpins      = 16
	waitMinBackoff = time.Microsecond
	waitMaxBackoff = time.Millisecond
)

// AcquireContext is like Acquire, but it waits for a release if no strip has enough room.
// It yields for a few rounds first, and then sleeps with exponential backoff.
//
// It returns ctx.Err() if ctx is done before the block is acquired.
// A request larger than a strip can ever hold waits until ctx is done.
func (p *Pool) AcquireContext(ctx context.Context, size int) ([]byte, error) {
	if b := p.Acquire(size); b != nil {
		return b, nil
	}
	var t *time.Timer
	backoff := waitMinBackoff
	for i := 0; ; i++ {
		if i < waitSpins {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runtime.Gosched()
		} else {
			if t == nil {
				t = time.NewTimer(backoff)
				defer t.Stop()
			} else {
				t.Reset(backoff)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-t.C:
			}
			if backoff < waitMaxBackoff {
				backoff <<= 1
			}
		}
		if b := p.Acquire(size); b != nil {
			return b, nil
		}
	}
}
