// Package ticker provides a scoped interval timer. A Lease fires its
// callback once per interval until it is released, and never after.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Lease is a running interval timer.
type Lease struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Acquire starts calling fn every interval until the returned Lease is
// released or ctx is cancelled. Callers must Release the lease, typically
// with defer, when the owning component is torn down.
func Acquire(ctx context.Context, interval time.Duration, fn func(time.Time)) *Lease {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	l := &Lease{cancel: cancel, done: make(chan struct{})}

	t := time.NewTicker(interval)
	go func() {
		defer close(l.done)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				// A tick and a cancellation can be ready together.
				if ctx.Err() != nil {
					return
				}
				fn(now)
			}
		}
	}()
	return l
}

// Release stops the timer and waits for any in-flight callback to return.
// It is safe to call more than once.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(l.cancel)
	<-l.done
}

// Done is closed once the lease has stopped firing.
func (l *Lease) Done() <-chan struct{} { return l.done }
