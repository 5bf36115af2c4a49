package debug

import (
	"sync"
	"sync/atomic"
)

// BoundedCallback decouples a possibly blocking callback from the emitter.
// Lines are queued and delivered by a single goroutine in order; when the
// queue is full the line is dropped and counted.
type BoundedCallback struct {
	next    Callback
	queue   chan string
	done    chan struct{}
	dropped atomic.Uint64

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// Bounded starts a delivery goroutine for next with room for depth queued
// lines. Call Close to drain and stop it.
func Bounded(next Callback, depth int) *BoundedCallback {
	if depth < 1 {
		depth = 1
	}
	b := &BoundedCallback{
		next:  next,
		queue: make(chan string, depth),
		done:  make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *BoundedCallback) run() {
	defer close(b.done)
	for line := range b.queue {
		deliver(b.next, line)
	}
}

// Callback returns the non-blocking callback to install on a Sink.
func (b *BoundedCallback) Callback() Callback {
	return b.offer
}

func (b *BoundedCallback) offer(line string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.dropped.Add(1)
		return
	}
	select {
	case b.queue <- line:
	default:
		b.dropped.Add(1)
	}
}

// Dropped returns the number of lines discarded so far.
func (b *BoundedCallback) Dropped() uint64 {
	return b.dropped.Load()
}

// Close stops accepting lines, delivers what is queued and waits for the
// delivery goroutine to exit.
func (b *BoundedCallback) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		b.mu.Unlock()
	})
	<-b.done
}
