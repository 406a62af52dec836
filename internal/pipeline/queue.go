// Package pipeline carries analyzed spectra from the audio pull goroutine
// to the render tick.
package pipeline

import "sync"

// softCap bounds the queue when the renderer stalls. At 50 blocks/sec this
// is roughly five seconds of spectra; beyond it the oldest entries are
// dropped so the producer never blocks. Dropped spectra are lost from the
// display, which is the accepted trade-off over unbounded growth.
const softCap = 256

// Queue is a single-producer/single-consumer FIFO of spectra. Push runs on
// the audio goroutine and never blocks; DrainAll swaps the backlog out
// wholesale on the render tick, so the lock is held only for an append or
// a pointer swap.
type Queue struct {
	mu      sync.Mutex
	pending [][]float64
	dropped uint64
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends one spectrum. If the consumer has stalled past the soft cap,
// the oldest pending spectrum is dropped to make room.
func (q *Queue) Push(spectrum []float64) {
	q.mu.Lock()
	if len(q.pending) >= softCap {
		q.pending = q.pending[1:]
		q.dropped++
	}
	q.pending = append(q.pending, spectrum)
	q.mu.Unlock()
}

// DrainAll removes and returns every pending spectrum in FIFO order.
// It returns nil when nothing is pending.
func (q *Queue) DrainAll() [][]float64 {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}

// Dropped reports how many spectra were discarded under back-pressure.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
