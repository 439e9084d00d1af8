// Package ring implements the optional lock-free MP/SC pipeline
// harness: an array-backed ring of power-of-two capacity that decouples
// the tick reader from the compute stage when they run on separate
// goroutines.
package ring

import (
	"fmt"
	"sync/atomic"
)

// cacheLinePad is sized so that a paddedCounter occupies its own cache
// line beyond the embedded atomic counter, avoiding false sharing
// between the head and tail indices.
type cacheLinePad [64 - 8]byte

type paddedCounter struct {
	n   atomic.Uint64
	_   cacheLinePad
}

// maxPushAttempts bounds the producer's retry loop so Push is wait-free
// with bounded attempts rather than an unbounded spin.
const maxPushAttempts = 8

// Ring is a multi-producer/single-consumer bounded queue of owning
// pointers. A nil slot means empty. Capacity must be a power of two.
type Ring[T any] struct {
	mask  uint64
	slots []atomic.Pointer[T]

	head paddedCounter
	tail paddedCounter
}

// New constructs a Ring with the given capacity, which must be a power
// of two, or returns InvalidArgument-equivalent error otherwise.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ring: capacity %d is not a power of two", capacity)
	}
	return &Ring[T]{
		mask:  uint64(capacity - 1),
		slots: make([]atomic.Pointer[T], capacity),
	}, nil
}

// Cap returns the ring's fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.slots) }

// Push claims the next slot by compare-and-swapping the tail counter
// forward, then publishes v into that slot with an atomic store (not a
// compare-and-swap of the slot; the full check above the claim ensures
// the consumer has already emptied the slot). It reports
// false if the ring is full or the bounded number of claim attempts is
// exhausted under contention.
func (r *Ring[T]) Push(v *T) bool {
	for attempt := 0; attempt < maxPushAttempts; attempt++ {
		tail := r.tail.n.Load()
		head := r.head.n.Load()
		if tail-head >= uint64(len(r.slots)) {
			return false // full
		}
		if !r.tail.n.CompareAndSwap(tail, tail+1) {
			continue // lost the race for this slot index, retry
		}
		idx := tail & r.mask
		r.slots[idx].Store(v) // release: publish ownership to the consumer
		return true
	}
	return false
}

// Pop observes a non-nil slot at the head index, takes ownership of the
// pointer via compare-and-swap back to nil, and advances the head. It
// reports false if the ring is empty or the slot has not yet been
// published by its producer.
func (r *Ring[T]) Pop() (*T, bool) {
	head := r.head.n.Load()
	tail := r.tail.n.Load()
	if head == tail {
		return nil, false // empty
	}

	idx := head & r.mask
	v := r.slots[idx].Load() // acquire: observe producer's publish
	if v == nil {
		return nil, false // claimed but not yet published
	}
	if !r.slots[idx].CompareAndSwap(v, nil) {
		return nil, false
	}
	r.head.n.Add(1)
	return v, true
}

// Drain pops every remaining item, for use on teardown. The Go garbage
// collector reclaims the pointers once they go out of scope; there is
// no explicit free.
func (r *Ring[T]) Drain() []*T {
	var drained []*T
	for {
		v, ok := r.Pop()
		if !ok {
			break
		}
		drained = append(drained, v)
	}
	return drained
}
