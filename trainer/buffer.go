package trainer

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Buffer is a fixed-capacity ring of samples. Once full, every pushed
// sample overwrites the oldest one, so insertion order is eviction order.
type Buffer struct {
	samples []Sample
	head    int // Index of the oldest sample
	size    int
	dropped int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic("buffer capacity must be positive")
	}
	return &Buffer{samples: make([]Sample, capacity)}
}

// Push appends samples in order, evicting the oldest ones on overflow.
func (b *Buffer) Push(samples ...Sample) {
	capacity := len(b.samples)
	for _, s := range samples {
		if b.size < capacity {
			b.samples[(b.head+b.size)%capacity] = s
			b.size++
			continue
		}
		b.samples[b.head] = s
		b.head = (b.head + 1) % capacity
		b.dropped++
	}
}

// Sample draws n distinct samples uniformly at random without removing
// them. It fails with an *InsufficientDataError when fewer than n are held.
func (b *Buffer) Sample(n int, rng *rand.Rand) ([]Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid sample size %d", n)
	}
	if n > b.size {
		return nil, &InsufficientDataError{Have: b.size, Want: n}
	}

	// Partial Fisher-Yates over the logical positions
	idx := make([]int, b.size)
	for i := range idx {
		idx[i] = i
	}
	batch := make([]Sample, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(b.size-i)
		idx[i], idx[j] = idx[j], idx[i]
		batch[i] = b.at(idx[i])
	}
	return batch, nil
}

func (b *Buffer) at(i int) Sample {
	return b.samples[(b.head+i)%len(b.samples)]
}

func (b *Buffer) Len() int {
	return b.size
}

func (b *Buffer) Cap() int {
	return len(b.samples)
}

// Dropped counts the samples evicted so far.
func (b *Buffer) Dropped() int {
	return b.dropped
}

// Snapshot returns the held samples from oldest to newest.
func (b *Buffer) Snapshot() []Sample {
	out := make([]Sample, b.size)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}
