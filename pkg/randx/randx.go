// Package randx abstracts the randomness that drives pricing, demand and
// stock signals so tests can substitute a deterministic source.
package randx

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the minimal random surface the platform consumes.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). n must be > 0.
	IntN(n int) int
}

// Uniform samples from [min, max) using the provided source.
func Uniform(r Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Between samples an int from [min, max] inclusive.
func Between(r Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Pick returns a random element of items.
func Pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}

type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// New returns a time-seeded source safe for concurrent use.
func New() Rand {
	return &lockedRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a reproducible source, used by tests.
func NewSeeded(seed int64) Rand {
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}
