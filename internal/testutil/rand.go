package testutil

import "sync"

// SequenceRand returns predetermined values from Float64, in order.
//
// The simulator draws twice per call: first the latency fraction, then the
// failure sample. A sequence of {0, 0.99} therefore means "no latency,
// succeed unless the error rate is above 0.99".
//
// Thread-safety: SequenceRand is safe for concurrent use via internal mutex.
type SequenceRand struct {
	mu     sync.Mutex
	values []float64
	idx    int
}

// NewSequenceRand creates a source that yields values in order.
func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

// Float64 returns the next value.
//
// Panics if the sequence is exhausted. This is a fail-fast approach to catch
// a test that performs more simulated calls than it scripted.
func (r *SequenceRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idx >= len(r.values) {
		panic("SequenceRand: all values exhausted")
	}
	v := r.values[r.idx]
	r.idx++
	return v
}

// Remaining returns how many values have not been consumed yet.
func (r *SequenceRand) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values) - r.idx
}

// ConstRand always returns the same value.
type ConstRand float64

// Float64 returns the constant.
func (c ConstRand) Float64() float64 {
	return float64(c)
}
