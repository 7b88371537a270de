// Package simulator stands in for an unreliable remote service.
//
// Every call waits for a latency drawn uniformly from [MinLatency, MaxLatency]
// and then fails with a *NetworkError with probability ErrorRate. The random
// source and the sleeper are injected, which makes the simulator the single,
// controllable source of nondeterminism in the data layer.
//
// There is no cancellation: once a call has started its wait it always runs
// to completion, even if the caller's context is cancelled in the meantime.
// A caller that no longer cares simply ignores the result.
package simulator

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/metrics"
)

// Default call options.
const (
	DefaultErrorRate  = 0.1
	DefaultMinLatency = 200 * time.Millisecond
	DefaultMaxLatency = 1200 * time.Millisecond
)

// Rand is the random source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// FailurePlan overrides the random failure decision for an operation.
// decided=false leaves the decision to the random draw.
type FailurePlan func(op string) (fail, decided bool)

// Options configures one simulated call.
type Options struct {
	ErrorRate  float64
	MinLatency time.Duration
	MaxLatency time.Duration
}

// DefaultOptions returns a 10% error rate over a 200ms..1200ms window.
func DefaultOptions() Options {
	return Options{
		ErrorRate:  DefaultErrorRate,
		MinLatency: DefaultMinLatency,
		MaxLatency: DefaultMaxLatency,
	}
}

// CallOption overrides one field of Options for a single call site.
type CallOption func(*Options)

// WithErrorRate overrides the failure probability.
func WithErrorRate(rate float64) CallOption {
	return func(o *Options) {
		o.ErrorRate = rate
	}
}

// WithLatency overrides the latency window.
func WithLatency(minLatency, maxLatency time.Duration) CallOption {
	return func(o *Options) {
		o.MinLatency = minLatency
		o.MaxLatency = maxLatency
	}
}

// Simulator injects latency and failures.
//
// Thread-safety: safe for concurrent use. Random draws are serialized so a
// seeded source yields the same sequence for the same order of calls; the
// waits themselves run concurrently.
type Simulator struct {
	mu       sync.Mutex
	rnd      Rand
	sleeper  Sleeper
	defaults Options
	plan     FailurePlan
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(s *Simulator) {
		s.rnd = r
	}
}

// WithSeed seeds a PCG source for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSleeper sets how latency is waited out.
func WithSleeper(sl Sleeper) Option {
	return func(s *Simulator) {
		s.sleeper = sl
	}
}

// WithDefaults replaces the options used when a call site does not
// override them.
func WithDefaults(o Options) Option {
	return func(s *Simulator) {
		s.defaults = o
	}
}

// WithFailurePlan installs a deterministic failure override.
func WithFailurePlan(p FailurePlan) Option {
	return func(s *Simulator) {
		s.plan = p
	}
}

// WithMetrics records call outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulator) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// New creates a Simulator. Without options it waits on a real timer and
// draws from a time-seeded source.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		sleeper:  TimerSleeper{},
		defaults: DefaultOptions(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		s.rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return s
}

// Defaults returns the options applied when a call site overrides nothing.
func (s *Simulator) Defaults() Options {
	return s.defaults
}

// Call waits out the simulated latency and then either succeeds or returns a
// *NetworkError. A context that is already done is rejected before the wait
// starts; cancellation during the wait is ignored.
func (s *Simulator) Call(ctx context.Context, op string, opts ...CallOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o := s.defaults
	for _, opt := range opts {
		opt(&o)
	}

	latency, draw := s.draw(o)
	s.sleeper.Sleep(op, latency)

	fail := draw < o.ErrorRate
	if s.plan != nil {
		if f, decided := s.plan(op); decided {
			fail = f
		}
	}

	if fail {
		s.metrics.ObserveCall(op, metrics.OutcomeNetworkError, latency)
		s.logger.Debug("simulated call failed",
			zap.String("op", op),
			zap.Duration("latency", latency),
			zap.Float64("error_rate", o.ErrorRate))
		return &NetworkError{Op: op}
	}

	s.metrics.ObserveCall(op, metrics.OutcomeOK, latency)
	s.logger.Debug("simulated call resolved",
		zap.String("op", op),
		zap.Duration("latency", latency))
	return nil
}

// draw takes the latency sample and the failure sample together so a seeded
// source is consumed in call order, not in wake-up order.
func (s *Simulator) draw(o Options) (time.Duration, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := o.MaxLatency - o.MinLatency
	if span < 0 {
		span = 0
	}
	latency := o.MinLatency + time.Duration(s.rnd.Float64()*float64(span))
	return latency, s.rnd.Float64()
}

// Simulate resolves with value after the simulated wait, or with a
// *NetworkError.
func Simulate[T any](ctx context.Context, s *Simulator, op string, value T, opts ...CallOption) (T, error) {
	if err := s.Call(ctx, op, opts...); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}
