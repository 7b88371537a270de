package testutil

import (
	"sync"
	"time"
)

// GateSleeper lets a test decide when a held operation's simulated wait
// ends. Operations that are not held return immediately.
//
// Typical use, forcing the later-resolving write to win:
//
//	gs := testutil.NewGateSleeper()
//	gs.Hold("updateJob")
//	go svc.UpdateJob(...)        // reads the snapshot, then blocks
//	gs.WaitArrived("updateJob")
//	svc.CreateJob(...)           // resolves and persists first
//	gs.Release("updateJob")      // update resolves last and clobbers
//
// Thread-safety: all methods are safe for concurrent use.
type GateSleeper struct {
	mu    sync.Mutex
	gates map[string]*gate
	slept []time.Duration
}

type gate struct {
	arrived     chan struct{}
	release     chan struct{}
	releaseOnce sync.Once
}

// maxArrivals bounds how many arrivals a gate remembers before WaitArrived
// consumes them.
const maxArrivals = 64

// NewGateSleeper creates a sleeper with no held operations.
func NewGateSleeper() *GateSleeper {
	return &GateSleeper{gates: make(map[string]*gate)}
}

// Hold makes subsequent waits for op block until Release(op).
func (g *GateSleeper) Hold(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[op] = &gate{
		arrived: make(chan struct{}, maxArrivals),
		release: make(chan struct{}),
	}
}

// Release unblocks every wait on op, present and future, until the next Hold.
func (g *GateSleeper) Release(op string) {
	g.mu.Lock()
	gt := g.gates[op]
	g.mu.Unlock()
	if gt == nil {
		return
	}
	gt.releaseOnce.Do(func() { close(gt.release) })
}

// WaitArrived blocks until one more call for op has reached its wait. Each
// arrival satisfies exactly one WaitArrived, so waiting twice waits for two
// calls.
func (g *GateSleeper) WaitArrived(op string) {
	g.mu.Lock()
	gt := g.gates[op]
	g.mu.Unlock()
	if gt == nil {
		return
	}
	<-gt.arrived
}

// Sleep implements simulator.Sleeper. The duration is recorded, never waited.
func (g *GateSleeper) Sleep(op string, d time.Duration) {
	g.mu.Lock()
	g.slept = append(g.slept, d)
	gt := g.gates[op]
	g.mu.Unlock()
	if gt == nil {
		return
	}
	select {
	case gt.arrived <- struct{}{}:
	default:
	}
	<-gt.release
}

// Slept returns every duration passed to Sleep, in call order.
func (g *GateSleeper) Slept() []time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]time.Duration(nil), g.slept...)
}
