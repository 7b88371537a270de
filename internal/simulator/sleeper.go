package simulator

import "time"

// Sleeper suspends the calling goroutine for the injected latency.
//
// The op name lets test sleepers hold back one operation while another
// proceeds, which is how the lost-update race between two mutations is
// reproduced deterministically.
type Sleeper interface {
	Sleep(op string, d time.Duration)
}

// TimerSleeper waits on a real timer.
type TimerSleeper struct{}

// Sleep blocks for d.
func (TimerSleeper) Sleep(_ string, d time.Duration) {
	time.Sleep(d)
}

// NoopSleeper returns immediately. Used by the CLI when latency is disabled
// and by tests that only care about outcomes.
type NoopSleeper struct{}

// Sleep does nothing.
func (NoopSleeper) Sleep(string, time.Duration) {}
