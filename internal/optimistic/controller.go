package optimistic

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/metrics"
)

// ErrNotInView is returned for an intent on a record the view does not
// display. Nothing is sent to the service.
var ErrNotInView = errors.New("record not in view")

// Backend is the part of the service the controller drives.
// *service.Service satisfies it.
type Backend interface {
	GetJobs(ctx context.Context, f domain.JobFilter) (domain.JobPage, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error)
	ReorderJob(ctx context.Context, req domain.ReorderRequest) ([]domain.Job, error)
	GetCandidates(ctx context.Context) ([]domain.Candidate, error)
	UpdateCandidateStage(ctx context.Context, id string, stage domain.Stage) (domain.Candidate, error)
}

// Controller owns the shadow views and runs optimistic attempts against a
// Backend.
//
// Thread-safety: safe for concurrent use. View reads return copies.
type Controller struct {
	backend Backend
	notify  Notifier
	observe Observer
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	jobs    JobsView
	cands   CandidatesView
	pending map[string]int
	nextID  int
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the receiver of rollback notices.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notify = n
	}
}

// WithObserver sets the receiver of phase transitions.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observe = o
	}
}

// WithMetrics records attempt outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller with empty views.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		logger:  zap.NewNop(),
		pending: make(map[string]int),
		jobs:    JobsView{Filter: domain.JobFilter{}.Normalized(), Jobs: []domain.Job{}},
		cands:   CandidatesView{Candidates: []domain.Candidate{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SlotPhase reports Pending while any attempt on slot is in flight, Idle
// otherwise.
func (c *Controller) SlotPhase(slot string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[slot] > 0 {
		return PhasePending
	}
	return PhaseIdle
}

// attempt is one in-flight intent. Its methods must be called with c.mu held.
type attempt struct {
	id     int
	intent Intent
	slot   string
}

// begin registers a new attempt and emits Pending. Caller holds c.mu.
func (c *Controller) begin(intent Intent, slot string) attempt {
	c.nextID++
	a := attempt{id: c.nextID, intent: intent, slot: slot}
	c.pending[slot]++
	c.metrics.AttemptStarted()
	c.emit(a, PhasePending, nil)
	return a
}

// finish emits the terminal phase followed by Idle, and raises a notice on
// rollback. Caller holds c.mu.
func (c *Controller) finish(a attempt, err error) {
	c.pending[a.slot]--
	if c.pending[a.slot] == 0 {
		delete(c.pending, a.slot)
	}

	if err != nil {
		c.metrics.AttemptFinished(string(a.intent), metrics.OutcomeRolledBack)
		c.emit(a, PhaseRolledBack, err)
		c.logger.Warn("optimistic update rolled back",
			zap.Int("attempt", a.id),
			zap.String("intent", string(a.intent)),
			zap.String("slot", a.slot),
			zap.Error(err))
		if c.notify != nil {
			c.notify(Notice{Intent: a.intent, Slot: a.slot, Message: failureMessage(a.intent)})
		}
	} else {
		c.metrics.AttemptFinished(string(a.intent), metrics.OutcomeCommitted)
		c.emit(a, PhaseCommitted, nil)
		c.logger.Debug("optimistic update committed",
			zap.Int("attempt", a.id),
			zap.String("intent", string(a.intent)),
			zap.String("slot", a.slot))
	}
	c.emit(a, PhaseIdle, nil)
}

func (c *Controller) emit(a attempt, p Phase, err error) {
	if c.observe == nil {
		return
	}
	c.observe(Event{Attempt: a.id, Intent: a.intent, Slot: a.slot, Phase: p, Err: err})
}
