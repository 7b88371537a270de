package harness

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/optimistic"
	"github.com/roach88/talentflow/internal/service"
	"github.com/roach88/talentflow/internal/simulator"
	"github.com/roach88/talentflow/internal/store"
	"github.com/roach88/talentflow/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	store  *store.Store
	ctrl   *optimistic.Controller
	logger *zap.Logger

	result *Result
	step   int
	// failOp is the simulated operation forced to fail during the current
	// step, empty when none.
	failOp string
}

// Option configures a scenario run.
type Option func(*Harness)

// WithLogger sets the logger shared by every component of the run.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Seed an in-memory store from the fixture
//  2. Wire simulator, service and controller with deterministic helpers
//  3. Execute steps, recording the trace
//  4. Evaluate assertions on the final state
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{logger: zap.NewNop(), result: NewResult()}
	for _, opt := range opts {
		opt(h)
	}

	ds := fixtureDataset(scenario.Fixture)
	st, err := store.Open(":memory:",
		store.WithSeeder(func() domain.Dataset { return ds }),
		store.WithLogger(h.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()
	h.store = st

	sim := simulator.New(
		simulator.WithRand(testutil.ConstRand(0.5)),
		simulator.WithSleeper(simulator.NoopSleeper{}),
		simulator.WithFailurePlan(h.plan),
		simulator.WithLogger(h.logger),
	)
	svc := service.New(st, sim,
		service.WithIDGenerator(testutil.NewSequentialIDGenerator("gen", 1)),
		service.WithLogger(h.logger))
	h.ctrl = optimistic.New(svc,
		optimistic.WithObserver(h.observe),
		optimistic.WithNotifier(h.notify),
		optimistic.WithLogger(h.logger))

	ctx := context.Background()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i+1, step)
	}

	h.captureState()
	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

// fixtureDataset builds the seed dataset for f.
func fixtureDataset(f Fixture) domain.Dataset {
	ds := testutil.Fixture(f.Jobs, f.Candidates)
	for i := range ds.Jobs {
		if slices.Contains(f.Archived, ds.Jobs[i].ID) {
			ds.Jobs[i].Status = domain.JobStatusArchived
		}
	}
	return ds
}

// executeStep runs one step to completion and records its trace.
//
// Steps run sequentially on the calling goroutine, so observer callbacks
// arrive in a deterministic order.
func (h *Harness) executeStep(ctx context.Context, n int, step Step) {
	h.step = n
	h.failOp = ""
	if step.Fail {
		h.failOp = serviceOp(step.Op)
	}
	h.result.addTrace(TraceEvent{Step: n, Type: EventStep, Op: step.Op})

	var err error
	switch step.Op {
	case OpLoadJobs:
		err = h.ctrl.LoadJobs(ctx, step.Filter.jobFilter())
	case OpLoadCandidates:
		err = h.ctrl.LoadCandidates(ctx)
	case OpToggle:
		err = h.ctrl.ToggleJobStatus(ctx, step.Job)
	case OpReorder:
		err = h.ctrl.Reorder(ctx, step.From, step.To)
	case OpMove:
		err = h.ctrl.MoveCandidate(ctx, step.Candidate, domain.Stage(step.Stage))
	}

	outcome := TraceEvent{Step: n, Type: EventOutcome, Op: step.Op, Message: "ok"}
	if err != nil {
		outcome.Message = err.Error()
	}
	h.result.addTrace(outcome)

	switch {
	case step.Fail && err == nil:
		h.result.AddError(fmt.Sprintf("step %d (%s): expected failure, got success", n, step.Op))
	case !step.Fail && err != nil:
		h.result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", n, step.Op, err))
	}

	h.logger.Debug("scenario step completed",
		zap.Int("step", n),
		zap.String("op", step.Op),
		zap.Error(err))
}

// serviceOp maps a step op to the simulated operation it drives.
func serviceOp(op string) string {
	switch op {
	case OpLoadJobs:
		return service.OpGetJobs
	case OpLoadCandidates:
		return service.OpGetCandidates
	case OpToggle:
		return service.OpUpdateJob
	case OpReorder:
		return service.OpReorderJob
	case OpMove:
		return service.OpUpdateCandidateStage
	}
	return ""
}

// plan decides every simulated call: only the current step's own operation
// fails, and only once.
func (h *Harness) plan(op string) (bool, bool) {
	if h.failOp != "" && op == h.failOp {
		h.failOp = ""
		return true, true
	}
	return false, true
}

func (h *Harness) observe(e optimistic.Event) {
	h.result.addTrace(TraceEvent{
		Step:    h.step,
		Type:    EventPhase,
		Op:      string(e.Intent),
		Attempt: e.Attempt,
		Slot:    e.Slot,
		Phase:   e.Phase.String(),
	})
}

func (h *Harness) notify(n optimistic.Notice) {
	h.result.Notices = append(h.result.Notices, n.Message)
	h.result.addTrace(TraceEvent{
		Step:    h.step,
		Type:    EventNotice,
		Slot:    n.Slot,
		Message: n.Message,
	})
}

// captureState copies the final views and the persisted jobs into the
// result.
func (h *Harness) captureState() {
	h.result.Jobs = h.ctrl.Jobs().Jobs
	h.result.Candidates = h.ctrl.Candidates().Candidates
	persisted := h.store.Jobs()
	slices.SortStableFunc(persisted, func(a, b domain.Job) int { return cmp.Compare(a.Order, b.Order) })
	h.result.Persisted = persisted
}
