package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/simulator"
)

// Simulated operation names. They label metrics and let test sleepers hold
// back one operation.
const (
	OpGetJobs              = "getJobs"
	OpCreateJob            = "createJob"
	OpUpdateJob            = "updateJob"
	OpReorderJob           = "reorderJob"
	OpGetCandidates        = "getCandidates"
	OpUpdateCandidateStage = "updateCandidateStage"
	OpGetAssessment        = "getAssessment"
	OpSaveAssessment       = "saveAssessment"
)

// Store is the durable state the service reads and replaces.
// *store.Store satisfies it.
type Store interface {
	Jobs() []domain.Job
	Candidates() []domain.Candidate
	Assessments() map[string]domain.Assessment
	SaveJobs(ctx context.Context, jobs []domain.Job) error
	SaveCandidates(ctx context.Context, cands []domain.Candidate) error
	SaveAssessments(ctx context.Context, assessments map[string]domain.Assessment) error
}

// Caller performs one simulated remote call. *simulator.Simulator
// satisfies it.
type Caller interface {
	Call(ctx context.Context, op string, opts ...simulator.CallOption) error
}

// ErrorRates are the failure probabilities per class of operation.
type ErrorRates struct {
	// Default applies to reads, job creation and assessment saves.
	Default float64
	// Update applies to job updates and candidate stage moves.
	Update float64
	// Reorder applies to job reordering.
	Reorder float64
}

// DefaultErrorRates returns 10% by default, 5% for updates and 20% for
// reorders.
func DefaultErrorRates() ErrorRates {
	return ErrorRates{Default: 0.1, Update: 0.05, Reorder: 0.2}
}

// Service implements the recruiting operations.
//
// Thread-safety: safe for concurrent use, with the read-modify-write race
// described in the package documentation.
type Service struct {
	store    Store
	sim      Caller
	ids      IDGenerator
	rates    ErrorRates
	validate *validator.Validate
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator sets the id generator for new jobs and questions.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithErrorRates overrides the per-operation failure probabilities.
func WithErrorRates(r ErrorRates) Option {
	return func(s *Service) {
		s.rates = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service over st, calling through sim.
func New(st Store, sim Caller, opts ...Option) *Service {
	s := &Service{
		store:    st,
		sim:      sim,
		ids:      UUIDv7Generator{},
		rates:    DefaultErrorRates(),
		validate: domain.NewValidator(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// call runs the simulated wait for op at the given failure rate.
func (s *Service) call(ctx context.Context, op string, rate float64) error {
	if err := s.sim.Call(ctx, op, simulator.WithErrorRate(rate)); err != nil {
		s.logger.Debug("operation failed in transit", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

// persistCtx detaches the write from the caller's cancellation: once the
// simulated call has resolved, the effect is committed even if the caller
// has gone away.
func persistCtx(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
