package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/simulator"
	"github.com/roach88/talentflow/internal/store"
	"github.com/roach88/talentflow/internal/testutil"
)

// countingCaller wraps a Caller and records every op it was asked to run.
type countingCaller struct {
	mu    sync.Mutex
	inner Caller
	ops   []string
}

func (c *countingCaller) Call(ctx context.Context, op string, opts ...simulator.CallOption) error {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
	return c.inner.Call(ctx, op, opts...)
}

func (c *countingCaller) calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

type fixture struct {
	store  *store.Store
	caller *countingCaller
	svc    *Service
}

// newFixture builds a service over an in-memory store seeded with ds. The
// simulator never sleeps and, with ConstRand(0.99), never fails unless a
// rate of 1.0 is configured.
func newFixture(t *testing.T, ds domain.Dataset, simOpts []simulator.Option, opts ...Option) *fixture {
	t.Helper()

	st, err := store.Open(":memory:", store.WithSeeder(func() domain.Dataset { return ds }))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	base := []simulator.Option{
		simulator.WithRand(testutil.ConstRand(0.99)),
		simulator.WithSleeper(simulator.NoopSleeper{}),
	}
	caller := &countingCaller{inner: simulator.New(append(base, simOpts...)...)}

	opts = append([]Option{
		WithIDGenerator(testutil.NewSequentialIDGenerator("gen", 1)),
		WithLogger(zaptest.NewLogger(t)),
	}, opts...)
	return &fixture{store: st, caller: caller, svc: New(st, caller, opts...)}
}

func failing(ops ...string) []simulator.Option {
	set := map[string]bool{}
	for _, op := range ops {
		set[op] = true
	}
	return []simulator.Option{simulator.WithFailurePlan(func(op string) (bool, bool) {
		return set[op], set[op]
	})}
}

func assertContiguous(t *testing.T, jobs []domain.Job) {
	t.Helper()
	seen := make([]bool, len(jobs)+1)
	for _, j := range jobs {
		require.GreaterOrEqual(t, j.Order, 1)
		require.LessOrEqual(t, j.Order, len(jobs))
		require.False(t, seen[j.Order], "duplicate order %d", j.Order)
		seen[j.Order] = true
	}
}

func TestReorderJob_MovesFirstToLast(t *testing.T) {
	f := newFixture(t, testutil.Fixture(3, 0), nil)

	got, err := f.svc.ReorderJob(context.Background(), domain.ReorderRequest{FromOrder: 1, ToOrder: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"job-2", "job-3", "job-1"}, testutil.JobIDs(got))
	assert.Equal(t, []int{1, 2, 3}, testutil.JobOrders(got))
	assert.Equal(t, got, f.store.Jobs())
}

func TestReorderJob_AlwaysContiguous(t *testing.T) {
	const n = 6
	f := newFixture(t, testutil.Fixture(n, 0), nil)
	ctx := context.Background()

	for from := 1; from <= n; from++ {
		for to := 1; to <= n; to++ {
			got, err := f.svc.ReorderJob(ctx, domain.ReorderRequest{FromOrder: from, ToOrder: to})
			require.NoError(t, err)
			require.Len(t, got, n)
			assertContiguous(t, got)
			assertContiguous(t, f.store.Jobs())
		}
	}
}

func TestReorder_RelativePosition(t *testing.T) {
	jobs := testutil.Fixture(5, 0).Jobs
	// Gaps in the raw numbers must not matter; only relative position does.
	for i := range jobs {
		jobs[i].Order = (i + 1) * 10
	}

	got := Reorder(jobs, 5, 2)
	assert.Equal(t, []string{"job-1", "job-5", "job-2", "job-3", "job-4"}, testutil.JobIDs(got))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, testutil.JobOrders(got))
	assert.Equal(t, 10, jobs[0].Order, "input is not modified")
}

func TestReorderJob_OutOfRange(t *testing.T) {
	f := newFixture(t, testutil.Fixture(3, 0), nil)

	for _, req := range []domain.ReorderRequest{
		{FromOrder: 0, ToOrder: 1},
		{FromOrder: 1, ToOrder: 4},
		{FromOrder: 4, ToOrder: 1},
	} {
		_, err := f.svc.ReorderJob(context.Background(), req)
		assert.True(t, IsValidation(err), "%+v", req)
	}
	assert.Empty(t, f.caller.calls())
}

func TestCreateJob_AppendsActiveWithSlug(t *testing.T) {
	f := newFixture(t, testutil.Fixture(25, 0), nil)

	job, err := f.svc.CreateJob(context.Background(), domain.CreateJobInput{Title: "Backend Engineer  II"})
	require.NoError(t, err)

	assert.Equal(t, 26, job.Order)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, "backend-engineer-ii", job.Slug)
	assert.Equal(t, "job-gen-1", job.ID)
	assert.NotNil(t, job.Tags)
	assert.Empty(t, job.Tags)

	jobs := f.store.Jobs()
	require.Len(t, jobs, 26)
	assert.Equal(t, job, jobs[25])
}

func TestCreateJob_BlankTitleNeverReachesSimulator(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), nil)

	_, err := f.svc.CreateJob(context.Background(), domain.CreateJobInput{Title: "  "})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.caller.calls())
	assert.Len(t, f.store.Jobs(), 2)
}

func TestUpdateJob_FailureLeavesPersistedBytesUnchanged(t *testing.T) {
	f := newFixture(t, testutil.Fixture(3, 0), nil,
		WithErrorRates(ErrorRates{Default: 0, Update: 1.0, Reorder: 0}))
	ctx := context.Background()

	before, _, err := f.store.Raw(ctx, domain.KeyJobs)
	require.NoError(t, err)

	archived := domain.JobStatusArchived
	_, err = f.svc.UpdateJob(ctx, "job-1", domain.JobPatch{Status: &archived})
	require.Error(t, err)
	assert.True(t, simulator.IsNetworkError(err))

	after, _, err := f.store.Raw(ctx, domain.KeyJobs)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, domain.JobStatusActive, f.store.Jobs()[0].Status)
}

func TestUpdateJob_ShallowMerge(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), nil)
	title := "Platform Engineer"

	job, err := f.svc.UpdateJob(context.Background(), "job-2", domain.JobPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Platform Engineer", job.Title)
	assert.Equal(t, "job-2", job.Slug, "slug is not re-derived")
	assert.Equal(t, []string{"Go"}, job.Tags)
	assert.Equal(t, job, f.store.Jobs()[1])
}

func TestUpdateJob_UnknownID(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), nil)
	before := f.store.Jobs()

	archived := domain.JobStatusArchived
	_, err := f.svc.UpdateJob(context.Background(), "job-99", domain.JobPatch{Status: &archived})
	assert.True(t, IsNotFound(err))
	assert.Equal(t, before, f.store.Jobs())
}

func TestUpdateJob_InvalidStatus(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), nil)
	bogus := domain.JobStatus("deleted")

	_, err := f.svc.UpdateJob(context.Background(), "job-1", domain.JobPatch{Status: &bogus})
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.caller.calls())
}

func TestUpdateCandidateStage_AnyTransition(t *testing.T) {
	f := newFixture(t, testutil.Fixture(1, 2), nil)
	ctx := context.Background()

	for _, from := range domain.Stages {
		for _, to := range domain.Stages {
			_, err := f.svc.UpdateCandidateStage(ctx, "cand-1", from)
			require.NoError(t, err)
			got, err := f.svc.UpdateCandidateStage(ctx, "cand-1", to)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, got.Stage)
		}
	}
	assert.Equal(t, domain.StageApplied, f.store.Candidates()[1].Stage, "other candidates untouched")
}

func TestUpdateCandidateStage_Errors(t *testing.T) {
	f := newFixture(t, testutil.Fixture(1, 1), nil)
	ctx := context.Background()

	_, err := f.svc.UpdateCandidateStage(ctx, "cand-1", domain.Stage("interview"))
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.caller.calls())

	_, err = f.svc.UpdateCandidateStage(ctx, "cand-404", domain.StageHired)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, domain.StageApplied, f.store.Candidates()[0].Stage)
}

func TestGetCandidates(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 5), nil)

	cands, err := f.svc.GetCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, cands, 5)
	assert.Equal(t, []string{OpGetCandidates}, f.caller.calls())
}

func TestGetCandidates_NetworkError(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 5), failing(OpGetCandidates))

	cands, err := f.svc.GetCandidates(context.Background())
	assert.Nil(t, cands)
	assert.True(t, simulator.IsNetworkError(err))
	assert.EqualError(t, err, "A random network error occurred.")
}

func TestGetAssessment_NoneIsNotAnError(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), nil)

	a, err := f.svc.GetAssessment(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = f.svc.GetAssessment(context.Background(), "job-1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "assess-1", a.ID)
}

func TestSaveAssessment_UpsertAndNormalize(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), nil)
	ctx := context.Background()

	saved, err := f.svc.SaveAssessment(ctx, "job-2", domain.Assessment{
		JobID: "ignored",
		Questions: []domain.Question{
			{Type: domain.QuestionShortText, Label: "Portfolio URL"},
			{ID: "keep", Type: domain.QuestionSingleChoice, Label: "Remote?", Options: []string{"yes", "no"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "assess-job-2", saved.ID)
	assert.Equal(t, "job-2", saved.JobID)
	assert.Equal(t, "q-gen-1", saved.Questions[0].ID)
	assert.Equal(t, "keep", saved.Questions[1].ID)
	assert.Equal(t, saved, f.store.Assessments()["job-2"])

	replaced, err := f.svc.SaveAssessment(ctx, "job-2", domain.Assessment{ID: "assess-job-2"})
	require.NoError(t, err)
	assert.Empty(t, replaced.Questions)
	assert.Len(t, f.store.Assessments(), 2)
}

func TestSaveAssessment_InvalidQuestion(t *testing.T) {
	f := newFixture(t, testutil.Fixture(1, 0), nil)

	_, err := f.svc.SaveAssessment(context.Background(), "job-1", domain.Assessment{
		Questions: []domain.Question{{Type: domain.QuestionMultiChoice, Label: "Pick"}},
	})
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.caller.calls())

	_, err = f.svc.SaveAssessment(context.Background(), "", domain.Assessment{})
	assert.True(t, IsValidation(err))
}

func TestSaveAssessment_FailurePersistsNothing(t *testing.T) {
	f := newFixture(t, testutil.Fixture(2, 0), failing(OpSaveAssessment))

	_, err := f.svc.SaveAssessment(context.Background(), "job-2", domain.BlankAssessment("job-2"))
	assert.True(t, simulator.IsNetworkError(err))
	assert.NotContains(t, f.store.Assessments(), "job-2")
}

// A mutation computes its result before the simulated wait. When a slower
// update resolves after a faster create, the update's stale collection wins
// and the created job is lost.
func TestConcurrentMutations_LastResolvedWins(t *testing.T) {
	gs := testutil.NewGateSleeper()
	f := newFixture(t, testutil.Fixture(3, 0), []simulator.Option{simulator.WithSleeper(gs)})
	ctx := context.Background()

	gs.Hold(OpUpdateJob)
	archived := domain.JobStatusArchived
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.UpdateJob(ctx, "job-1", domain.JobPatch{Status: &archived})
		done <- err
	}()
	gs.WaitArrived(OpUpdateJob)

	created, err := f.svc.CreateJob(ctx, domain.CreateJobInput{Title: "Data Engineer"})
	require.NoError(t, err)
	require.Len(t, f.store.Jobs(), 4)

	gs.Release(OpUpdateJob)
	require.NoError(t, <-done)

	jobs := f.store.Jobs()
	assert.Len(t, jobs, 3)
	assert.NotContains(t, testutil.JobIDs(jobs), created.ID)
	assert.Equal(t, domain.JobStatusArchived, jobs[0].Status)
}

func TestPersistSurvivesCallerCancellation(t *testing.T) {
	gs := testutil.NewGateSleeper()
	f := newFixture(t, testutil.Fixture(2, 0), []simulator.Option{simulator.WithSleeper(gs)})
	ctx, cancel := context.WithCancel(context.Background())

	gs.Hold(OpReorderJob)
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.ReorderJob(ctx, domain.ReorderRequest{FromOrder: 2, ToOrder: 1})
		done <- err
	}()
	gs.WaitArrived(OpReorderJob)
	cancel()
	gs.Release(OpReorderJob)

	require.NoError(t, <-done)
	assert.Equal(t, []string{"job-2", "job-1"}, testutil.JobIDs(f.store.Jobs()))
}

func TestErrorRatesArePerOperation(t *testing.T) {
	rates := DefaultErrorRates()
	assert.Equal(t, 0.1, rates.Default)
	assert.Equal(t, 0.05, rates.Update)
	assert.Equal(t, 0.2, rates.Reorder)

	// 0.15 fails at the 0.2 reorder rate but passes the 0.1 default.
	f := newFixture(t, testutil.Fixture(3, 0),
		[]simulator.Option{simulator.WithRand(testutil.ConstRand(0.15))})
	ctx := context.Background()

	_, err := f.svc.GetJobs(ctx, domain.JobFilter{})
	assert.NoError(t, err)
	_, err = f.svc.ReorderJob(ctx, domain.ReorderRequest{FromOrder: 1, ToOrder: 2})
	assert.True(t, simulator.IsNetworkError(err))
}
