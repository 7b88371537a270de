package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/optimistic"
)

// response mirrors CLIResponse with the payload left raw.
type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// execute runs the root command and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// reliable returns global flags for a fresh seeded database where no call
// fails or waits.
func reliable(t *testing.T) []string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "talentflow.db")
	return []string{"--db", db, "--seed", "7", "--error-rate", "0", "--no-latency", "--format", "json"}
}

func run(t *testing.T, global []string, args ...string) response {
	t.Helper()
	out, _, err := execute(t, append(append([]string{}, global...), args...)...)
	require.NoError(t, err)
	var resp response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	return resp
}

func listAll(t *testing.T, global []string) domain.JobPage {
	t.Helper()
	var page domain.JobPage
	resp := run(t, global, "jobs", "list", "--page-size", "1000")
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	return page
}

func findJob(t *testing.T, jobs []domain.Job, id string) domain.Job {
	t.Helper()
	for _, j := range jobs {
		if j.ID == id {
			return j
		}
	}
	t.Fatalf("job %s not found", id)
	return domain.Job{}
}

func TestJobsList(t *testing.T) {
	global := reliable(t)

	var page domain.JobPage
	resp := run(t, global, "jobs", "list")
	require.NoError(t, json.Unmarshal(resp.Data, &page))

	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Jobs, 10)
	for i, j := range page.Jobs {
		assert.Equal(t, i+1, j.Order)
	}
}

func TestJobsListText(t *testing.T) {
	db := filepath.Join(t.TempDir(), "talentflow.db")
	out, _, err := execute(t, "--db", db, "--seed", "7", "--error-rate", "0", "--no-latency",
		"jobs", "list", "--search", "engineer 2", "--page-size", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "ORDER")
	assert.Contains(t, out, "Software Engineer 2")
	assert.Contains(t, out, "Page 1, 3 of 7 jobs")
}

func TestJobsCreate(t *testing.T) {
	global := reliable(t)

	var job domain.Job
	resp := run(t, global, "jobs", "create", "--title", "Staff  Engineer", "--tags", " Go, ,SQL ")
	require.NoError(t, json.Unmarshal(resp.Data, &job))

	assert.Equal(t, "staff-engineer", job.Slug)
	assert.Equal(t, []string{"Go", "SQL"}, job.Tags)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, 26, job.Order)

	page := listAll(t, global)
	assert.Equal(t, 26, page.Total)
	assert.Equal(t, job, findJob(t, page.Jobs, job.ID))
}

func TestJobsCreateWithoutTitle(t *testing.T) {
	global := reliable(t)

	out, _, err := execute(t, append(global, "jobs", "create", "--title", "  ")...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeValidation, resp.Error.Code)
	assert.Equal(t, 25, listAll(t, global).Total)
}

func TestJobsUpdate(t *testing.T) {
	global := reliable(t)

	run(t, global, "jobs", "update", "job-3", "--title", "Platform Engineer", "--tags", "")

	job := findJob(t, listAll(t, global).Jobs, "job-3")
	assert.Equal(t, "Platform Engineer", job.Title)
	assert.Equal(t, "software-engineer-3", job.Slug, "slug is not re-derived on update")
	assert.Empty(t, job.Tags)
	assert.Equal(t, 3, job.Order)
}

func TestJobsUpdateErrors(t *testing.T) {
	global := reliable(t)

	t.Run("unknown id", func(t *testing.T) {
		out, _, err := execute(t, append(global, "jobs", "update", "job-404", "--title", "x")...)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var resp response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, CodeNotFound, resp.Error.Code)
	})

	t.Run("nothing to update", func(t *testing.T) {
		_, _, err := execute(t, append(global, "jobs", "update", "job-1")...)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("bad status", func(t *testing.T) {
		_, _, err := execute(t, append(global, "jobs", "update", "job-1", "--status", "paused")...)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestJobsToggle(t *testing.T) {
	global := reliable(t)
	before := findJob(t, listAll(t, global).Jobs, "job-4")

	var res ViewResult
	resp := run(t, global, "jobs", "toggle", "job-4")
	require.NoError(t, json.Unmarshal(resp.Data, &res))

	require.NotNil(t, res.Job)
	assert.Equal(t, before.Status.Toggle(), res.Job.Status)
	assert.Empty(t, res.Notices)

	after := findJob(t, listAll(t, global).Jobs, "job-4")
	assert.Equal(t, before.Status.Toggle(), after.Status)
}

func TestJobsToggleRollback(t *testing.T) {
	t.Setenv("TALENTFLOW_ERROR_RATE", "0")
	t.Setenv("TALENTFLOW_UPDATE_ERROR_RATE", "1")
	db := filepath.Join(t.TempDir(), "talentflow.db")
	global := []string{"--db", db, "--seed", "7", "--no-latency", "--format", "json"}
	before := findJob(t, listAll(t, global).Jobs, "job-4")

	out, _, err := execute(t, append(global, "jobs", "toggle", "job-4")...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNetwork, resp.Error.Code)

	var res ViewResult
	require.NoError(t, json.Unmarshal(resp.Error.Details, &res))
	assert.Equal(t, []string{optimistic.MessageToggleFailed}, res.Notices)
	require.NotNil(t, res.Job)
	assert.Equal(t, before, *res.Job, "view restored")

	assert.Equal(t, before, findJob(t, listAll(t, global).Jobs, "job-4"), "nothing persisted")
}

func TestJobsToggleTextRollbackNotice(t *testing.T) {
	t.Setenv("TALENTFLOW_ERROR_RATE", "0")
	t.Setenv("TALENTFLOW_UPDATE_ERROR_RATE", "1")
	db := filepath.Join(t.TempDir(), "talentflow.db")

	_, errOut, err := execute(t, "--db", db, "--seed", "7", "--no-latency", "jobs", "toggle", "job-1")
	require.Error(t, err)
	assert.Contains(t, errOut, optimistic.MessageToggleFailed)
}

func TestJobsToggleNotInView(t *testing.T) {
	global := reliable(t)

	_, _, err := execute(t, append(global, "jobs", "toggle", "job-4", "--page-size", "2")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, optimistic.ErrNotInView)
}

func TestJobsReorder(t *testing.T) {
	global := reliable(t)

	var res ViewResult
	resp := run(t, global, "jobs", "reorder", "5", "1")
	require.NoError(t, json.Unmarshal(resp.Data, &res))

	require.Len(t, res.Jobs, 25)
	assert.Equal(t, "job-5", res.Jobs[0].ID)
	assert.Equal(t, "job-1", res.Jobs[1].ID)
	for i, j := range res.Jobs {
		assert.Equal(t, i+1, j.Order)
	}

	page := listAll(t, global)
	assert.Equal(t, 1, findJob(t, page.Jobs, "job-5").Order)
	assert.Equal(t, 5, findJob(t, page.Jobs, "job-4").Order)
}

func TestJobsReorderBadArgs(t *testing.T) {
	global := reliable(t)

	_, _, err := execute(t, append(global, "jobs", "reorder", "x", "1")...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCandidatesList(t *testing.T) {
	global := reliable(t)

	var list CandidateList
	resp := run(t, global, "candidates", "list", "--limit", "5")
	require.NoError(t, json.Unmarshal(resp.Data, &list))

	assert.Equal(t, 1000, list.Total)
	assert.Len(t, list.Candidates, 5)
	sum := 0
	for _, n := range list.ByStage {
		sum += n
	}
	assert.Equal(t, 1000, sum)

	resp = run(t, global, "candidates", "list", "--search", "CANDIDATE12@example.com")
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.Candidates, 1)
	assert.Equal(t, "cand-12", list.Candidates[0].ID)
}

func TestCandidatesListUnknownStage(t *testing.T) {
	global := reliable(t)

	_, _, err := execute(t, append(global, "candidates", "list", "--stage", "lunch")...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCandidatesMove(t *testing.T) {
	global := reliable(t)

	var res MoveResult
	resp := run(t, global, "candidates", "move", "cand-12", "hired")
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	require.NotNil(t, res.Candidate)
	assert.Equal(t, domain.StageHired, res.Candidate.Stage)

	// Backwards moves are allowed.
	run(t, global, "candidates", "move", "cand-12", "applied")

	var list CandidateList
	resp = run(t, global, "candidates", "list", "--search", "candidate12@example.com")
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.Candidates, 1)
	assert.Equal(t, domain.StageApplied, list.Candidates[0].Stage)
}

func TestAssessmentShow(t *testing.T) {
	global := reliable(t)

	var a domain.Assessment
	resp := run(t, global, "assessment", "show", "job-1")
	require.NoError(t, json.Unmarshal(resp.Data, &a))
	assert.Equal(t, "job-1", a.JobID)
	assert.Len(t, a.Questions, 6)

	var blank domain.Assessment
	resp = run(t, global, "assessment", "show", "job-2")
	require.NoError(t, json.Unmarshal(resp.Data, &blank))
	assert.Equal(t, domain.BlankAssessment("job-2"), blank)
}

func TestAssessmentShowText(t *testing.T) {
	db := filepath.Join(t.TempDir(), "talentflow.db")
	out, _, err := execute(t, "--db", db, "--seed", "7", "--error-rate", "0", "--no-latency",
		"assessment", "show", "job-1")
	require.NoError(t, err)

	assert.Contains(t, out, "questions:")
	assert.Contains(t, out, "type: single-choice")
}

func TestAssessmentSave(t *testing.T) {
	global := reliable(t)
	file := filepath.Join(t.TempDir(), "job-2.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`questions:
  - type: short-text
    label: Why us?
    required: true
  - id: level
    type: single-choice
    label: Level
    options: [junior, senior]
`), 0644))

	run(t, global, "assessment", "save", "job-2", "-f", file)

	var a domain.Assessment
	resp := run(t, global, "assessment", "show", "job-2")
	require.NoError(t, json.Unmarshal(resp.Data, &a))
	assert.Equal(t, "assess-job-2", a.ID)
	assert.Equal(t, "job-2", a.JobID)
	require.Len(t, a.Questions, 2)
	assert.NotEmpty(t, a.Questions[0].ID)
	assert.Equal(t, "level", a.Questions[1].ID)
}

func TestAssessmentSaveInvalid(t *testing.T) {
	global := reliable(t)
	dir := t.TempDir()

	t.Run("unknown field", func(t *testing.T) {
		file := filepath.Join(dir, "typo.yaml")
		require.NoError(t, os.WriteFile(file, []byte("question: []\n"), 0644))

		_, _, err := execute(t, append(global, "assessment", "save", "job-2", "-f", file)...)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("choice without options", func(t *testing.T) {
		file := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(file, []byte("questions:\n  - type: multi-choice\n    label: Pick\n"), 0644))

		out, _, err := execute(t, append(global, "assessment", "save", "job-2", "-f", file)...)
		require.Error(t, err)
		var resp response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, CodeValidation, resp.Error.Code)
	})
}

func TestSeed(t *testing.T) {
	global := reliable(t)

	var res SeedResult
	resp := run(t, global, "seed")
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, SeedResult{Jobs: 25, Candidates: 1000, Assessments: 1}, res)

	run(t, global, "jobs", "create", "--title", "Extra")
	assert.Equal(t, 26, listAll(t, global).Total)

	resp = run(t, global, "seed", "--force")
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.True(t, res.Reseeded)
	assert.Equal(t, 25, listAll(t, global).Total)
}

func TestMetricsFile(t *testing.T) {
	global := reliable(t)
	path := filepath.Join(t.TempDir(), "metrics.prom")

	run(t, global, "--metrics-file", path, "jobs", "toggle", "job-1")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `talentflow_simulated_calls_total{op="getJobs",outcome="ok"} 1`)
	assert.Contains(t, string(data), `talentflow_simulated_calls_total{op="updateJob",outcome="ok"} 1`)
	assert.Contains(t, string(data), `talentflow_optimistic_attempts_total{intent="toggle",outcome="committed"} 1`)
}
