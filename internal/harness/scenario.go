package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/talentflow/internal/domain"
)

// Scenario is a scripted sequence of controller intents with assertions on
// the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixture sizes the seeded dataset.
	Fixture Fixture `yaml:"fixture"`

	// Steps run in order, each to completion before the next.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final views and persisted state.
	Assertions []Assertion `yaml:"assertions"`
}

// Fixture describes the seeded dataset: Jobs and Candidates are passed to
// testutil.Fixture, and the listed job ids are archived afterwards.
type Fixture struct {
	Jobs       int      `yaml:"jobs"`
	Candidates int      `yaml:"candidates"`
	Archived   []string `yaml:"archived,omitempty"`
}

// Step is one intent or read.
type Step struct {
	Op string `yaml:"op"`

	// Filter is used by load_jobs.
	Filter *Filter `yaml:"filter,omitempty"`

	// Job is used by toggle.
	Job string `yaml:"job,omitempty"`

	// From and To are used by reorder.
	From int `yaml:"from,omitempty"`
	To   int `yaml:"to,omitempty"`

	// Candidate and Stage are used by move.
	Candidate string `yaml:"candidate,omitempty"`
	Stage     string `yaml:"stage,omitempty"`

	// Fail forces the simulated call behind this step to fail.
	Fail bool `yaml:"fail,omitempty"`
}

// Filter mirrors domain.JobFilter in scenario files.
type Filter struct {
	Search   string `yaml:"search,omitempty"`
	Status   string `yaml:"status,omitempty"`
	Page     int    `yaml:"page,omitempty"`
	PageSize int    `yaml:"page_size,omitempty"`
	Sort     string `yaml:"sort,omitempty"`
}

func (f *Filter) jobFilter() domain.JobFilter {
	if f == nil {
		return domain.JobFilter{}
	}
	return domain.JobFilter{
		Search:   f.Search,
		Status:   domain.JobStatus(f.Status),
		Page:     f.Page,
		PageSize: f.PageSize,
		Sort:     f.Sort,
	}
}

// Step op constants.
const (
	OpLoadJobs       = "load_jobs"
	OpLoadCandidates = "load_candidates"
	OpToggle         = "toggle"
	OpReorder        = "reorder"
	OpMove           = "move"
)

// Assertion validates the state after every step has run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Jobs is the expected id order (job_order, persisted_job_order).
	Jobs []string `yaml:"jobs,omitempty"`

	// Job and Status are used by job_status.
	Job    string `yaml:"job,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Candidate and Stage are used by candidate_stage.
	Candidate string `yaml:"candidate,omitempty"`
	Stage     string `yaml:"stage,omitempty"`

	// Messages is the expected notice list (notices).
	Messages []string `yaml:"messages,omitempty"`
}

// Assertion type constants.
const (
	AssertJobOrder          = "job_order"
	AssertPersistedJobOrder = "persisted_job_order"
	AssertJobStatus         = "job_status"
	AssertCandidateStage    = "candidate_stage"
	AssertNotices           = "notices"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Fixture.Jobs < 0 || s.Fixture.Candidates < 0 {
		return fmt.Errorf("fixture sizes must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks the fields each op needs.
func validateStep(index int, s *Step) error {
	switch s.Op {
	case OpLoadJobs, OpLoadCandidates:
	case OpToggle:
		if s.Job == "" {
			return fmt.Errorf("steps[%d]: job is required for toggle", index)
		}
	case OpReorder:
		if s.From < 1 || s.To < 1 {
			return fmt.Errorf("steps[%d]: from and to must be positive for reorder", index)
		}
	case OpMove:
		if s.Candidate == "" || s.Stage == "" {
			return fmt.Errorf("steps[%d]: candidate and stage are required for move", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertJobOrder, AssertPersistedJobOrder:
		if a.Jobs == nil {
			return fmt.Errorf("assertions[%d]: jobs is required for %s", index, a.Type)
		}
	case AssertJobStatus:
		if a.Job == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: job and status are required for job_status", index)
		}
	case AssertCandidateStage:
		if a.Candidate == "" || a.Stage == "" {
			return fmt.Errorf("assertions[%d]: candidate and stage are required for candidate_stage", index)
		}
	case AssertNotices:
		if a.Messages == nil {
			return fmt.Errorf("assertions[%d]: messages is required for notices (use [] for none)", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
