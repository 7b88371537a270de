package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
)

// GetAssessment returns the assessment for jobID, or nil when the job has
// none. A missing assessment is not an error.
func (s *Service) GetAssessment(ctx context.Context, jobID string) (*domain.Assessment, error) {
	a, ok := s.store.Assessments()[jobID]
	if err := s.call(ctx, OpGetAssessment, s.rates.Default); err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// SaveAssessment inserts or replaces the assessment for jobID.
//
// JobID is forced to jobID, a blank ID becomes "assess-<jobID>" and blank
// question ids are generated. The result is validated per question kind
// before anything is sent.
func (s *Service) SaveAssessment(ctx context.Context, jobID string, a domain.Assessment) (domain.Assessment, error) {
	if strings.TrimSpace(jobID) == "" {
		return domain.Assessment{}, NewValidationError("job id is required")
	}

	a = a.Clone()
	a.JobID = jobID
	if a.ID == "" {
		a.ID = "assess-" + jobID
	}
	if a.Questions == nil {
		a.Questions = []domain.Question{}
	}
	for i := range a.Questions {
		if a.Questions[i].ID == "" {
			a.Questions[i].ID = "q-" + s.ids.Generate()
		}
	}
	if err := s.validate.Struct(a); err != nil {
		return domain.Assessment{}, validationError(err)
	}

	assessments := s.store.Assessments()
	if assessments == nil {
		assessments = map[string]domain.Assessment{}
	}
	assessments[jobID] = a

	if err := s.call(ctx, OpSaveAssessment, s.rates.Default); err != nil {
		return domain.Assessment{}, err
	}
	if err := s.store.SaveAssessments(persistCtx(ctx), assessments); err != nil {
		return domain.Assessment{}, errors.Wrap(err, "save assessment")
	}

	s.logger.Info("assessment saved", zap.String("job_id", jobID), zap.Int("questions", len(a.Questions)))
	return a.Clone(), nil
}
