package service

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
)

// GetCandidates returns every candidate.
func (s *Service) GetCandidates(ctx context.Context) ([]domain.Candidate, error) {
	cands := s.store.Candidates()
	if err := s.call(ctx, OpGetCandidates, s.rates.Default); err != nil {
		return nil, err
	}
	return cands, nil
}

// UpdateCandidateStage moves a candidate to stage. Any stage may follow any
// other.
func (s *Service) UpdateCandidateStage(ctx context.Context, id string, stage domain.Stage) (domain.Candidate, error) {
	if err := s.validate.Var(stage, "candidate_stage"); err != nil {
		return domain.Candidate{}, NewValidationError("unknown stage %q", stage)
	}

	cands := s.store.Candidates()
	idx := slices.IndexFunc(cands, func(c domain.Candidate) bool { return c.ID == id })
	if idx >= 0 {
		cands[idx].Stage = stage
	}

	if err := s.call(ctx, OpUpdateCandidateStage, s.rates.Update); err != nil {
		return domain.Candidate{}, err
	}
	if idx < 0 {
		return domain.Candidate{}, NewNotFoundError("candidate", id)
	}
	if err := s.store.SaveCandidates(persistCtx(ctx), cands); err != nil {
		return domain.Candidate{}, errors.Wrap(err, "update candidate stage")
	}

	s.logger.Info("candidate moved", zap.String("id", id), zap.String("stage", string(stage)))
	return cands[idx], nil
}
