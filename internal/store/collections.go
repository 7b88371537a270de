package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
)

const upsertSQL = `INSERT INTO state(bucket, payload) VALUES(?, ?)
	ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`

// Load decodes the named collection into dst.
//
// Returns false when the collection is absent or its payload is corrupt.
// Corruption is logged, never returned; only database failures produce an
// error.
func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	payload, found, err := s.Raw(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	ok, err := unmarshalCollection(key, payload, dst)
	if err != nil {
		s.logger.Warn("stored collection is corrupt, treating as absent",
			zap.String("key", key),
			zap.Error(err))
		return false, nil
	}
	return ok, nil
}

// Raw returns the persisted bytes of a collection.
func (s *Store) Raw(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "load %s", key)
	}
	return payload, true, nil
}

// Save persists value under key, replacing the whole collection, and
// refreshes the in-memory snapshot for the known collection keys.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := marshalCollection(key, value)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, data); err != nil {
		return errors.Wrapf(err, "save %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := value.(type) {
	case []domain.Job:
		s.snapshot.Jobs = domain.CloneJobs(v)
	case []domain.Candidate:
		s.snapshot.Candidates = domain.CloneCandidates(v)
	case map[string]domain.Assessment:
		s.snapshot.Assessments = domain.CloneAssessments(v)
	}
	return nil
}

// SaveJobs replaces the jobs collection.
func (s *Store) SaveJobs(ctx context.Context, jobs []domain.Job) error {
	return s.Save(ctx, domain.KeyJobs, jobs)
}

// SaveCandidates replaces the candidates collection.
func (s *Store) SaveCandidates(ctx context.Context, cands []domain.Candidate) error {
	return s.Save(ctx, domain.KeyCandidates, cands)
}

// SaveAssessments replaces the assessments collection.
func (s *Store) SaveAssessments(ctx context.Context, assessments map[string]domain.Assessment) error {
	return s.Save(ctx, domain.KeyAssessments, assessments)
}
