package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Collection buckets renamed from the legacy "talentflow_" prefix
const currentSchemaVersion = 1

// legacyPrefix is the key prefix used by the browser build's local storage.
const legacyPrefix = "talentflow_"

// Seeder produces a complete, self-consistent dataset.
type Seeder func() domain.Dataset

// Store provides durable storage for the recruiting dataset.
// Uses SQLite with WAL mode; one row per named collection.
type Store struct {
	db     *sql.DB
	seeder Seeder
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot domain.Dataset
}

// Option configures a Store.
type Option func(*Store)

// WithSeeder replaces the seeder used when a collection is absent.
func WithSeeder(seeder Seeder) Option {
	return func(s *Store) {
		s.seeder = seeder
	}
}

// WithSeed uses the synthetic seeder with a deterministic random source.
func WithSeed(seed uint64) Option {
	return func(s *Store) {
		s.seeder = func() domain.Dataset {
			return Seed(NewSeedRand(seed))
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open creates or opens a SQLite database at the given path and loads the
// snapshot, seeding it if any collection is absent or corrupt.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Use ":memory:" for a throwaway store.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// SQLite only supports one writer at a time, and an in-memory database
	// exists per connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to apply pragmas")
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to apply schema")
	}

	s := &Store{
		db:     db,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeder == nil {
		s.seeder = func() domain.Dataset {
			return Seed(NewSeedRand(uint64(time.Now().UnixNano())))
		}
	}

	if err := s.loadOrSeed(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Snapshot returns a deep copy of the whole in-memory dataset.
func (s *Store) Snapshot() domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Jobs returns a deep copy of the jobs collection.
func (s *Store) Jobs() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneJobs(s.snapshot.Jobs)
}

// Candidates returns a copy of the candidates collection.
func (s *Store) Candidates() []domain.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneCandidates(s.snapshot.Candidates)
}

// Assessments returns a deep copy of the assessments map.
func (s *Store) Assessments() map[string]domain.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAssessments(s.snapshot.Assessments)
}

// Reseed discards every collection and writes a freshly seeded dataset.
func (s *Store) Reseed(ctx context.Context) error {
	return s.seedAll(ctx, s.seeder())
}

// loadOrSeed reconstructs the snapshot, reseeding when any collection is
// absent. Corrupt payloads count as absent.
func (s *Store) loadOrSeed(ctx context.Context) error {
	var ds domain.Dataset

	hasJobs, err := s.Load(ctx, domain.KeyJobs, &ds.Jobs)
	if err != nil {
		return err
	}
	hasCands, err := s.Load(ctx, domain.KeyCandidates, &ds.Candidates)
	if err != nil {
		return err
	}
	hasAssess, err := s.Load(ctx, domain.KeyAssessments, &ds.Assessments)
	if err != nil {
		return err
	}

	if !hasJobs || !hasCands || !hasAssess {
		s.logger.Info("collections missing, generating seed data",
			zap.Bool("jobs", hasJobs),
			zap.Bool("candidates", hasCands),
			zap.Bool("assessments", hasAssess))
		return s.seedAll(ctx, s.seeder())
	}

	s.mu.Lock()
	s.snapshot = ds
	s.mu.Unlock()
	return nil
}

// seedAll writes the three collections in one transaction, then replaces
// the snapshot.
func (s *Store) seedAll(ctx context.Context, ds domain.Dataset) (retErr error) {
	if ds.Jobs == nil {
		ds.Jobs = []domain.Job{}
	}
	if ds.Candidates == nil {
		ds.Candidates = []domain.Candidate{}
	}
	if ds.Assessments == nil {
		ds.Assessments = map[string]domain.Assessment{}
	}

	payloads := make(map[string][]byte, len(domain.CollectionKeys))
	for _, key := range domain.CollectionKeys {
		var value any
		switch key {
		case domain.KeyJobs:
			value = ds.Jobs
		case domain.KeyCandidates:
			value = ds.Candidates
		case domain.KeyAssessments:
			value = ds.Assessments
		}
		data, err := marshalCollection(key, value)
		if err != nil {
			return err
		}
		payloads[key] = data
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "seed: begin tx")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, key := range domain.CollectionKeys {
		if _, err := tx.ExecContext(ctx, upsertSQL, key, payloads[key]); err != nil {
			return errors.Wrapf(err, "seed: upsert %s", key)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "seed: commit")
	}

	s.mu.Lock()
	s.snapshot = ds.Clone()
	s.mu.Unlock()

	s.logger.Info("seed data written",
		zap.Int("jobs", len(ds.Jobs)),
		zap.Int("candidates", len(ds.Candidates)),
		zap.Int("assessments", len(ds.Assessments)))
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "failed to execute %q", pragma)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "failed to execute schema")
	}

	if err := runMigrations(db); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return errors.Wrap(err, "get user_version")
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return errors.Wrap(err, "set user_version")
	}

	return nil
}

// migrateToV1 renames buckets imported from the browser build, which stored
// "talentflow_jobs" and friends. A bare key that already exists wins; the
// leftover prefixed row is dropped.
func migrateToV1(db *sql.DB) error {
	pattern := legacyPrefix + "%"
	if _, err := db.Exec(
		`UPDATE OR IGNORE state SET bucket = substr(bucket, ?) WHERE bucket LIKE ?`,
		len(legacyPrefix)+1, pattern,
	); err != nil {
		return errors.Wrap(err, "migrate to v1: rename")
	}
	if _, err := db.Exec(`DELETE FROM state WHERE bucket LIKE ?`, pattern); err != nil {
		return errors.Wrap(err, "migrate to v1: cleanup")
	}
	return nil
}
