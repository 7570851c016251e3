package store

import (
	"github.com/jmoiron/sqlx"

	"github.com/dynbilliards/backend/internal/models"
)

// Store persists runs and snapshots. A nil Store (or one built on a nil DB)
// turns every call into a no-op so the simulation can run without Postgres.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

func (s *Store) enabled() bool {
	return s != nil && s.db != nil
}

// SaveRun inserts a new run with its scene config as JSONB.
func (s *Store) SaveRun(token, name string, scene []byte) error {
	if !s.enabled() {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (token, name, scene, status, created_at, updated_at) VALUES ($1, $2, $3::jsonb, 'PAUSED', NOW(), NOW())`,
		token, name, string(scene),
	)
	return err
}

// SetRunStatus updates a run's status column.
func (s *Store) SetRunStatus(token, status string) error {
	if !s.enabled() {
		return nil
	}
	_, err := s.db.Exec(`UPDATE runs SET status=$2, updated_at=NOW() WHERE token=$1`, token, status)
	return err
}

// SaveSnapshot records a capture of the run's ball state.
func (s *Store) SaveSnapshot(token string, tick uint64, simTime float64, state []byte) error {
	if !s.enabled() {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO run_snapshots (run_token, tick, sim_time, state, created_at) VALUES ($1, $2, $3, $4::jsonb, NOW())`,
		token, int64(tick), simTime, string(state),
	)
	return err
}

// GetRun loads one run by token.
func (s *Store) GetRun(token string) (*models.RunRecord, error) {
	if !s.enabled() {
		return nil, nil
	}
	var rec models.RunRecord
	if err := s.db.Get(&rec, `SELECT id, token, name, scene, status, created_at, updated_at FROM runs WHERE token=$1`, token); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]models.RunRecord, error) {
	if !s.enabled() {
		return nil, nil
	}
	var recs []models.RunRecord
	if err := s.db.Select(&recs, `SELECT id, token, name, scene, status, created_at, updated_at FROM runs WHERE status != 'DELETED' ORDER BY created_at DESC LIMIT $1`, limit); err != nil {
		return nil, err
	}
	return recs, nil
}

// LatestSnapshot returns the newest snapshot for a run.
func (s *Store) LatestSnapshot(token string) (*models.SnapshotRecord, error) {
	if !s.enabled() {
		return nil, nil
	}
	var rec models.SnapshotRecord
	if err := s.db.Get(&rec, `SELECT id, run_token, tick, sim_time, state, created_at FROM run_snapshots WHERE run_token=$1 ORDER BY tick DESC LIMIT 1`, token); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteRun marks the run deleted and drops its snapshots.
func (s *Store) DeleteRun(token string) error {
	if !s.enabled() {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM run_snapshots WHERE run_token=$1`, token); err != nil {
		return err
	}
	_, err := s.db.Exec(`UPDATE runs SET status='DELETED', updated_at=NOW() WHERE token=$1`, token)
	return err
}
