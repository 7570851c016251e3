package models

import "time"

// RunRecord is a persisted simulation run. Scene holds the JSONB scene
// configuration the run was created from.
type RunRecord struct {
	ID        int       `db:"id" json:"id"`
	Token     string    `db:"token" json:"token"`
	Name      string    `db:"name" json:"name"`
	Scene     []byte    `db:"scene" json:"scene"`
	Status    string    `db:"status" json:"status"` // RUNNING, PAUSED, DELETED
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SnapshotRecord is a periodic capture of a run's ball state.
type SnapshotRecord struct {
	ID        int       `db:"id" json:"id"`
	RunToken  string    `db:"run_token" json:"run_token"`
	Tick      int64     `db:"tick" json:"tick"`
	SimTime   float64   `db:"sim_time" json:"sim_time"`
	State     []byte    `db:"state" json:"state"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
