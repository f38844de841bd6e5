package storage

import "time"

// Run statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// RunRecord is one extraction run in the history table.
// Chunks, vectors and extracted values are never persisted.
type RunRecord struct {
	ID          string     `json:"id"`       // UUID
	Document    string     `json:"document"` // Source path or "inline"
	Profile     string     `json:"profile"`
	Status      string     `json:"status"`
	Provenance  string     `json:"provenance,omitempty"` // generated | fallback
	RecordCount int        `json:"record_count"`
	ChunkCount  int        `json:"chunk_count"`
	OutputPath  string     `json:"output_path,omitempty"`
	ErrorKind   string     `json:"error_kind,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}
