package model

import "time"

// FailedTarget is a matched directory that could not be deleted.
type FailedTarget struct {
	Path  string `json:"path"`
	Error string `json:"error"`

	// Fatal is false for permission and I/O problems, which are warnings
	Fatal bool `json:"fatal"`
}

// RunRecord is one entry in the clean history.
type RunRecord struct {
	// ID is the unique identifier for the run (UUID)
	ID string `json:"id"`

	// CleanerID and CleanerName identify the profile that was run
	CleanerID   int    `json:"cleaner_id"`
	CleanerName string `json:"cleaner_name"`

	// Location is the search root at the time of the run
	Location string `json:"location"`

	// DryRun is true when matches were listed but nothing was deleted
	DryRun bool `json:"dry_run"`

	// Matched lists every directory the scan found
	Matched []string `json:"matched"`

	// Removed lists matched directories that are gone after the run
	Removed []string `json:"removed"`

	// Failed lists matched directories left behind
	Failed []FailedTarget `json:"failed,omitempty"`

	// Bytes is the size of the matched directories on a dry run, or of the
	// removed ones on a real run, when measured
	Bytes int64 `json:"bytes,omitempty"`

	// Canceled is true when the run stopped before every target was attempted
	Canceled bool `json:"canceled"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NothingFound reports whether the scan matched no directories.
func (r *RunRecord) NothingFound() bool {
	return len(r.Matched) == 0
}

// Duration is the wall time of the run.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}
