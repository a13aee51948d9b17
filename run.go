package ramendb

import (
	"context"
	"time"
)

// Run is one crawl invocation and its final counters.
type Run struct {
	ID         string     `json:"id"`
	Seeds      []string   `json:"seeds"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	Fetched   int    `json:"fetched"`
	Records   int    `json:"records"`
	Refetched int    `json:"refetched"`
	Ignored   int    `json:"ignored"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// Finished reports whether the run has completed.
func (r *Run) Finished() bool { return r.FinishedAt != nil }

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if len(r.Seeds) == 0 {
		return Errorf(EINVALID, "run seeds required")
	}
	return nil
}

// RunService records crawl runs.
type RunService interface {
	// CreateRun assigns an id and start time and stores the run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counters and sets the finish time.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by id.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
