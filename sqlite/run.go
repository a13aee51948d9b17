package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/ramendb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ramendb.RunService = (*RunService)(nil)

// RunService implements ramendb.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run.
func (s *RunService) CreateRun(ctx context.Context, run *ramendb.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	seeds, err := json.Marshal(run.Seeds)
	if err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = nil

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seeds, started_at)
		VALUES (?, ?, ?)
	`, run.ID, string(seeds), formatTimestamp(run.StartedAt))

	return err
}

// FinishRun stores the run's counters and marks it finished.
func (s *RunService) FinishRun(ctx context.Context, run *ramendb.Run) error {
	finished := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, fetched = ?, records = ?, refetched = ?, ignored = ?, failed = ?, error = ?
		WHERE id = ?
	`, formatTimestamp(finished), run.Fetched, run.Records, run.Refetched, run.Ignored, run.Failed,
		run.Error, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ramendb.Errorf(ramendb.ENOTFOUND, "run not found")
	}

	run.FinishedAt = &finished
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*ramendb.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seeds, started_at, finished_at, fetched, records, refetched, ignored, failed, error
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ramendb.Errorf(ramendb.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter.
func (s *RunService) FindRuns(ctx context.Context, filter ramendb.RunFilter) ([]*ramendb.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, seeds, started_at, finished_at, fetched, records, refetched, ignored, failed, error
		FROM runs ORDER BY started_at DESC, rowid DESC`)
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*ramendb.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row scanner) (*ramendb.Run, error) {
	var run ramendb.Run
	var seeds, startedAt string
	var finishedAt sql.NullString

	if err := row.Scan(&run.ID, &seeds, &startedAt, &finishedAt, &run.Fetched, &run.Records,
		&run.Refetched, &run.Ignored, &run.Failed, &run.Error); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(seeds), &run.Seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds: %w", err)
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := parseRFC3339(finishedAt.String, "finished_at")
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	return &run, nil
}
