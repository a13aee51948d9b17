package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/ramendb"
)

// Compile-time interface verification.
var _ ramendb.RecordService = (*RecordService)(nil)

// RecordService implements ramendb.RecordService using SQLite. Records are
// keyed by kind and id, so re-crawling an entity replaces its row.
type RecordService struct {
	db    *DB
	runID string

	// Now returns the crawl timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db, Now: time.Now}
}

// ForRun returns a copy of the service that tags written records with runID.
func (s *RecordService) ForRun(runID string) *RecordService {
	cp := *s
	cp.runID = runID
	return &cp
}

// WriteRecord upserts the record.
func (s *RecordService) WriteRecord(ctx context.Context, rec *ramendb.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rec.Key(), err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (kind, id, run_id, url, content_hash, data, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET
			run_id = excluded.run_id,
			url = excluded.url,
			content_hash = excluded.content_hash,
			data = excluded.data,
			crawled_at = excluded.crawled_at
	`, string(rec.Type), rec.ID(), s.runID, rec.URL, hashContent(data), string(data),
		formatTimestamp(s.Now()))
	if err != nil {
		return fmt.Errorf("writing %s: %w", rec.Key(), err)
	}
	return nil
}

// FindRecordByKey retrieves one record by kind and id.
// Returns ENOTFOUND if it has not been stored.
func (s *RecordService) FindRecordByKey(ctx context.Context, kind ramendb.PageType, id int) (*ramendb.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT kind, id, run_id, url, content_hash, data, crawled_at
		FROM records
		WHERE kind = ? AND id = ?
	`, string(kind), id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ramendb.Errorf(ramendb.ENOTFOUND, "%s/%d not found", kind, id)
	}
	return rec, err
}

// FindRecords retrieves records matching the filter.
func (s *RecordService) FindRecords(ctx context.Context, filter ramendb.RecordFilter) ([]*ramendb.StoredRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT kind, id, run_id, url, content_hash, data, crawled_at FROM records WHERE 1=1")

	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}

	query.WriteString(" ORDER BY crawled_at DESC, kind ASC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*ramendb.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountRecords returns the number of stored records of kind, or of every
// kind when kind is empty.
func (s *RecordService) CountRecords(ctx context.Context, kind ramendb.PageType) (int, error) {
	query := "SELECT COUNT(*) FROM records"
	var args []any
	if kind != ramendb.PageUnknown {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*ramendb.StoredRecord, error) {
	var rec ramendb.StoredRecord
	var kind, data, crawledAt string

	if err := row.Scan(&kind, &rec.ID, &rec.RunID, &rec.URL, &rec.ContentHash, &data, &crawledAt); err != nil {
		return nil, err
	}
	rec.Kind = ramendb.PageType(kind)
	rec.Data = json.RawMessage(data)

	var err error
	if rec.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
