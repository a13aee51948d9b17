package mock

import (
	"context"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of ramendb.RecordService.
type RecordService struct {
	WriteRecordFn  func(ctx context.Context, rec *ramendb.Record) error
	FindRecordsFn  func(ctx context.Context, filter ramendb.RecordFilter) ([]*ramendb.StoredRecord, error)
	CountRecordsFn func(ctx context.Context, kind ramendb.PageType) (int, error)
}

func (s *RecordService) WriteRecord(ctx context.Context, rec *ramendb.Record) error {
	return s.WriteRecordFn(ctx, rec)
}

func (s *RecordService) FindRecords(ctx context.Context, filter ramendb.RecordFilter) ([]*ramendb.StoredRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) CountRecords(ctx context.Context, kind ramendb.PageType) (int, error) {
	return s.CountRecordsFn(ctx, kind)
}
