package mock

import (
	"context"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of ramendb.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, rec *ramendb.Record) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, rec *ramendb.Record) error {
	return w.WriteRecordFn(ctx, rec)
}
