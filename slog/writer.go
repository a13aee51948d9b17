package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ramendb"
)

// Ensure LoggingRecordWriter implements ramendb.RecordWriter.
var _ ramendb.RecordWriter = (*LoggingRecordWriter)(nil)

// LoggingRecordWriter wraps a RecordWriter and logs every write under a sink
// name.
type LoggingRecordWriter struct {
	next   ramendb.RecordWriter
	sink   string
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next ramendb.RecordWriter, sink string, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, sink: sink, logger: logger}
}

// WriteRecord delegates to the wrapped writer and logs the write.
func (w *LoggingRecordWriter) WriteRecord(ctx context.Context, rec *ramendb.Record) (err error) {
	defer func(begin time.Time) {
		logOutcome(ctx, w.logger, "write record", begin, err,
			"sink", w.sink,
			"key", rec.Key(),
			"url", rec.URL,
		)
	}(time.Now())
	return w.next.WriteRecord(ctx, rec)
}
