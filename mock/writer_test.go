package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWriter_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteRecordFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *ramendb.Record
		w := &mock.RecordWriter{
			WriteRecordFn: func(_ context.Context, rec *ramendb.Record) error {
				calledWith = rec
				return nil
			},
		}

		rec := &ramendb.Record{Type: ramendb.PageUser, User: &ramendb.User{UserID: 1}}
		err := w.WriteRecord(context.Background(), rec)

		require.NoError(t, err)
		assert.Same(t, rec, calledWith)
	})

	t.Run("returns error from WriteRecordFn", func(t *testing.T) {
		t.Parallel()

		w := &mock.RecordWriter{
			WriteRecordFn: func(context.Context, *ramendb.Record) error {
				return ramendb.Errorf(ramendb.EINTERNAL, "disk full")
			},
		}

		err := w.WriteRecord(context.Background(), &ramendb.Record{})

		require.Error(t, err)
		assert.Equal(t, "disk full", ramendb.ErrorMessage(err))
	})
}
