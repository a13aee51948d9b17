package fs_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func review(id int) *ramendb.Record {
	return &ramendb.Record{
		Type: ramendb.PageReview,
		Review: &ramendb.Review{
			ReviewID:   id,
			NoodleType: "つけ麺",
			SoupType:   "魚介豚骨",
			Text:       []string{},
			BusinessID: 282,
			UserID:     3,
			Comments:   []ramendb.Comment{},
		},
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "businesses.jsonl", fs.FileName(ramendb.PageBusiness))
	assert.Equal(t, "reviews.jsonl", fs.FileName(ramendb.PageReview))
	assert.Equal(t, "users.jsonl", fs.FileName(ramendb.PageUser))
}

func TestWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one line per record into per-kind files", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		w := fs.NewWriter(out)
		ctx := context.Background()

		require.NoError(t, w.WriteRecord(ctx, review(1)))
		require.NoError(t, w.WriteRecord(ctx, &ramendb.Record{
			Type: ramendb.PageUser,
			User: &ramendb.User{UserID: 3},
		}))
		require.NoError(t, w.WriteRecord(ctx, review(2)))
		require.NoError(t, w.Commit())

		lines := readLines(t, filepath.Join(out, "reviews.jsonl"))
		require.Len(t, lines, 2)
		assert.JSONEq(t, `{"review_id":1,"noodle_type":"つけ麺","soup_type":"魚介豚骨","text":[],"business_id":282,"user_id":3,"comments":[]}`, lines[0])

		var second map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
		assert.InDelta(t, 2, second["review_id"], 0)

		assert.Equal(t, []string{`{"user_id":3}`}, readLines(t, filepath.Join(out, "users.jsonl")))
		assert.NoFileExists(t, filepath.Join(out, "businesses.jsonl"))
		assert.NoDirExists(t, out+".tmp")
	})

	t.Run("nothing is visible before commit", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		w := fs.NewWriter(out)

		require.NoError(t, w.WriteRecord(context.Background(), review(1)))
		assert.NoDirExists(t, out)
		require.NoError(t, w.Commit())
		assert.DirExists(t, out)
	})

	t.Run("commit replaces a previous export", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		require.NoError(t, os.MkdirAll(out, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(out, "stale.jsonl"), []byte("{}\n"), 0644))

		w := fs.NewWriter(out)
		require.NoError(t, w.WriteRecord(context.Background(), review(1)))
		require.NoError(t, w.Commit())

		assert.NoFileExists(t, filepath.Join(out, "stale.jsonl"))
		assert.FileExists(t, filepath.Join(out, "reviews.jsonl"))
	})

	t.Run("abort keeps the previous export", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		require.NoError(t, os.MkdirAll(out, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(out, "reviews.jsonl"), []byte("old\n"), 0644))

		w := fs.NewWriter(out)
		require.NoError(t, w.WriteRecord(context.Background(), review(1)))
		require.NoError(t, w.Abort())

		assert.Equal(t, []string{"old"}, readLines(t, filepath.Join(out, "reviews.jsonl")))
		assert.NoDirExists(t, out+".tmp")
	})

	t.Run("files left by an unfinished run are not published", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		require.NoError(t, os.MkdirAll(out+".tmp", 0755))
		require.NoError(t, os.WriteFile(filepath.Join(out+".tmp", "reviews.jsonl"), []byte(`{"review_id":666}`+"\n"), 0644))

		w := fs.NewWriter(out)
		require.NoError(t, w.WriteRecord(context.Background(), &ramendb.Record{
			Type:     ramendb.PageBusiness,
			Business: &ramendb.Business{BusinessID: 282},
		}))
		require.NoError(t, w.Commit())

		assert.FileExists(t, filepath.Join(out, "businesses.jsonl"))
		assert.NoFileExists(t, filepath.Join(out, "reviews.jsonl"))
	})

	t.Run("empty commit does not publish leftover files", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		require.NoError(t, os.MkdirAll(out+".tmp", 0755))
		require.NoError(t, os.WriteFile(filepath.Join(out+".tmp", "users.jsonl"), []byte(`{"user_id":1}`+"\n"), 0644))

		require.NoError(t, fs.NewWriter(out).Commit())

		assert.DirExists(t, out)
		assert.NoFileExists(t, filepath.Join(out, "users.jsonl"))
	})

	t.Run("rejects writes after commit", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(filepath.Join(t.TempDir(), "export"))
		require.NoError(t, w.Commit())

		err := w.WriteRecord(context.Background(), review(1))
		assert.Equal(t, ramendb.EINVALID, ramendb.ErrorCode(err))
		assert.NoError(t, w.Commit())
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(filepath.Join(t.TempDir(), "export"))
		defer w.Abort()

		err := w.WriteRecord(context.Background(), &ramendb.Record{Type: ramendb.PageReview})
		assert.Equal(t, ramendb.EINVALID, ramendb.ErrorCode(err))
	})

	t.Run("concurrent writes produce whole lines", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "export")
		w := fs.NewWriter(out)

		var wg sync.WaitGroup
		for i := 1; i <= 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, w.WriteRecord(context.Background(), review(i)))
			}()
		}
		wg.Wait()
		require.NoError(t, w.Commit())

		lines := readLines(t, filepath.Join(out, "reviews.jsonl"))
		require.Len(t, lines, 50)
		for _, l := range lines {
			assert.True(t, json.Valid([]byte(l)), l)
		}
	})
}
