// Package fs exports records as JSON-lines files.
package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/ramendb"
)

// Ensure Writer implements ramendb.RecordWriter at compile time.
var _ ramendb.RecordWriter = (*Writer)(nil)

// FileName returns the feed file name for a record kind, e.g. "reviews.jsonl".
func FileName(kind ramendb.PageType) string {
	switch kind {
	case ramendb.PageBusiness:
		return "businesses.jsonl"
	case ramendb.PageReview:
		return "reviews.jsonl"
	case ramendb.PageUser:
		return "users.jsonl"
	}
	return string(kind) + ".jsonl"
}

// Writer appends records to one JSON-lines file per kind. Files are written
// under dir.tmp and moved to dir on Commit, so a failed crawl never replaces
// a previous export. Writer is safe for concurrent use.
type Writer struct {
	dir string

	mu      sync.Mutex
	files   map[ramendb.PageType]*feedFile
	started bool
	closed  bool
}

type feedFile struct {
	f *os.File
	w *bufio.Writer
}

// NewWriter creates a Writer that exports into dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:   filepath.Clean(dir),
		files: make(map[ramendb.PageType]*feedFile),
	}
}

func (w *Writer) tempDir() string { return w.dir + ".tmp" }

// start clears files left in the temp dir by an earlier run that never
// committed or aborted. It runs once per Writer.
func (w *Writer) start() error {
	if w.started {
		return nil
	}
	if err := os.RemoveAll(w.tempDir()); err != nil {
		return fmt.Errorf("clearing %s: %w", w.tempDir(), err)
	}
	if err := os.MkdirAll(w.tempDir(), 0755); err != nil {
		return err
	}
	w.started = true
	return nil
}

// WriteRecord appends the record's JSON as one line of its kind's file.
func (w *Writer) WriteRecord(ctx context.Context, rec *ramendb.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rec.Key(), err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ramendb.Errorf(ramendb.EINVALID, "writer is closed")
	}
	ff, err := w.file(rec.Type)
	if err != nil {
		return err
	}
	_, err = ff.w.Write(line)
	return err
}

func (w *Writer) file(kind ramendb.PageType) (*feedFile, error) {
	if ff, ok := w.files[kind]; ok {
		return ff, nil
	}
	if err := w.start(); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(w.tempDir(), FileName(kind)))
	if err != nil {
		return nil, err
	}
	ff := &feedFile{f: f, w: bufio.NewWriter(f)}
	w.files[kind] = ff
	return ff, nil
}

func (w *Writer) closeFiles() error {
	var errs []error
	for _, ff := range w.files {
		errs = append(errs, ff.w.Flush(), ff.f.Close())
	}
	w.files = map[ramendb.PageType]*feedFile{}
	w.closed = true
	return errors.Join(errs...)
}

// Commit flushes every file and atomically replaces dir with the export.
// Calls after the first Commit or Abort do nothing.
func (w *Writer) Commit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if err := w.closeFiles(); err != nil {
		return err
	}
	if err := w.start(); err != nil {
		return err
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return err
	}
	return os.Rename(w.tempDir(), w.dir)
}

// Abort discards everything written so far.
func (w *Writer) Abort() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	closeErr := w.closeFiles()
	return errors.Join(closeErr, os.RemoveAll(w.tempDir()))
}
