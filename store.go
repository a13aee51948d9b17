package ramendb

import (
	"context"
	"encoding/json"
	"time"
)

// StoredRecord is a record as persisted by a RecordService.
type StoredRecord struct {
	Kind        PageType        `json:"kind"`
	ID          int             `json:"id"`
	RunID       string          `json:"runId"`
	URL         string          `json:"url"`
	ContentHash string          `json:"contentHash"`
	Data        json.RawMessage `json:"data"`
	CrawledAt   time.Time       `json:"crawledAt"`
}

// Record decodes the stored payload back into a Record.
func (s *StoredRecord) Record() (*Record, error) {
	return DecodeRecord(s.Kind, s.URL, s.Data)
}

// DecodeRecord builds a Record of the given kind from its JSON payload.
func DecodeRecord(kind PageType, url string, data []byte) (*Record, error) {
	rec := &Record{Type: kind, URL: url}
	var target any
	switch kind {
	case PageBusiness:
		rec.Business = &Business{}
		target = rec.Business
	case PageReview:
		rec.Review = &Review{}
		target = rec.Review
	case PageUser:
		rec.User = &User{}
		target = rec.User
	default:
		return nil, Errorf(EINVALID, "unknown record kind %q", kind)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return nil, Errorf(EINVALID, "decoding %s record: %v", kind, err)
	}
	return rec, rec.Validate()
}

// RecordService persists records and reads them back.
type RecordService interface {
	RecordWriter

	// FindRecords retrieves records matching the filter, most recently
	// crawled first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*StoredRecord, error)

	// CountRecords returns the number of stored records of a kind. An empty
	// kind counts every record.
	CountRecords(ctx context.Context, kind PageType) (int, error)
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Kind  *PageType `json:"kind"`
	ID    *int      `json:"id"`
	RunID *string   `json:"runId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordKinds lists the page types that produce records.
var RecordKinds = []PageType{PageBusiness, PageReview, PageUser}

// ParseRecordKind resolves a kind name such as "business" or its plural.
func ParseRecordKind(s string) (PageType, error) {
	for _, k := range RecordKinds {
		if s == string(k) || s == string(k)+"s" || (k == PageBusiness && s == "businesses") {
			return k, nil
		}
	}
	return PageUnknown, Errorf(EINVALID, "unknown record kind %q", s)
}
