package ramendb

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
)

// Business is a ramen shop as described by its detail page.
//
// Optional fields are pointers or slices left nil when the page does not
// carry them. A nil field is omitted from JSON, which keeps "absent" distinct
// from "present but zero".
type Business struct {
	BusinessID int  `json:"business_id"`
	HasMoved   bool `json:"has_moved"`
	HasRetired bool `json:"has_retired"`
	HasWithout bool `json:"has_without"`
	HasClosed  bool `json:"has_closed"`

	Name          *string `json:"name,omitzero"`
	Branch        *string `json:"branch,omitzero"`
	AlternateName *string `json:"alternate_name,omitzero"`
	Points        *Value  `json:"points,omitzero"`
	Prefecture    *string `json:"prefecture,omitzero"`
	City          *string `json:"city,omitzero"`
	Address       *string `json:"address,omitzero"`
	PhoneNumber   *string `json:"phone_number,omitzero"`

	BusinessHours  *string        `json:"business_hours,omitzero"`
	Holidays       *string        `json:"holidays,omitzero"`
	Seats          *string        `json:"seats,omitzero"`
	Smoking        *string        `json:"smoking,omitzero"`
	NearestStation *string        `json:"nearest_station,omitzero"`
	Access         *string        `json:"access,omitzero"`
	Parking        *string        `json:"parking,omitzero"`
	OpenDate       *string        `json:"open_date,omitzero"`
	Menu           []string       `json:"menu,omitzero"`
	Comments       []string       `json:"comments,omitzero"`
	Prizes         []string       `json:"prizes,omitzero"`
	Tags           []string       `json:"tags,omitzero"`
	ExternalLinks  []ExternalLink `json:"external_links,omitzero"`

	ReviewCount     *Value `json:"review_count,omitzero"`
	ReviewUserCount *Value `json:"review_user_count,omitzero"`
	AverageScore    *Value `json:"average_score,omitzero"`
	Ranking         *Value `json:"ranking,omitzero"`
	LikeCount       *Value `json:"like_count,omitzero"`
}

// ExternalLink is a link from a business page to an outside site.
// URL is nil for anchors without an href; it still encodes as "url": null.
type ExternalLink struct {
	URL  *string `json:"url"`
	Name *string `json:"name,omitzero"`
}

// Review is a single review of a business by a user.
type Review struct {
	ReviewID   int       `json:"review_id"`
	ItemName   *string   `json:"item_name,omitzero"`
	NoodleType string    `json:"noodle_type"`
	SoupType   string    `json:"soup_type"`
	Score      *Value    `json:"score,omitzero"`
	Attention  *string   `json:"attention,omitzero"`
	Text       []string  `json:"text"`
	BusinessID int       `json:"business_id"`
	UserID     int       `json:"user_id"`
	PostDate   *string   `json:"post_date,omitzero"`
	Comments   []Comment `json:"comments"`
}

// Comment is a reply posted under a review.
type Comment struct {
	Text     []string `json:"text"`
	UserID   int      `json:"user_id"`
	PostDate string   `json:"post_date"`
}

// User is a reviewer profile.
type User struct {
	UserID         int     `json:"user_id"`
	Name           *string `json:"name,omitzero"`
	Properties     *string `json:"properties,omitzero"`
	Description    *string `json:"description,omitzero"`
	AverageScore   *Value  `json:"average_score,omitzero"`
	LastReviewDate *string `json:"last_review_date,omitzero"`

	ReviewCount         *Value `json:"review_count,omitzero"`
	ReviewBusinessCount *Value `json:"review_business_count,omitzero"`
	LikeCount           *Value `json:"like_count,omitzero"`
	IineCount           *Value `json:"iine_count,omitzero"`
}

// Record is one extracted entity. Exactly one of Business, Review or User is
// set, matching Type.
type Record struct {
	Type     PageType
	URL      string
	Business *Business
	Review   *Review
	User     *User
}

// ID returns the identifier of the wrapped entity, or 0 if none is set.
func (r *Record) ID() int {
	switch {
	case r.Business != nil:
		return r.Business.BusinessID
	case r.Review != nil:
		return r.Review.ReviewID
	case r.User != nil:
		return r.User.UserID
	}
	return 0
}

// Key returns a stable key such as "business/282".
func (r *Record) Key() string {
	return string(r.Type) + "/" + strconv.Itoa(r.ID())
}

// Payload returns the wrapped entity.
func (r *Record) Payload() any {
	switch r.Type {
	case PageBusiness:
		return r.Business
	case PageReview:
		return r.Review
	case PageUser:
		return r.User
	}
	return nil
}

// MarshalJSON encodes the wrapped entity only.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

// Validate returns an error if the record is not a complete entity.
func (r *Record) Validate() error {
	var set int
	for _, ok := range []bool{r.Business != nil, r.Review != nil, r.User != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return Errorf(EINVALID, "record must wrap exactly one entity")
	}
	if isNilPayload(r) {
		return Errorf(EINVALID, "record type %q does not match its entity", r.Type)
	}
	if r.ID() <= 0 {
		return Errorf(EINVALID, "record %s has no id", r.Type)
	}
	return nil
}

func isNilPayload(r *Record) bool {
	switch r.Type {
	case PageBusiness:
		return r.Business == nil
	case PageReview:
		return r.Review == nil
	case PageUser:
		return r.User == nil
	}
	return true
}

// RecordWriter persists or publishes extracted records.
type RecordWriter interface {
	// WriteRecord stores the record. A later write with the same type and id
	// replaces an earlier one where the sink supports it.
	WriteRecord(ctx context.Context, rec *Record) error
}

// MultiWriter returns a RecordWriter that writes to every writer in order.
// All writers are attempted; their errors are joined.
func MultiWriter(writers ...RecordWriter) RecordWriter {
	return multiWriter(writers)
}

type multiWriter []RecordWriter

func (mw multiWriter) WriteRecord(ctx context.Context, rec *Record) error {
	var errs []error
	for _, w := range mw {
		if err := w.WriteRecord(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
