package crawl

import (
	"github.com/fwojciec/ramendb"
)

// State is the terminal state of processing one fetched page.
type State int

// Processing states.
const (
	// StateExtracted means the page yielded a record.
	StateExtracted State = iota
	// StateReenqueued means the page failed the identity guard and must be
	// fetched again.
	StateReenqueued
	// StateIgnored means the page is not a detail page. Its links may still
	// be followed.
	StateIgnored
)

func (s State) String() string {
	switch s {
	case StateExtracted:
		return "extracted"
	case StateReenqueued:
		return "reenqueued"
	case StateIgnored:
		return "ignored"
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is everything processing a single page produced.
type Outcome struct {
	URL   string `json:"url"`
	State State  `json:"state"`
	// Record is set when State is StateExtracted.
	Record *ramendb.Record `json:"record,omitempty"`
	// Refetch is the URL to fetch again when State is StateReenqueued.
	// The frontier must not deduplicate it.
	Refetch string `json:"refetch,omitempty"`
	// Follow lists the links accepted by the dispatch rules, in document
	// order. It is empty for re-enqueued pages.
	Follow []ramendb.DiscoveredLink `json:"follow,omitempty"`
}

// Processor turns a fetched page into an Outcome. It holds no mutable
// state and is safe for concurrent use.
type Processor struct {
	Parser ramendb.PageParser
	Rules  ramendb.Rules
}

// NewProcessor creates a Processor using the default dispatch rules.
func NewProcessor(parser ramendb.PageParser) *Processor {
	return &Processor{Parser: parser, Rules: ramendb.DefaultRules()}
}

// Process runs the identity guard, the classifier and the matching extractor
// over the page, and scans its links against the dispatch rules.
//
// A page failing the identity guard yields only a re-fetch request. A
// malformed detail page returns an error and no outcome.
func (p *Processor) Process(page *ramendb.FetchedPage) (*Outcome, error) {
	parsed, err := p.Parser.Parse(page)
	if err != nil {
		return nil, err
	}

	if !parsed.Genuine() {
		return &Outcome{URL: page.URL, State: StateReenqueued, Refetch: page.URL}, nil
	}

	out := &Outcome{URL: page.URL, State: StateIgnored}
	if p.Rules.Follows(page.URL) {
		out.Follow = p.Rules.Dispatch(parsed.Links())
	}

	if t := ramendb.Classify(page.URL); t.IsDetail() {
		rec, err := parsed.Extract(t)
		if err != nil {
			return nil, err
		}
		out.State = StateExtracted
		out.Record = rec
	}

	return out, nil
}
