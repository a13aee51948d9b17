package ramendb

// PageParser parses fetched markup once so the identity guard, the link
// scan and the extractors can share the same document.
type PageParser interface {
	Parse(page *FetchedPage) (ParsedPage, error)
}

// ParsedPage is a parsed page from the target site.
type ParsedPage interface {
	// Genuine reports whether the page carries the site-wide marker element.
	// A page without it was mis-served and must be fetched again.
	Genuine() bool

	// Links returns the absolute URLs of all links on the page in document
	// order, with fragments removed.
	Links() []string

	// Extract builds the record for the given detail page type.
	// Returns an error if the page is malformed.
	Extract(t PageType) (*Record, error)
}
