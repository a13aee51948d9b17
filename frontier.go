package ramendb

import "context"

// LinkPriority represents crawl priority (higher = more important).
type LinkPriority int

// Link priority levels for crawl ordering. Detail pages rank above listings
// so the frontier drains records before it fans out into more pagination.
const (
	PriorityIgnore  LinkPriority = 0
	PriorityListing LinkPriority = 10
	PriorityDetail  LinkPriority = 50
	PrioritySeed    LinkPriority = 100
)

// DiscoveredLink represents a URL accepted by a dispatch rule.
type DiscoveredLink struct {
	URL      string       `json:"url"`
	Priority LinkPriority `json:"priority"`
	Rule     string       `json:"rule,omitempty"`    // name of the dispatch rule that matched
	Extract  PageType     `json:"extract,omitempty"` // page type to extract, PageUnknown for follow-only links
}

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link DiscoveredLink) bool

	// Requeue adds a link again, bypassing deduplication. Used for pages
	// that were mis-served and must be fetched again.
	// Returns false if the link has used up its re-fetch budget.
	Requeue(link DiscoveredLink) bool

	// Pop returns the next URL by priority.
	// Returns false if the frontier is empty.
	Pop() (DiscoveredLink, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
