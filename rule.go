package ramendb

import (
	"regexp"
	"strings"
)

// DispatchRule decides what happens to a link that matches Pattern.
type DispatchRule struct {
	Name    string
	Pattern *regexp.Regexp
	// Follow reports whether links found on a matched page are scanned.
	Follow bool
	// Extract is the page type to extract, or PageUnknown for none.
	Extract PageType
}

// Priority returns the crawl priority of links matched by the rule.
func (r DispatchRule) Priority() LinkPriority {
	if r.Extract != PageUnknown {
		return PriorityDetail
	}
	return PriorityListing
}

// Rules is an ordered dispatch table. The first matching rule wins.
type Rules []DispatchRule

// DefaultRules returns the dispatch table for ramendb.supleks.jp.
func DefaultRules() Rules {
	return Rules{
		{Name: "business_list", Pattern: businessListRe, Follow: true},
		{Name: "business", Pattern: businessPageRe, Follow: true, Extract: PageBusiness},
		{Name: "review_list", Pattern: reviewListRe, Follow: true},
		{Name: "review", Pattern: reviewPageRe, Follow: true, Extract: PageReview},
		{Name: "user", Pattern: userPageRe, Follow: true, Extract: PageUser},
	}
}

// Match returns the first rule matching the URL.
func (rs Rules) Match(rawURL string) (DispatchRule, bool) {
	for _, r := range rs {
		if r.Pattern.MatchString(rawURL) {
			return r, true
		}
	}
	return DispatchRule{}, false
}

// Follows reports whether the links of the page at rawURL should be scanned.
// Pages no rule matches, such as seeds, are scanned.
func (rs Rules) Follows(rawURL string) bool {
	r, ok := rs.Match(rawURL)
	return !ok || r.Follow
}

// Dispatch matches links against the table and returns one DiscoveredLink
// per accepted URL in document order. Unmatched links and repeats are dropped.
func (rs Rules) Dispatch(links []string) []DiscoveredLink {
	var out []DiscoveredLink
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		r, ok := rs.Match(link)
		if !ok {
			continue
		}
		out = append(out, DiscoveredLink{
			URL:      link,
			Priority: r.Priority(),
			Rule:     r.Name,
			Extract:  r.Extract,
		})
	}
	return out
}

// URLFilter returns a filter accepting only URLs matched by a rule.
func (rs Rules) URLFilter() *URLFilter {
	f := &URLFilter{Include: make([]*regexp.Regexp, 0, len(rs))}
	for _, r := range rs {
		f.Include = append(f.Include, r.Pattern)
	}
	return f
}

// String lists the rule names in order.
func (rs Rules) String() string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return strings.Join(names, ",")
}
