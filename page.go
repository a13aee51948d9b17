package ramendb

import (
	"regexp"
	"strconv"
)

// PageType identifies what kind of page a URL points at.
type PageType string

// Page types recognized by the classifier.
const (
	PageUnknown      PageType = ""
	PageBusiness     PageType = "business"
	PageReview       PageType = "review"
	PageUser         PageType = "user"
	PageBusinessList PageType = "business_list"
	PageReviewList   PageType = "review_list"
)

// IsDetail reports whether pages of this type yield a record.
func (t PageType) IsDetail() bool {
	switch t {
	case PageBusiness, PageReview, PageUser:
		return true
	}
	return false
}

// FetchedPage is a page as delivered by the fetch layer.
type FetchedPage struct {
	URL    string
	Markup []byte
}

// Identifier patterns shared by the classifier, the dispatch rules and the
// id extractors. Keep them here so the three cannot drift apart.
const (
	businessIDPattern = `(?:^|/)s/(\d+)`
	reviewIDPattern   = `(?:^|/)review/(\d+)\.html`
	userIDPattern     = `(?:^|/)u/(\d+)`
)

var (
	businessIDRe = regexp.MustCompile(businessIDPattern)
	reviewIDRe   = regexp.MustCompile(reviewIDPattern)
	userIDRe     = regexp.MustCompile(userIDPattern)

	// Example: https://ramendb.supleks.jp/s/282.html
	businessPageRe = regexp.MustCompile(businessIDPattern + `\.html$`)
	// Example: https://ramendb.supleks.jp/review/1057563.html
	reviewPageRe = regexp.MustCompile(reviewIDPattern + `$`)
	// Example: https://ramendb.supleks.jp/u/141495.html
	userPageRe = regexp.MustCompile(userIDPattern + `\.html$`)
	// Example: https://ramendb.supleks.jp/search?page=2
	businessListRe = regexp.MustCompile(`search\?page=\d+$`)
	// Example: https://ramendb.supleks.jp/s/100962/review?page=2
	reviewListRe = regexp.MustCompile(`review(\?page=\d+)?$`)
)

// classifierOrder is the order in which page patterns are tried.
var classifierOrder = []struct {
	re   *regexp.Regexp
	page PageType
}{
	{businessPageRe, PageBusiness},
	{reviewPageRe, PageReview},
	{userPageRe, PageUser},
	{businessListRe, PageBusinessList},
	{reviewListRe, PageReviewList},
}

// Classify returns the page type of a URL. The first matching pattern wins.
// Returns PageUnknown if no pattern matches.
func Classify(rawURL string) PageType {
	for _, c := range classifierOrder {
		if c.re.MatchString(rawURL) {
			return c.page
		}
	}
	return PageUnknown
}

// BusinessID extracts the business id from a URL such as /s/282.html or /s/282.
func BusinessID(rawURL string) (int, error) {
	return extractID(businessIDRe, rawURL, "business")
}

// ReviewID extracts the review id from a URL such as /review/1057563.html.
func ReviewID(rawURL string) (int, error) {
	return extractID(reviewIDRe, rawURL, "review")
}

// UserID extracts the user id from a URL such as /u/141495.html or /u/141495.
func UserID(rawURL string) (int, error) {
	return extractID(userIDRe, rawURL, "user")
}

func extractID(re *regexp.Regexp, rawURL, kind string) (int, error) {
	m := re.FindStringSubmatch(rawURL)
	if m == nil {
		return 0, Errorf(EINTERNAL, "no %s id in %q", kind, rawURL)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, Errorf(EINTERNAL, "invalid %s id in %q", kind, rawURL)
	}
	return id, nil
}
