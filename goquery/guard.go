package goquery

import "github.com/PuerkitoBio/goquery"

// guardSelector matches the site switcher rendered in the header of every
// genuine page. Error pages and interstitials lack it.
const guardSelector = "div#header-sites"

// IsGenuine reports whether the document carries the site-wide marker.
func IsGenuine(doc *goquery.Document) bool {
	return hasSelector(doc.Selection, guardSelector)
}
