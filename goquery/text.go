package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ownTexts returns the text nodes that are direct children of the selected
// elements, in document order.
func ownTexts(sel *goquery.Selection) []string {
	var out []string
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				out = append(out, c.Data)
			}
		}
	}
	return out
}

// nestedTexts returns the text nodes found inside descendant elements of the
// selection, in document order. Text sitting directly under a selected
// element is not included. Each text node is returned once even when
// selected elements are nested in each other.
func nestedTexts(sel *goquery.Selection) []string {
	var out []string
	seen := make(map[*html.Node]struct{})
	var walk func(n *html.Node, nested bool)
	walk = func(n *html.Node, nested bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if _, dup := seen[c]; nested && !dup {
					seen[c] = struct{}{}
					out = append(out, c.Data)
				}
			case html.ElementNode:
				walk(c, true)
			}
		}
	}
	for _, n := range sel.Nodes {
		walk(n, false)
	}
	return out
}

// firstText returns the first non-blank direct text of the selection,
// trimmed. Returns nil when there is none.
func firstText(sel *goquery.Selection) *string {
	for _, s := range ownTexts(sel) {
		if s = strings.TrimSpace(s); s != "" {
			return &s
		}
	}
	return nil
}

// joinedText concatenates the nested text of the selection. Returns nil when
// the result is blank.
func joinedText(sel *goquery.Selection) *string {
	s := strings.TrimSpace(strings.Join(nestedTexts(sel), ""))
	if s == "" {
		return nil
	}
	return &s
}

// hasSelector reports whether any element matches the selector.
func hasSelector(doc *goquery.Selection, selector string) bool {
	return doc.Find(selector).Length() > 0
}

func optional[T any](v T) *T { return &v }
