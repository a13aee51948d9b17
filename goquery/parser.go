package goquery

import (
	"bytes"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ramendb"
)

var _ ramendb.PageParser = (*Parser)(nil)

// Parser parses fetched ramendb pages into goquery documents.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the page markup once for the guard, link scan and extractors.
func (p *Parser) Parse(page *ramendb.FetchedPage) (ramendb.ParsedPage, error) {
	base, err := url.Parse(page.URL)
	if err != nil || !base.IsAbs() {
		return nil, ramendb.Errorf(ramendb.EINVALID, "invalid page URL: %q", page.URL)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Markup))
	if err != nil {
		return nil, ramendb.Errorf(ramendb.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Page{url: page.URL, base: base, doc: doc}, nil
}

var _ ramendb.ParsedPage = (*Page)(nil)

// Page is a parsed ramendb page.
type Page struct {
	url  string
	base *url.URL
	doc  *goquery.Document
}

// Genuine reports whether the page passed the identity guard.
func (p *Page) Genuine() bool {
	return IsGenuine(p.doc)
}

// Links returns the absolute links on the page in document order.
func (p *Page) Links() []string {
	return collectLinks(p.doc, p.base)
}

// Extract builds the record for a detail page.
func (p *Page) Extract(t ramendb.PageType) (*ramendb.Record, error) {
	rec := &ramendb.Record{Type: t, URL: p.url}
	var err error
	switch t {
	case ramendb.PageBusiness:
		rec.Business, err = ExtractBusiness(p.doc, p.url)
	case ramendb.PageReview:
		rec.Review, err = ExtractReview(p.doc, p.url)
	case ramendb.PageUser:
		rec.User, err = ExtractUser(p.doc, p.url)
	default:
		return nil, ramendb.Errorf(ramendb.EINTERNAL, "no extractor for page type %q", t)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
