package mock

import "github.com/fwojciec/ramendb"

var _ ramendb.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of ramendb.PageParser.
type PageParser struct {
	ParseFn func(page *ramendb.FetchedPage) (ramendb.ParsedPage, error)
}

func (p *PageParser) Parse(page *ramendb.FetchedPage) (ramendb.ParsedPage, error) {
	return p.ParseFn(page)
}

var _ ramendb.ParsedPage = (*ParsedPage)(nil)

// ParsedPage is a mock implementation of ramendb.ParsedPage.
type ParsedPage struct {
	GenuineFn func() bool
	LinksFn   func() []string
	ExtractFn func(t ramendb.PageType) (*ramendb.Record, error)
}

func (p *ParsedPage) Genuine() bool {
	return p.GenuineFn()
}

func (p *ParsedPage) Links() []string {
	return p.LinksFn()
}

func (p *ParsedPage) Extract(t ramendb.PageType) (*ramendb.Record, error) {
	return p.ExtractFn(t)
}
