package crawl_test

import (
	"testing"

	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/crawl"
	"github.com/fwojciec/ramendb/goquery"
	"github.com/fwojciec/ramendb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userPage = `<html><body>
<div id="header-sites"></div>
<div class="profile"><h2>花子</h2></div>
<a href="/review/10.html">review</a>
<a href="/about">about</a>
<a href="/s/3.html">shop</a>
</body></html>`

const listingPage = `<html><body>
<div id="header-sites"></div>
<a href="/s/1.html">one</a>
<a href="/s/2.html">two</a>
<a href="/search?page=2">next</a>
</body></html>`

const errorPage = `<html><body><h1>Too Many Requests</h1><a href="/s/1.html">one</a></body></html>`

func TestProcessor_Process(t *testing.T) {
	t.Parallel()

	p := crawl.NewProcessor(goquery.NewParser())

	t.Run("detail page is extracted and its links followed", func(t *testing.T) {
		t.Parallel()

		out, err := p.Process(&ramendb.FetchedPage{URL: "https://ramendb.supleks.jp/u/5.html", Markup: []byte(userPage)})
		require.NoError(t, err)

		assert.Equal(t, crawl.StateExtracted, out.State)
		require.NotNil(t, out.Record)
		assert.Equal(t, "user/5", out.Record.Key())
		assert.Empty(t, out.Refetch)
		assert.Equal(t, []ramendb.DiscoveredLink{
			{URL: "https://ramendb.supleks.jp/review/10.html", Priority: ramendb.PriorityDetail, Rule: "review", Extract: ramendb.PageReview},
			{URL: "https://ramendb.supleks.jp/s/3.html", Priority: ramendb.PriorityDetail, Rule: "business", Extract: ramendb.PageBusiness},
		}, out.Follow)
	})

	t.Run("listing page is ignored but followed", func(t *testing.T) {
		t.Parallel()

		out, err := p.Process(&ramendb.FetchedPage{URL: "https://ramendb.supleks.jp/search?page=1", Markup: []byte(listingPage)})
		require.NoError(t, err)

		assert.Equal(t, crawl.StateIgnored, out.State)
		assert.Nil(t, out.Record)
		require.Len(t, out.Follow, 3)
		assert.Equal(t, "https://ramendb.supleks.jp/search?page=2", out.Follow[2].URL)
		assert.Equal(t, ramendb.PriorityListing, out.Follow[2].Priority)
	})

	t.Run("mis-served page yields only a re-fetch", func(t *testing.T) {
		t.Parallel()

		for _, u := range []string{
			"https://ramendb.supleks.jp/s/1.html",
			"https://ramendb.supleks.jp/review/1.html",
			"https://ramendb.supleks.jp/u/1.html",
			"https://ramendb.supleks.jp/search?page=1",
		} {
			out, err := p.Process(&ramendb.FetchedPage{URL: u, Markup: []byte(errorPage)})
			require.NoError(t, err, u)

			assert.Equal(t, crawl.StateReenqueued, out.State, u)
			assert.Equal(t, u, out.Refetch)
			assert.Nil(t, out.Record, u)
			assert.Empty(t, out.Follow, u)
		}
	})

	t.Run("malformed detail page is an error", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><div id="header-sites"></div><span class="style">[太麺]</span></body></html>`
		out, err := p.Process(&ramendb.FetchedPage{URL: "https://ramendb.supleks.jp/review/1.html", Markup: []byte(markup)})

		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, ramendb.EINVALID, ramendb.ErrorCode(err))
	})
}

func TestProcessor_GuardRunsBeforeExtraction(t *testing.T) {
	t.Parallel()

	var extracted, scanned bool
	p := &crawl.Processor{
		Rules: ramendb.DefaultRules(),
		Parser: &mock.PageParser{
			ParseFn: func(*ramendb.FetchedPage) (ramendb.ParsedPage, error) {
				return &mock.ParsedPage{
					GenuineFn: func() bool { return false },
					LinksFn: func() []string {
						scanned = true
						return nil
					},
					ExtractFn: func(ramendb.PageType) (*ramendb.Record, error) {
						extracted = true
						return nil, nil
					},
				}, nil
			},
		},
	}

	out, err := p.Process(&ramendb.FetchedPage{URL: "https://ramendb.supleks.jp/s/1.html"})

	require.NoError(t, err)
	assert.Equal(t, crawl.StateReenqueued, out.State)
	assert.False(t, extracted)
	assert.False(t, scanned)
}

func TestProcessor_NoFollowRule(t *testing.T) {
	t.Parallel()

	rules := ramendb.Rules{{Name: "leaf", Pattern: regexpMust(`/u/\d+\.html$`), Extract: ramendb.PageUser}}
	p := &crawl.Processor{Parser: goquery.NewParser(), Rules: rules}

	out, err := p.Process(&ramendb.FetchedPage{URL: "https://ramendb.supleks.jp/u/5.html", Markup: []byte(userPage)})

	require.NoError(t, err)
	assert.Equal(t, crawl.StateExtracted, out.State)
	assert.Empty(t, out.Follow)
}

func TestProcessor_ParseError(t *testing.T) {
	t.Parallel()

	p := crawl.NewProcessor(goquery.NewParser())
	_, err := p.Process(&ramendb.FetchedPage{URL: "not a url"})
	assert.Equal(t, ramendb.EINVALID, ramendb.ErrorCode(err))
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "extracted", crawl.StateExtracted.String())
	assert.Equal(t, "reenqueued", crawl.StateReenqueued.String())
	assert.Equal(t, "ignored", crawl.StateIgnored.String())
}
