package goquery_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/ramendb"
	rgoquery "github.com/fwojciec/ramendb/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePage(t *testing.T, url, markup string) ramendb.ParsedPage {
	t.Helper()
	page, err := rgoquery.NewParser().Parse(&ramendb.FetchedPage{URL: url, Markup: []byte(markup)})
	require.NoError(t, err)
	return page
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("rejects relative page URL", func(t *testing.T) {
		t.Parallel()

		_, err := rgoquery.NewParser().Parse(&ramendb.FetchedPage{URL: "/s/1.html"})
		require.Error(t, err)
		assert.Equal(t, ramendb.EINVALID, ramendb.ErrorCode(err))
	})

	t.Run("accepts empty markup", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ramendb.supleks.jp/", "")
		assert.False(t, page.Genuine())
		assert.Empty(t, page.Links())
	})
}

func TestPage_Genuine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   bool
	}{
		{name: "site header present", markup: `<div id="header-sites"></div>`, want: true},
		{name: "error page", markup: `<html><body><h1>503 Service Unavailable</h1></body></html>`, want: false},
		{name: "id on another element", markup: `<span id="header-sites"></span>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parsePage(t, businessURL, tt.markup).Genuine())
		})
	}
}

func TestPage_Links(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
<a href="/s/1.html">shop</a>
<a href="review/2.html#comment">review</a>
<a href="https://ramendb.supleks.jp/s/1.html">shop again</a>
<a href="#top">top</a>
<a href="mailto:info@example.com">mail</a>
<a href="javascript:void(0)">js</a>
<a href="ftp://example.com/file">ftp</a>
<a href="https://twitter.com/ramendb">twitter</a>
<a>no href</a>
<a href="?page=2">next</a>
</body></html>`

	got := parsePage(t, "https://ramendb.supleks.jp/search?page=1", markup).Links()

	assert.Equal(t, []string{
		"https://ramendb.supleks.jp/s/1.html",
		"https://ramendb.supleks.jp/review/2.html",
		"https://twitter.com/ramendb",
		"https://ramendb.supleks.jp/search?page=2",
	}, got)
}

func TestPage_Extract(t *testing.T) {
	t.Parallel()

	t.Run("business", func(t *testing.T) {
		t.Parallel()

		rec, err := parsePage(t, businessURL, businessHTML).Extract(ramendb.PageBusiness)
		require.NoError(t, err)
		require.NoError(t, rec.Validate())
		assert.Equal(t, ramendb.PageBusiness, rec.Type)
		assert.Equal(t, businessURL, rec.URL)
		assert.Equal(t, "business/282", rec.Key())
	})

	t.Run("review", func(t *testing.T) {
		t.Parallel()

		rec, err := parsePage(t, reviewURL, reviewHTML).Extract(ramendb.PageReview)
		require.NoError(t, err)
		require.NoError(t, rec.Validate())
		assert.Equal(t, 1057563, rec.ID())
	})

	t.Run("user", func(t *testing.T) {
		t.Parallel()

		rec, err := parsePage(t, userURL, userHTML).Extract(ramendb.PageUser)
		require.NoError(t, err)
		require.NoError(t, rec.Validate())
		assert.Equal(t, 141495, rec.ID())
	})

	t.Run("listing has no extractor", func(t *testing.T) {
		t.Parallel()

		_, err := parsePage(t, "https://ramendb.supleks.jp/search?page=1", "").Extract(ramendb.PageBusinessList)
		assert.Equal(t, ramendb.EINTERNAL, ramendb.ErrorCode(err))
	})
}

func TestPage_Extract_Idempotent(t *testing.T) {
	t.Parallel()

	pages := []struct {
		url    string
		markup string
		typ    ramendb.PageType
	}{
		{businessURL, businessHTML, ramendb.PageBusiness},
		{reviewURL, reviewHTML, ramendb.PageReview},
		{userURL, userHTML, ramendb.PageUser},
	}

	for _, p := range pages {
		t.Run(string(p.typ), func(t *testing.T) {
			t.Parallel()

			first, err := parsePage(t, p.url, p.markup).Extract(p.typ)
			require.NoError(t, err)
			second, err := parsePage(t, p.url, p.markup).Extract(p.typ)
			require.NoError(t, err)

			a, err := json.Marshal(first)
			require.NoError(t, err)
			b, err := json.Marshal(second)
			require.NoError(t, err)
			assert.Equal(t, string(a), string(b))
		})
	}
}
