package goquery_test

import (
	"testing"

	"github.com/fwojciec/ramendb"
	rgoquery "github.com/fwojciec/ramendb/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userURL = "https://ramendb.supleks.jp/u/141495.html"

const userHTML = `<!DOCTYPE html>
<html>
<body>
<div id="header-sites"></div>
<div class="profile">
	<h2>らーめん太郎</h2>
	<div class="props">東京都 / 男性</div>
	<p class="comment">毎日ラーメン。</p>
</div>
<div class="spct">
	<table class="key-value">
		<tr><th>平均点</th><td>4.2点</td></tr>
		<tr><th>最新レビュー</th><td> 2023-01-15 </td></tr>
	</table>
	<table class="counts">
		<tr class="label"><th>レビュー</th><th>店舗</th><th>スキ</th><th>いいね</th></tr>
		<tr class="value"><td><span>1,234</span></td><td><span>567</span></td><td><span>89</span></td><td><span>10,000</span></td></tr>
	</table>
</div>
</body>
</html>`

func TestExtractUser(t *testing.T) {
	t.Parallel()

	u, err := rgoquery.ExtractUser(parseDoc(t, userHTML), userURL)
	require.NoError(t, err)

	assert.Equal(t, 141495, u.UserID)
	assert.Equal(t, ptr("らーめん太郎"), u.Name)
	assert.Equal(t, ptr("東京都 / 男性"), u.Properties)
	assert.Equal(t, ptr("毎日ラーメン。"), u.Description)
	assert.Equal(t, ptr(ramendb.FloatValue(4.2)), u.AverageScore)
	assert.Equal(t, ptr("2023-01-15"), u.LastReviewDate)
	assert.Equal(t, ptr(ramendb.IntValue(1234)), u.ReviewCount)
	assert.Equal(t, ptr(ramendb.IntValue(567)), u.ReviewBusinessCount)
	assert.Equal(t, ptr(ramendb.IntValue(89)), u.LikeCount)
	assert.Equal(t, ptr(ramendb.IntValue(10000)), u.IineCount)
}

func TestExtractUser_CellCounts(t *testing.T) {
	t.Parallel()

	t.Run("one summary cell yields neither summary field", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><div class="spct"><table class="key-value"><tr><td>4.2点</td></tr></table></div></body></html>`
		u, err := rgoquery.ExtractUser(parseDoc(t, markup), userURL)
		require.NoError(t, err)

		assert.Nil(t, u.AverageScore)
		assert.Nil(t, u.LastReviewDate)
	})

	t.Run("three count cells yield no counts", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><div class="spct"><table class="counts"><tr class="value"><td>1</td><td>2</td><td>3</td></tr></table></div></body></html>`
		u, err := rgoquery.ExtractUser(parseDoc(t, markup), userURL)
		require.NoError(t, err)

		assert.Nil(t, u.ReviewCount)
		assert.Nil(t, u.ReviewBusinessCount)
		assert.Nil(t, u.LikeCount)
		assert.Nil(t, u.IineCount)
	})

	t.Run("tables outside the stats block are ignored", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><table class="key-value"><tr><td>4.2点</td><td>2023-01-15</td></tr></table></body></html>`
		u, err := rgoquery.ExtractUser(parseDoc(t, markup), userURL)
		require.NoError(t, err)

		assert.Nil(t, u.AverageScore)
	})

	t.Run("non-numeric values pass through", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><div class="spct"><table class="key-value"><tr><td>-</td><td>-</td></tr></table></div></body></html>`
		u, err := rgoquery.ExtractUser(parseDoc(t, markup), userURL)
		require.NoError(t, err)

		assert.Equal(t, ptr(ramendb.TextValue("-")), u.AverageScore)
		assert.Equal(t, ptr("-"), u.LastReviewDate)
	})
}

func TestExtractUser_WrongURL(t *testing.T) {
	t.Parallel()

	_, err := rgoquery.ExtractUser(parseDoc(t, userHTML), "https://ramendb.supleks.jp/review/1.html")
	assert.Equal(t, ramendb.EINTERNAL, ramendb.ErrorCode(err))
}
