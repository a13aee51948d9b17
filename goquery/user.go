package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ramendb"
)

// ExtractUser builds a User from a profile page.
//
// The summary pair (average score, last review date) is set only when the
// summary table has exactly two cells, and the four counts only when the
// counts row has exactly four cells.
func ExtractUser(doc *goquery.Document, pageURL string) (*ramendb.User, error) {
	id, err := ramendb.UserID(pageURL)
	if err != nil {
		return nil, err
	}

	u := &ramendb.User{
		UserID:      id,
		Name:        firstText(doc.Find(".profile > h2")),
		Properties:  firstText(doc.Find(".profile > div.props")),
		Description: firstText(doc.Find(".profile > p.comment")),
	}

	if summary := cellTexts(doc.Find(".spct table.key-value td"), ownTexts); len(summary) == 2 {
		u.AverageScore = optional(ramendb.FloatOrPassthrough(strings.TrimRight(summary[0], "点")))
		u.LastReviewDate = optional(summary[1])
	}

	if counts := cellTexts(doc.Find(".spct table.counts tr.value td"), allTexts); len(counts) == 4 {
		for i, dst := range []**ramendb.Value{&u.ReviewCount, &u.ReviewBusinessCount, &u.LikeCount, &u.IineCount} {
			*dst = optional(ramendb.IntOrPassthrough(strings.ReplaceAll(counts[i], ",", "")))
		}
	}

	return u, nil
}

// cellTexts returns one trimmed string per cell, built from texts.
func cellTexts(cells *goquery.Selection, texts func(*goquery.Selection) []string) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, td *goquery.Selection) {
		out = append(out, strings.TrimSpace(strings.Join(texts(td), "")))
	})
	return out
}

func allTexts(sel *goquery.Selection) []string {
	return []string{sel.Text()}
}
