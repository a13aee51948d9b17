package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ramendb"
)

// ExtractReview builds a Review from a review detail page.
//
// The noodle and soup types come from a style label such as "[太麺/醤油]".
// A missing or malformed label, or a missing business or user link, is an
// EINVALID error.
func ExtractReview(doc *goquery.Document, pageURL string) (*ramendb.Review, error) {
	id, err := ramendb.ReviewID(pageURL)
	if err != nil {
		return nil, err
	}

	noodle, soup, err := splitStyle(firstText(doc.Find(".style")))
	if err != nil {
		return nil, err
	}

	r := &ramendb.Review{
		ReviewID:   id,
		ItemName:   firstText(doc.Find("span[itemprop=itemReviewed]")),
		NoodleType: noodle,
		SoupType:   soup,
		Attention:  firstText(doc.Find(".attention")),
		Text:       ramendb.TrimNonEmpty(ownTexts(doc.Find("span[itemprop=description]"))),
	}
	if score := firstText(doc.Find(".score")); score != nil {
		r.Score = optional(ramendb.IntOrPassthrough(*score))
	}

	if r.BusinessID, err = linkID(doc.Find(".props > span > a"), ramendb.BusinessID, "business"); err != nil {
		return nil, err
	}
	if r.UserID, err = linkID(doc.Find(".props > a"), ramendb.UserID, "user"); err != nil {
		return nil, err
	}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		r.PostDate = &dt
	}

	r.Comments = []ramendb.Comment{}
	var commentErr error
	doc.Find("#comment .one").EachWithBreak(func(_ int, one *goquery.Selection) bool {
		var c ramendb.Comment
		c, commentErr = extractComment(one)
		if commentErr != nil {
			return false
		}
		r.Comments = append(r.Comments, c)
		return true
	})
	if commentErr != nil {
		return nil, commentErr
	}

	return r, nil
}

func extractComment(one *goquery.Selection) (ramendb.Comment, error) {
	userID, err := linkID(one.Find(".foot > span > a"), ramendb.UserID, "comment user")
	if err != nil {
		return ramendb.Comment{}, err
	}
	date := firstText(one.Find(".foot > span"))
	if date == nil {
		return ramendb.Comment{}, ramendb.Errorf(ramendb.EINVALID, "comment by user %d has no post date", userID)
	}
	return ramendb.Comment{
		Text:     ramendb.TrimNonEmpty(ownTexts(one.Find("p"))),
		UserID:   userID,
		PostDate: strings.TrimSpace(strings.Trim(*date, "|")),
	}, nil
}

// splitStyle splits "[noodle/soup]" into its two parts.
func splitStyle(label *string) (noodle, soup string, err error) {
	if label == nil {
		return "", "", ramendb.Errorf(ramendb.EINVALID, "review has no style label")
	}
	s := strings.TrimRight(strings.TrimLeft(*label, "["), "]")
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return "", "", ramendb.Errorf(ramendb.EINVALID, "malformed style label: %q", *label)
	}
	return parts[0], parts[1], nil
}

// linkID reads the id from the href of the first element in sel.
func linkID(sel *goquery.Selection, id func(string) (int, error), what string) (int, error) {
	href, ok := sel.First().Attr("href")
	if !ok {
		return 0, ramendb.Errorf(ramendb.EINVALID, "%s link not found", what)
	}
	n, err := id(href)
	if err != nil {
		return 0, ramendb.Errorf(ramendb.EINVALID, "%s link: %s", what, ramendb.ErrorMessage(err))
	}
	return n, nil
}
