package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ramendb"
)

// ExtractBusiness builds a Business from a shop detail page.
// Returns an EINTERNAL error if pageURL carries no business id.
func ExtractBusiness(doc *goquery.Document, pageURL string) (*ramendb.Business, error) {
	id, err := ramendb.BusinessID(pageURL)
	if err != nil {
		return nil, err
	}

	b := &ramendb.Business{
		BusinessID: id,
		HasMoved:   hasSelector(doc.Selection, ".moved"),
		HasRetired: hasSelector(doc.Selection, ".retire"),
		HasWithout: hasSelector(doc.Selection, ".without"),
		HasClosed:  hasSelector(doc.Selection, ".closed"),

		Name:          firstText(doc.Find(".shopname")),
		Branch:        firstText(doc.Find(".branch")),
		AlternateName: firstText(doc.Find("span[itemprop=alternateName]")),
	}
	if points := joinedText(doc.Find("span[itemprop=ratingValue]")); points != nil {
		b.Points = optional(ramendb.FloatOrPassthrough(*points))
	}

	b.Prefecture = firstText(doc.Find(".area > a[href*=state]"))
	b.City = firstText(doc.Find(".area > a[href*=city]"))
	b.Address = joinedText(doc.Find("span[itemprop=address]"))
	b.PhoneNumber = firstText(doc.Find("td[itemprop=telephone]"))

	doc.Find(".datas tr").Each(func(_ int, tr *goquery.Selection) {
		label := firstText(tr.Find("th"))
		if label == nil {
			return
		}
		f, ok := basicInfoTable[*label]
		if !ok {
			return
		}
		f.set(b, readBasicInfo(tr, f.strategy))
	})

	doc.Find("table.key-value tr").Each(func(_ int, tr *goquery.Selection) {
		label := firstText(tr.Find("th"))
		if label == nil {
			return
		}
		f, ok := metadataTable[*label]
		if !ok {
			return
		}
		if v := readMetadata(tr, f); v != nil {
			f.set(b, v)
		}
	})

	return b, nil
}
