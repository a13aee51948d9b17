package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ramendb"
)

// Strategy names how the value of a basic-info row is read.
type Strategy int

// Basic-info extraction strategies.
const (
	// StrategyFirstText takes the first text of the value cell.
	StrategyFirstText Strategy = iota
	// StrategyAllText concatenates all nested text of the cell.
	StrategyAllText
	// StrategyParagraphs takes the trimmed paragraph lines minus the
	// trailing "more" toggle.
	StrategyParagraphs
	// StrategyTagSet collects tag link texts without repeats.
	StrategyTagSet
	// StrategyLinkList collects {url, name} per link.
	StrategyLinkList
	// StrategyAwardList collects the text of each award.
	StrategyAwardList
)

func (s Strategy) String() string {
	switch s {
	case StrategyFirstText:
		return "first_text"
	case StrategyAllText:
		return "all_text"
	case StrategyParagraphs:
		return "paragraphs"
	case StrategyTagSet:
		return "tag_set"
	case StrategyLinkList:
		return "link_list"
	case StrategyAwardList:
		return "award_list"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// basicInfoLabels maps the row labels of the shop's basic info table to
// canonical field names.
var basicInfoLabels = map[string]string{
	"営業時間":  "business_hours",
	"定休日":   "holidays",
	"席数":    "seats",
	"喫煙":    "smoking",
	"最寄り駅":  "nearest_station",
	"アクセス":  "access",
	"駐車場":   "parking",
	"開店日":   "open_date",
	"メニュー":  "menu",
	"備考":    "comments",
	"受賞歴":   "prizes",
	"タグ":    "tags",
	"外部リンク": "external_links",
}

// basicInfoStrategies lists fields not read with StrategyFirstText.
var basicInfoStrategies = map[string]Strategy{
	"nearest_station": StrategyAllText,
	"menu":            StrategyParagraphs,
	"comments":        StrategyParagraphs,
	"tags":            StrategyTagSet,
	"external_links":  StrategyLinkList,
	"prizes":          StrategyAwardList,
}

// fieldValue carries the result of one strategy.
type fieldValue struct {
	text  *string
	list  []string
	links []ramendb.ExternalLink
}

var basicInfoSetters = map[string]func(b *ramendb.Business, v fieldValue){
	"business_hours":  func(b *ramendb.Business, v fieldValue) { b.BusinessHours = v.text },
	"holidays":        func(b *ramendb.Business, v fieldValue) { b.Holidays = v.text },
	"seats":           func(b *ramendb.Business, v fieldValue) { b.Seats = v.text },
	"smoking":         func(b *ramendb.Business, v fieldValue) { b.Smoking = v.text },
	"nearest_station": func(b *ramendb.Business, v fieldValue) { b.NearestStation = v.text },
	"access":          func(b *ramendb.Business, v fieldValue) { b.Access = v.text },
	"parking":         func(b *ramendb.Business, v fieldValue) { b.Parking = v.text },
	"open_date":       func(b *ramendb.Business, v fieldValue) { b.OpenDate = v.text },
	"menu":            func(b *ramendb.Business, v fieldValue) { b.Menu = v.list },
	"comments":        func(b *ramendb.Business, v fieldValue) { b.Comments = v.list },
	"prizes":          func(b *ramendb.Business, v fieldValue) { b.Prizes = v.list },
	"tags":            func(b *ramendb.Business, v fieldValue) { b.Tags = v.list },
	"external_links":  func(b *ramendb.Business, v fieldValue) { b.ExternalLinks = v.links },
}

type basicInfoField struct {
	name     string
	strategy Strategy
	set      func(b *ramendb.Business, v fieldValue)
}

// basicInfoTable is the resolved label → field table.
var basicInfoTable = func() map[string]basicInfoField {
	table := make(map[string]basicInfoField, len(basicInfoLabels))
	for label, name := range basicInfoLabels {
		set, ok := basicInfoSetters[name]
		if !ok {
			panic("goquery: no setter for basic info field " + name)
		}
		table[label] = basicInfoField{name: name, strategy: basicInfoStrategies[name], set: set}
	}
	return table
}()

// BasicInfoField returns the canonical field and strategy for a basic-info
// label. The bool is false for labels that are not mapped.
func BasicInfoField(label string) (string, Strategy, bool) {
	f, ok := basicInfoTable[label]
	return f.name, f.strategy, ok
}

// readBasicInfo applies a strategy to a table row.
func readBasicInfo(tr *goquery.Selection, s Strategy) fieldValue {
	switch s {
	case StrategyAllText:
		return fieldValue{text: joinedText(tr.Find("td div"))}
	case StrategyParagraphs:
		lines := ramendb.TrimNonEmpty(nestedTexts(tr.Find("p.more")))
		if len(lines) > 0 {
			lines = lines[:len(lines)-1]
		}
		return fieldValue{list: lines}
	case StrategyTagSet:
		tags := []string{}
		seen := make(map[string]struct{})
		for _, t := range ramendb.TrimNonEmpty(ownTexts(tr.Find("a.tag"))) {
			if _, dup := seen[t]; !dup {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
		return fieldValue{list: tags}
	case StrategyLinkList:
		links := []ramendb.ExternalLink{}
		tr.Find("a").Each(func(_ int, a *goquery.Selection) {
			link := ramendb.ExternalLink{Name: firstText(a.Find("span:not(.font-icon)"))}
			if href, ok := a.Attr("href"); ok {
				link.URL = &href
			}
			links = append(links, link)
		})
		return fieldValue{links: links}
	case StrategyAwardList:
		prizes := []string{}
		tr.Find("p.more > a.award").Each(func(_ int, a *goquery.Selection) {
			prizes = append(prizes, strings.Join(ramendb.TrimNonEmpty(nestedTexts(a.Find("span"))), ""))
		})
		return fieldValue{list: prizes}
	default:
		return fieldValue{text: firstText(tr.Find("td"))}
	}
}

// metadataField describes one row of the shop's statistics table.
type metadataField struct {
	name string
	// ownText reads the cell's own text instead of its nested span.
	ownText bool
	// float coerces to a float instead of an integer.
	float bool
	set   func(b *ramendb.Business, v *ramendb.Value)
}

var metadataTable = map[string]metadataField{
	"レビュー件数": {
		name: "review_count",
		set:  func(b *ramendb.Business, v *ramendb.Value) { b.ReviewCount = v },
	},
	"レビューユーザー数": {
		name: "review_user_count",
		set:  func(b *ramendb.Business, v *ramendb.Value) { b.ReviewUserCount = v },
	},
	"平均点": {
		name:  "average_score",
		float: true,
		set:   func(b *ramendb.Business, v *ramendb.Value) { b.AverageScore = v },
	},
	"総合順位": {
		name:    "ranking",
		ownText: true,
		set:     func(b *ramendb.Business, v *ramendb.Value) { b.Ranking = v },
	},
	"スキ": {
		name: "like_count",
		set:  func(b *ramendb.Business, v *ramendb.Value) { b.LikeCount = v },
	},
}

// MetadataField returns the canonical field for a statistics label.
func MetadataField(label string) (string, bool) {
	f, ok := metadataTable[label]
	return f.name, ok
}

// readMetadata reads a statistics row. Returns nil when the cell is empty.
func readMetadata(tr *goquery.Selection, f metadataField) *ramendb.Value {
	cell := tr.Find("td > span")
	if f.ownText {
		cell = tr.Find("td")
	}
	raw := firstText(cell)
	if raw == nil {
		return nil
	}
	s, ok := ramendb.StripCountSuffix(*raw)
	if !ok {
		return nil
	}
	if f.float {
		return optional(ramendb.FloatOrPassthrough(s))
	}
	return optional(ramendb.IntOrPassthrough(s))
}
