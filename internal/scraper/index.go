package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndexItem is the cheap index-page view of a listing: just enough to
// decide novelty and fetch the detail page.
type IndexItem struct {
	ExternalID string
	Link       string
}

// FirstUnknownItem returns the first listing node in document order whose
// identifier is not in known, or nil when every listed item is already
// known. The nil outcome is the expected steady state of a poll, not an
// error.
func FirstUnknownItem(page string, known map[string]struct{}) (*IndexItem, error) {

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var item *IndexItem
	var parseErr error

	doc.Find("[data-marker=item]").EachWithBreak(func(_ int, node *goquery.Selection) bool {

		id, ok := node.Attr("data-item-id")
		if !ok || id == "" {
			return true
		}

		if _, seen := known[id]; seen {
			return true
		}

		href, ok := node.Find("[data-marker=item-title]").Attr("href")
		if !ok {
			parseErr = &ParseError{Field: "item link"}
			return false
		}

		item = &IndexItem{ExternalID: id, Link: avitoBaseURL + href}
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return item, nil
}
