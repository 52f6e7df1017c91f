package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

const (
	schemaSelector      = `script[type="application/ld+json"]`
	dateSelector        = `[data-marker="item-view/item-date"]`
	priceSelector       = `[data-marker="item-view/item-price"]`
	descriptionSelector = `[data-marker="item-view/item-description"]`
	conditionsSelector  = ".params-paramsList-_awNW"
	conditionSelector   = ".params-paramsList__item-_2Y2O"
	locationSelector    = ".style-item-address__string-wt61A"
)

// flexString accepts both string and numeric JSON values; the embedded
// identifier value switches between the two across page revisions.
type flexString struct {
	value string
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.value = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.value = n.String()
	return nil
}

type detailSchema struct {
	SameAs     string `json:"sameAs"`
	Title      string `json:"title"`
	DatePosted string `json:"datePosted"`
	Identifier struct {
		Value flexString `json:"value"`
	} `json:"identifier"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
}

// ParseDetail extracts a full listing from a detail page: the embedded
// JSON-LD block carries link, identifier, title, date and employer; the
// visible DOM carries time, price, conditions, location and the
// description body. TargetID is left for the caller to fill in.
func ParseDetail(page string) (*entities.Listing, error) {

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	schema, err := parseSchema(doc)
	if err != nil {
		return nil, err
	}

	timeToken, err := parseTimeToken(doc)
	if err != nil {
		return nil, err
	}

	priceNode := doc.Find(priceSelector)
	if priceNode.Length() == 0 {
		return nil, &ParseError{Field: "price"}
	}

	conditions, err := parseConditions(doc)
	if err != nil {
		return nil, err
	}

	locationNode := doc.Find(locationSelector)
	if locationNode.Length() == 0 {
		return nil, &ParseError{Field: "location"}
	}

	body, err := parseBody(doc)
	if err != nil {
		return nil, err
	}

	return &entities.Listing{
		Source:      SourceAvito,
		Link:        schema.SameAs,
		ExternalID:  schema.Identifier.Value.value,
		Title:       schema.Title,
		Price:       strings.TrimSpace(priceNode.Text()),
		Description: entities.BuildDescription(conditions, strings.TrimSpace(locationNode.Text()), body),
		Employer:    schema.HiringOrganization.Name,
		PostedAt:    schema.DatePosted + " " + timeToken,
	}, nil
}

func parseSchema(doc *goquery.Document) (*detailSchema, error) {

	node := doc.Find(schemaSelector).First()
	if node.Length() == 0 {
		return nil, &ParseError{Field: "schema"}
	}

	var schema detailSchema
	if err := json.Unmarshal([]byte(node.Text()), &schema); err != nil {
		return nil, &ParseError{Field: "schema"}
	}

	if schema.SameAs == "" {
		return nil, &ParseError{Field: "link"}
	}
	if schema.Identifier.Value.value == "" {
		return nil, &ParseError{Field: "identifier"}
	}
	if schema.Title == "" {
		return nil, &ParseError{Field: "title"}
	}
	if schema.DatePosted == "" {
		return nil, &ParseError{Field: "date"}
	}
	if schema.HiringOrganization.Name == "" {
		return nil, &ParseError{Field: "employer"}
	}

	return &schema, nil
}

// parseTimeToken pulls the time out of the visible posting date, e.g.
// "· сегодня в 14:05" -> "14:05".
func parseTimeToken(doc *goquery.Document) (string, error) {

	node := doc.Find(dateSelector)
	if node.Length() == 0 {
		return "", &ParseError{Field: "time"}
	}

	fields := strings.Fields(node.Text())
	if len(fields) == 0 {
		return "", &ParseError{Field: "time"}
	}

	return fields[len(fields)-1], nil
}

func parseConditions(doc *goquery.Document) ([]string, error) {

	container := doc.Find(conditionsSelector)
	if container.Length() == 0 {
		return nil, &ParseError{Field: "conditions"}
	}

	var conditions []string
	container.Find(conditionSelector).Each(func(_ int, node *goquery.Selection) {
		conditions = append(conditions, strings.TrimSpace(node.Text()))
	})

	return conditions, nil
}

// parseBody walks the description container child by child, keeping the
// three content shapes the page uses: paragraphs (a bare <br> paragraph
// marks a blank line), ordered lists and unordered lists.
func parseBody(doc *goquery.Document) ([]entities.ContentBlock, error) {

	container := doc.Find(descriptionSelector)
	if container.Length() == 0 {
		return nil, &ParseError{Field: "description"}
	}

	var blocks []entities.ContentBlock

	container.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "p":
			inner, _ := child.Html()
			if inner = strings.TrimSpace(inner); inner == "<br>" || inner == "<br/>" {
				blocks = append(blocks, entities.Break())
			} else {
				blocks = append(blocks, entities.Paragraph(strings.TrimSpace(child.Text())))
			}
		case "ol":
			blocks = append(blocks, entities.OrderedList(childTexts(child)))
		case "ul":
			blocks = append(blocks, entities.UnorderedList(childTexts(child)))
		}
	})

	return blocks, nil
}

func childTexts(list *goquery.Selection) []string {
	var items []string
	list.Children().Each(func(_ int, item *goquery.Selection) {
		items = append(items, strings.TrimSpace(item.Text()))
	})
	return items
}
