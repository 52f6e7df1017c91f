package scraper

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseDetail_ShouldExtractFullListing(t *testing.T) {

	page, err := os.ReadFile("testdata/detail.html")
	require.NoError(t, err)

	listing, err := ParseDetail(string(page))
	require.NoError(t, err)

	assert.Equal(t, "avito", listing.Source)
	assert.Equal(t, "https://www.avito.ru/moskva/vakansii/prodavets_konsultant_333", listing.Link)
	assert.Equal(t, "333", listing.ExternalID)
	assert.Equal(t, "Продавец-консультант", listing.Title)
	assert.Equal(t, "60 000 ₽ за месяц", listing.Price)
	assert.Equal(t, "ООО Ромашка", listing.Employer)
	assert.Equal(t, "2024-06-01 14:05", listing.PostedAt)
	assert.Equal(t, 0, listing.PublishCount)

	expectedDescription := "<b>Условия</b>\n" +
		"- График: 5/2\n" +
		"- Опыт: не требуется\n" +
		"\n" +
		"<b>Расположение</b>\n" +
		"Москва, ул. Ленина, 1\n\n" +
		"<b>Описание</b>\n" +
		"Ищем продавца в магазин.\n" +
		"\n\n" +
		"Обязанности:\n" +
		"1. Консультация покупателей\n" +
		"2. Выкладка товара\n" +
		"\n" +
		"- Дружный коллектив\n" +
		"- Обучение\n" +
		"\n"
	assert.Equal(t, expectedDescription, listing.Description)
}

func Test_ParseDetail_WhenIdentifierIsNumeric_ShouldStillExtractIt(t *testing.T) {

	page := strings.Replace(detailPage(""), `"value":"333"`, `"value":333`, 1)

	listing, err := ParseDetail(page)

	require.NoError(t, err)
	assert.Equal(t, "333", listing.ExternalID)
}

func Test_ParseDetail_WhenRequiredNodeMissing_ShouldNameTheField(t *testing.T) {

	fields := []string{
		"schema", "link", "identifier", "title", "date", "employer",
		"time", "price", "conditions", "location", "description",
	}

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			_, err := ParseDetail(detailPage(field))

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, field, parseErr.Field)
		})
	}
}

func Test_ParseDetail_WhenConditionsListIsEmpty_ShouldOmitSection(t *testing.T) {

	page := strings.Replace(detailPage(""),
		`<li class="params-paramsList__item-_2Y2O">График: 5/2</li>`, "", 1)

	listing, err := ParseDetail(page)

	require.NoError(t, err)
	assert.NotContains(t, listing.Description, "Условия")
	assert.Contains(t, listing.Description, "Расположение")
}

func schemaJSON(omit string) string {

	schema := map[string]any{
		"sameAs":             "https://www.avito.ru/moskva/vakansii/prodavets_333",
		"title":              "Продавец",
		"datePosted":         "2024-06-01",
		"identifier":         map[string]any{"value": "333"},
		"hiringOrganization": map[string]any{"name": "ООО Ромашка"},
	}

	switch omit {
	case "link":
		delete(schema, "sameAs")
	case "title":
		delete(schema, "title")
	case "date":
		delete(schema, "datePosted")
	case "identifier":
		delete(schema, "identifier")
	case "employer":
		delete(schema, "hiringOrganization")
	}

	raw, _ := json.Marshal(schema)
	return string(raw)
}

// detailPage builds a minimal valid detail page with one part left out.
func detailPage(omit string) string {

	var sb strings.Builder
	sb.WriteString("<html><head>")
	if omit != "schema" {
		sb.WriteString(`<script type="application/ld+json">` + schemaJSON(omit) + `</script>`)
	}
	sb.WriteString("</head><body>")
	if omit != "time" {
		sb.WriteString(`<span data-marker="item-view/item-date">· сегодня в 09:30</span>`)
	}
	if omit != "price" {
		sb.WriteString(`<span data-marker="item-view/item-price">50 000 ₽</span>`)
	}
	if omit != "conditions" {
		sb.WriteString(`<div class="params-paramsList-_awNW"><li class="params-paramsList__item-_2Y2O">График: 5/2</li></div>`)
	}
	if omit != "location" {
		sb.WriteString(`<div class="style-item-address__string-wt61A">Москва</div>`)
	}
	if omit != "description" {
		sb.WriteString(`<div data-marker="item-view/item-description"><p>Текст объявления</p></div>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}
