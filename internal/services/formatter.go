package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

const (
	// maxSegmentLength is the rune budget for a single chat message.
	maxSegmentLength = 4000
	// descriptionSplitPoint is where an oversized description gets cut,
	// rolled back to the nearest preceding line boundary.
	descriptionSplitPoint = 2000
)

// FormatListing renders a listing into at most two HTML segments. Field
// order is fixed: title, price, description, employer, link; employer and
// link always trail the description and end up in the final segment.
// Splitting never loses content.
func FormatListing(listing *entities.Listing) []string {

	header := fmt.Sprintf("<b>%s</b>\n\n", listing.Title)
	header += fmt.Sprintf("Зарплата: %s\n\n", listing.Price)

	trailer := fmt.Sprintf("Работодатель: %s\n\n", listing.Employer)
	trailer += fmt.Sprintf(`<a href="%s">Ссылка на вакансию</a>`, listing.Link)

	combined := utf8.RuneCountInString(listing.Title) +
		utf8.RuneCountInString(listing.Price) +
		utf8.RuneCountInString(listing.Description) +
		utf8.RuneCountInString(listing.Employer) +
		utf8.RuneCountInString(listing.Link)

	if combined <= maxSegmentLength {
		return []string{header + listing.Description + "\n\n" + trailer}
	}

	head, tail := splitDescription(listing.Description)
	return []string{
		header + head + "\n\n",
		tail + "\n\n" + trailer,
	}
}

// splitDescription cuts the description at the last newline before the
// split point. The newline itself goes to the tail, so head+tail always
// reassembles the original text.
func splitDescription(description string) (string, string) {

	runes := []rune(description)

	limit := descriptionSplitPoint
	if len(runes) < limit {
		limit = len(runes)
	}

	cut := limit
	for i := limit - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			cut = i
			break
		}
	}

	return string(runes[:cut]), string(runes[cut:])
}
