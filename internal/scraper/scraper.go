// Package scraper extracts structured data from Avito index and detail
// pages. All extraction is pure: pages come in as strings, no I/O happens
// here.
package scraper

import "fmt"

const (
	SourceAvito  = "avito"
	avitoBaseURL = "https://www.avito.ru"
)

// ParseError reports that a node the page format guarantees was absent.
// It usually means the upstream markup drifted.
type ParseError struct {
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected %s node is missing from the page", e.Field)
}
