// Package transcript segments a case file's flat full-text transcript into
// addressable pages using a literal marker string chosen at ingestion time.
package transcript

import (
	"strings"

	"github.com/docketlabs/docket/internal/domain"
)

// Document is a transcript: the full extracted text plus the page marker
// that delimits pages inside it.
type Document struct {
	FullText string
	Marker   string
}

// Pages splits the full text on every literal occurrence of the marker.
// Segments that are empty or all-whitespace are dropped, which absorbs a
// marker at the very start or end and consecutive markers with nothing
// between them. Remaining segments are trimmed. The result is 1-based:
// page n is Pages()[n-1].
func (d Document) Pages() []string {
	parts := strings.Split(d.FullText, d.Marker)
	pages := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pages = append(pages, p)
	}
	return pages
}

// Page returns the text of the 1-based page pageNum.
//
// Without a marker the page cannot be located in principle; that condition
// is reported as ErrMarkerUnconfigured, distinct from a page number that is
// merely outside the segmented range.
func (d Document) Page(pageNum int) (string, error) {
	if d.Marker == "" {
		return "", domain.ErrMarkerUnconfigured
	}

	pages := d.Pages()
	if pageNum < 1 || pageNum > len(pages) {
		return "", domain.NewPageOutOfRange(pageNum, len(pages))
	}
	return pages[pageNum-1], nil
}
