package evidence

import "strings"

// Filter narrows an evidence listing. All criteria are optional and
// conjunctive.
type Filter struct {
	// Kind is a case-insensitive substring match on the record's category.
	Kind string
	// Query is a case-insensitive substring match on the variant's text
	// fields (mapped: content/summary/excerpt; cataloged: excerpt and
	// document key fields).
	Query string
	// PageMin/PageMax select records whose page interval overlaps
	// [PageMin, PageMax]. A record without the page needed for a bound
	// check does not match that bound.
	PageMin *int
	PageMax *int
}

// MatchesMapped reports whether a mapped record passes the filter.
func (f Filter) MatchesMapped(m Mapped) bool {
	if !f.pagesOverlap(m.PageStart, m.PageEnd) {
		return false
	}
	if !containsFold(m.Kind, f.Kind) {
		return false
	}
	if f.Query != "" && !anyContainsFold(f.Query, m.Content, m.Summary, m.Excerpt) {
		return false
	}
	return true
}

// MatchesCataloged reports whether a cataloged record passes the filter.
func (f Filter) MatchesCataloged(c Cataloged) bool {
	if !f.pagesOverlap(c.PageStart, c.PageEnd) {
		return false
	}
	if !containsFold(c.Kind, f.Kind) {
		return false
	}
	if f.Query != "" && !anyContainsFold(f.Query,
		c.Excerpt, derefStr(c.Fiscal.DocumentKey), derefStr(c.Fiscal.DocumentNumber)) {
		return false
	}
	return true
}

func (f Filter) pagesOverlap(start, end *int) bool {
	if f.PageMin != nil && (end == nil || *end < *f.PageMin) {
		return false
	}
	if f.PageMax != nil && (start == nil || *start > *f.PageMax) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if h != "" && containsFold(h, needle) {
			return true
		}
	}
	return false
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
