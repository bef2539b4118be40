package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docketlabs/docket/internal/domain"
)

// MaxPageChars bounds the text of each page included in a session context.
// Truncation is a hard prefix cut.
const MaxPageChars = 5000

// BuildContext assembles the textual context seeding a session: one block
// per selected evidence record, then one block per distinct referenced page
// in ascending order. Pages are deduplicated: a page referenced by five
// records is fetched once and appears once. A page that cannot be resolved
// is represented by an explicit unavailable marker instead of being
// silently omitted.
func BuildContext(selected []domain.SelectedEvidence, fetchPage func(page int) (string, error)) string {
	var b strings.Builder
	b.WriteString("SUMMARY OF THE EVIDENCE SELECTED FOR THIS SESSION:\n")

	pages := make(map[int]bool)
	for _, ev := range selected {
		b.WriteString(fmt.Sprintf("- kind: %s\n", orNA(ev.Kind)))
		b.WriteString(fmt.Sprintf("  summary: %s\n", orNA(ev.Summary)))
		if ev.PageStart != nil {
			b.WriteString(fmt.Sprintf("  source page: %d (reference %q)\n", *ev.PageStart, ev.Reference))
			pages[*ev.PageStart] = true
		} else {
			b.WriteString(fmt.Sprintf("  source page: not identified (reference %q)\n", ev.Reference))
		}
		b.WriteString("---\n")
	}

	b.WriteString("\nFULL TEXT OF THE REFERENCED PAGES:\n")

	ordered := make([]int, 0, len(pages))
	for p := range pages {
		ordered = append(ordered, p)
	}
	sort.Ints(ordered)

	for _, p := range ordered {
		text, err := fetchPage(p)
		if err != nil {
			b.WriteString(fmt.Sprintf("\n[PAGE %d: TEXT UNAVAILABLE]\n", p))
			continue
		}
		if len(text) > MaxPageChars {
			text = text[:MaxPageChars]
		}
		b.WriteString(fmt.Sprintf("\n[PAGE %d]:\n%s\n", p, text))
		b.WriteString(strings.Repeat("-", 30) + "\n")
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
