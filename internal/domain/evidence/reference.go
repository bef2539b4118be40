package evidence

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRuns = regexp.MustCompile(`\d+`)

// ParseReference extracts a page range from a free-text folio reference.
//
//	"fls. 10"    -> (10, 10)
//	"fls. 10/12" -> (10, 12)
//	"fls. 10-12" -> (10, 12)
//	"Pág. 5"     -> (5, 5)
//
// This is a best-effort heuristic, not a grammar. The first two numbers are
// taken verbatim as start/end regardless of separator or relative order
// ("10/5" yields (10, 5)); numbers past the second are ignored. A reference
// with no digits returns (nil, nil) and the evidence is still valid.
func ParseReference(ref string) (start, end *int) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, nil
	}

	var numbers []int
	for _, run := range digitRuns.FindAllString(ref, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			// Digit run too long to fit an int; skip it.
			continue
		}
		numbers = append(numbers, n)
	}

	switch len(numbers) {
	case 0:
		return nil, nil
	case 1:
		return &numbers[0], &numbers[0]
	default:
		return &numbers[0], &numbers[1]
	}
}
