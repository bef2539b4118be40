package evidence

import "testing"

func TestParseReference(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		start *int
		end   *int
	}{
		{"single page", "fls. 10", iptr(10), iptr(10)},
		{"slash range", "fls. 10/12", iptr(10), iptr(12)},
		{"dash range", "fls. 10-12", iptr(10), iptr(12)},
		{"pag abbreviation", "Pág. 5", iptr(5), iptr(5)},
		{"empty", "", nil, nil},
		{"whitespace only", "   ", nil, nil},
		{"no digits", "fls. s/n", nil, nil},
		// Documented heuristic: the first two numbers are taken verbatim,
		// even when they are not ascending. Not a bug to silently fix.
		{"descending pair kept as-is", "fls. 10/5", iptr(10), iptr(5)},
		// Open question: numbers past the second are always ignored today.
		{"third number ignored", "fls. 3, 7 e 12", iptr(3), iptr(7)},
		{"digits embedded in words", "doc2024 page 9", iptr(2024), iptr(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ParseReference(tt.ref)
			assertPage(t, "start", start, tt.start)
			assertPage(t, "end", end, tt.end)
		})
	}
}

func TestParseReference_NeverFails(t *testing.T) {
	// Absurd inputs must still return cleanly.
	for _, ref := range []string{"\x00\xff", "999999999999999999999999999 7", "-.-"} {
		start, end := ParseReference(ref)
		_ = start
		_ = end
	}

	// An overlong digit run is skipped, later runs still count.
	start, end := ParseReference("id 999999999999999999999999999 fls. 7")
	assertPage(t, "start", start, iptr(7))
	assertPage(t, "end", end, iptr(7))
}

func assertPage(t *testing.T, label string, got, want *int) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %d, want nil", label, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %d", label, *want)
	case want != nil && got != nil && *got != *want:
		t.Errorf("%s = %d, want %d", label, *got, *want)
	}
}

func iptr(n int) *int { return &n }
