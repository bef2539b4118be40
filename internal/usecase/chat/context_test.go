package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docketlabs/docket/internal/domain"
)

func iptr(n int) *int { return &n }

func TestBuildContext_DeduplicatesPages(t *testing.T) {
	fetches := make(map[int]int)
	fetch := func(page int) (string, error) {
		fetches[page]++
		return fmt.Sprintf("text of page %d", page), nil
	}

	selected := []domain.SelectedEvidence{
		{Kind: "contract", Summary: "signed agreement", Reference: "fls. 7", PageStart: iptr(7)},
		{Kind: "invoice", Summary: "payment record", Reference: "fls. 7/9", PageStart: iptr(7)},
	}

	ctx := BuildContext(selected, fetch)

	if fetches[7] != 1 {
		t.Errorf("page 7 fetched %d times, want 1", fetches[7])
	}
	if n := strings.Count(ctx, "text of page 7"); n != 1 {
		t.Errorf("page 7 text appears %d times, want 1", n)
	}
	if n := strings.Count(ctx, "---"); n < 2 {
		t.Errorf("expected one separator per evidence block, got %d", n)
	}
}

func TestBuildContext_PagesAscending(t *testing.T) {
	fetch := func(page int) (string, error) {
		return fmt.Sprintf("body %d", page), nil
	}

	selected := []domain.SelectedEvidence{
		{Kind: "a", Reference: "fls. 12", PageStart: iptr(12)},
		{Kind: "b", Reference: "fls. 3", PageStart: iptr(3)},
		{Kind: "c", Reference: "fls. 8", PageStart: iptr(8)},
	}

	ctx := BuildContext(selected, fetch)

	i3 := strings.Index(ctx, "[PAGE 3]")
	i8 := strings.Index(ctx, "[PAGE 8]")
	i12 := strings.Index(ctx, "[PAGE 12]")
	if i3 < 0 || i8 < 0 || i12 < 0 {
		t.Fatalf("missing page blocks: %d %d %d", i3, i8, i12)
	}
	if !(i3 < i8 && i8 < i12) {
		t.Errorf("pages not ascending: %d %d %d", i3, i8, i12)
	}
}

func TestBuildContext_TruncatesLongPage(t *testing.T) {
	long := strings.Repeat("x", MaxPageChars+1000)
	fetch := func(int) (string, error) { return long, nil }

	selected := []domain.SelectedEvidence{
		{Kind: "report", Reference: "fls. 1", PageStart: iptr(1)},
	}

	ctx := BuildContext(selected, fetch)

	if strings.Contains(ctx, long) {
		t.Error("page text not truncated")
	}
	if !strings.Contains(ctx, long[:MaxPageChars]) {
		t.Error("truncated prefix missing")
	}
}

func TestBuildContext_UnavailablePage(t *testing.T) {
	fetch := func(page int) (string, error) {
		if page == 5 {
			return "", errors.New("missing")
		}
		return "ok", nil
	}

	selected := []domain.SelectedEvidence{
		{Kind: "a", Reference: "fls. 2", PageStart: iptr(2)},
		{Kind: "b", Reference: "fls. 5", PageStart: iptr(5)},
	}

	ctx := BuildContext(selected, fetch)

	if !strings.Contains(ctx, "[PAGE 5: TEXT UNAVAILABLE]") {
		t.Error("unavailable marker missing")
	}
	if !strings.Contains(ctx, "[PAGE 2]") {
		t.Error("available page missing")
	}
}

func TestBuildContext_NoPageReference(t *testing.T) {
	fetched := false
	fetch := func(int) (string, error) {
		fetched = true
		return "", nil
	}

	selected := []domain.SelectedEvidence{
		{Kind: "testimony", Summary: "witness statement", Reference: "sem página"},
	}

	ctx := BuildContext(selected, fetch)

	if fetched {
		t.Error("no pages should be fetched for page-less evidence")
	}
	if !strings.Contains(ctx, "source page: not identified") {
		t.Error("missing not-identified marker")
	}
	if !strings.Contains(ctx, `reference "sem página"`) {
		t.Error("raw reference missing from block")
	}
}

func TestBuildContext_BlankFields(t *testing.T) {
	selected := []domain.SelectedEvidence{{Reference: "fls. 1", PageStart: iptr(1)}}

	ctx := BuildContext(selected, func(int) (string, error) { return "p", nil })

	if !strings.Contains(ctx, "kind: n/a") {
		t.Error("blank kind should render as n/a")
	}
	if !strings.Contains(ctx, "summary: n/a") {
		t.Error("blank summary should render as n/a")
	}
}

func TestBuildContext_Empty(t *testing.T) {
	ctx := BuildContext(nil, func(int) (string, error) { return "", nil })

	if !strings.Contains(ctx, "SUMMARY OF THE EVIDENCE SELECTED") {
		t.Error("header missing")
	}
	if !strings.Contains(ctx, "FULL TEXT OF THE REFERENCED PAGES") {
		t.Error("pages header missing")
	}
}
