package ui

import (
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/search"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Kunjan", 10, "Kunjan"},
		{"Kunjan", 6, "Kunjan"},
		{"Kunjan", 4, "Kun…"},
		{"Kunjan", 0, ""},
		{"ക്കുഞ്ഞൻ", 40, "ക്കുഞ്ഞൻ"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncateWideRunes(t *testing.T) {
	got := truncate("日本語の名前", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("width %d exceeds 7: %q", w, got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not cut, got %q", got)
	}
}

func TestFitSegmentsKeepsMatch(t *testing.T) {
	segs := search.Highlight("Muhammad (Valiya Kutti Mon)", "muh")
	fit := fitSegments(segs, 12)

	if w := runewidth.StringWidth(search.Join(fit)); w != 12 {
		t.Errorf("fitted width = %d, want 12", w)
	}
	if !fit[0].Matched || fit[0].Text != "Muh" {
		t.Errorf("leading match lost: %+v", fit)
	}
	if last := fit[len(fit)-1]; last.Text != "…" {
		t.Errorf("expected ellipsis, got %+v", last)
	}
}

func TestFitSegmentsShortNameUnchanged(t *testing.T) {
	segs := search.Highlight("Koya", "oy")
	fit := fitSegments(segs, 20)
	if len(fit) != len(segs) || search.Join(fit) != "Koya" {
		t.Errorf("short name should be untouched: %+v", fit)
	}
}

func TestDescribeEntry(t *testing.T) {
	tests := []struct {
		e    family.Entry
		want string
	}{
		{family.Entry{Name: "Kunjan", Relation: family.RelationChild, Parent: "Kauja"}, "Child of Kauja"},
		{family.Entry{Name: "Kauja", Relation: family.RelationWife, Parent: "Ahmed"}, "Wife of Ahmed"},
		{family.Entry{Name: "Ahmed", Relation: family.RelationGrandfather}, "Grandfather"},
	}
	for _, tt := range tests {
		if got := describeEntry(tt.e); got != tt.want {
			t.Errorf("describeEntry(%s) = %q, want %q", tt.e.Name, got, tt.want)
		}
	}
}

func TestVisibleSectionsFollowToggles(t *testing.T) {
	m := newTestModel(t)
	s := m.State()

	ids := visibleSections(s)
	if len(ids) != 4 {
		t.Fatalf("expected 4 headers, got %v", ids)
	}

	s.Toggle("siblings")
	ids = visibleSections(s)
	if len(ids) != 3 {
		t.Errorf("collapsed siblings should hide their toggles, got %v", ids)
	}
}

func TestSectionCopy(t *testing.T) {
	m := newTestModel(t)
	text, what := sectionCopy(m.State(), "siblings")
	if text != "Kiriyaadath Kunjae Mutti Haji\nThottol Mammais Kutti" {
		t.Errorf("siblings copy = %q", text)
	}
	if what != "2 siblings" {
		t.Errorf("what = %q", what)
	}
}
