package view

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/kinview/pkg/family"
)

func newDefaultState(t *testing.T) *State {
	t.Helper()
	r, err := family.Default()
	if err != nil {
		t.Fatalf("default record: %v", err)
	}
	return New(r)
}

func TestInitialState(t *testing.T) {
	s := newDefaultState(t)
	if !s.IsExpanded(SectionGrandfather) || !s.IsExpanded(SectionSiblings) {
		t.Error("root sections should start expanded")
	}
	if s.IsExpanded(SectionGrandfatherWives) {
		t.Error("grandfather's wives should start collapsed")
	}
	if s.IsExpanded(SiblingWives(1)) {
		t.Error("sibling wife lists should start collapsed")
	}
	if s.Query() != "" {
		t.Errorf("expected empty query, got %q", s.Query())
	}
	if res, active := s.Results(); active || res != nil {
		t.Errorf("expected no active filter, got %v/%v", res, active)
	}
	if len(s.Names()) != 46 {
		t.Errorf("expected 46 names, got %d", len(s.Names()))
	}
}

func TestSearchKunjan(t *testing.T) {
	s := newDefaultState(t)
	s.SetQuery("kunjan")
	res, active := s.Results()
	if !active {
		t.Fatal("expected active filter")
	}
	if !reflect.DeepEqual(res, []string{"Kunjan", "Kunjan", "Kunjan"}) {
		t.Errorf("expected three Kunjan matches, got %v", res)
	}

	entries, _ := s.ResultEntries()
	parents := []string{}
	for _, e := range entries {
		parents = append(parents, e.Parent)
	}
	want := []string{"Fathima (Puthiyarele)", "Kauja", "Kiriyaadath Kunjae Mutti Haji"}
	if !reflect.DeepEqual(parents, want) {
		t.Errorf("match parents = %v, want %v", parents, want)
	}
}

func TestSetQueryClearing(t *testing.T) {
	s := newDefaultState(t)
	s.SetQuery("zzz-no-match")
	res, active := s.Results()
	if !active || res == nil || len(res) != 0 {
		t.Errorf("expected active empty result, got %v/%v", res, active)
	}

	s.SetQuery("   ")
	res, active = s.Results()
	if active || res != nil {
		t.Errorf("expected cleared filter, got %v/%v", res, active)
	}
}

func TestToggleFlipsOnlyOneSection(t *testing.T) {
	s := newDefaultState(t)
	s.SetQuery("koya")
	s.Toggle(SectionGrandfatherWives)
	before := s.Expanded()

	s.Toggle(SectionGrandfather)

	after := s.Expanded()
	if after[SectionGrandfather] {
		t.Error("grandfather should now be collapsed")
	}
	for id, v := range before {
		if id == SectionGrandfather {
			continue
		}
		if after[id] != v {
			t.Errorf("section %s changed from %v to %v", id, v, after[id])
		}
	}
	if s.Query() != "koya" {
		t.Errorf("query changed to %q", s.Query())
	}

	s.Toggle(SectionGrandfather)
	if !s.IsExpanded(SectionGrandfather) {
		t.Error("second toggle should restore the section")
	}
}

func TestSiblingSectionsAreDistinct(t *testing.T) {
	s := newDefaultState(t)
	s.Toggle(SiblingWives(0))
	if !s.IsExpanded(SiblingWives(0)) || s.IsExpanded(SiblingWives(1)) {
		t.Error("sibling toggles should be independent")
	}
	if SiblingWives(0) == SectionGrandfatherWives {
		t.Error("sibling section id collides with grandfather wives")
	}
}

func TestExpandedReturnsCopy(t *testing.T) {
	s := newDefaultState(t)
	m := s.Expanded()
	m[SectionSiblings] = false
	if !s.IsExpanded(SectionSiblings) {
		t.Error("mutating the snapshot must not change state")
	}
}

func TestWithRecordKeepsQueryAndToggles(t *testing.T) {
	s := newDefaultState(t)
	s.SetQuery("ko")
	s.Toggle(SectionSiblings)

	r := &family.Record{Grandfather: family.Grandfather{
		Name:  "Koya Senior",
		Wives: []family.Wife{{Name: "W"}},
	}}
	next := s.WithRecord(r)
	if next.Query() != "ko" || next.IsExpanded(SectionSiblings) {
		t.Error("reloaded state lost query or toggles")
	}
	res, _ := next.Results()
	if !reflect.DeepEqual(res, []string{"Koya Senior"}) {
		t.Errorf("results not recomputed for new record: %v", res)
	}
	if s.Record() == next.Record() {
		t.Error("expected the new record")
	}
}
