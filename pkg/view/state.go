// Package view holds the per-session state of the family view: the search
// query and which sections are expanded.
package view

import (
	"fmt"
	"maps"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
	"github.com/vanderheijden86/kinview/pkg/search"
)

// SectionID names one expand/collapse toggle.
type SectionID string

const (
	SectionGrandfather      SectionID = "grandfather"
	SectionSiblings         SectionID = "siblings"
	SectionGrandfatherWives SectionID = "grandfatherWives"
)

// SiblingWives is the toggle for the wife list of sibling i.
func SiblingWives(i int) SectionID {
	return SectionID(fmt.Sprintf("sibling/%d/wives", i))
}

// DefaultExpanded is the initial toggle state: both root sections open,
// everything nested closed.
func DefaultExpanded() map[SectionID]bool {
	return map[SectionID]bool{
		SectionGrandfather: true,
		SectionSiblings:    true,
	}
}

// State is the view state for one session. The zero value is not usable;
// create one with New.
type State struct {
	record   *family.Record
	names    []string
	entries  []family.Entry
	query    string
	expanded map[SectionID]bool
	results  []string
	active   bool
}

// New builds a State for r with the default toggles. The record's names are
// flattened once here since the record never changes.
func New(r *family.Record) *State {
	stop := metrics.Timer(metrics.Flatten)
	entries := family.Entries(r)
	stop()

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return &State{
		record:   r,
		names:    names,
		entries:  entries,
		expanded: DefaultExpanded(),
	}
}

// Record returns the record the state was built from.
func (s *State) Record() *family.Record { return s.record }

// Names returns the flattened names. Callers must not modify the slice.
func (s *State) Names() []string { return s.names }

// Entries returns every person with their relation, in flatten order.
func (s *State) Entries() []family.Entry { return s.entries }

// Query returns the current search text.
func (s *State) Query() string { return s.query }

// SetQuery stores q and recomputes the match list. Toggles are untouched.
func (s *State) SetQuery(q string) {
	s.query = q
	s.results, s.active = search.Match(s.names, q)
}

// Results returns the names matching the query. active is false when the
// query is blank, in which case results is nil.
func (s *State) Results() (results []string, active bool) {
	return s.results, s.active
}

// ResultEntries is Results with relation details for each hit.
func (s *State) ResultEntries() ([]family.Entry, bool) {
	return search.Filter(s.entries, func(e family.Entry) string { return e.Name }, s.query)
}

// Highlight splits name around the current query.
func (s *State) Highlight(name string) []search.Segment {
	return search.Highlight(name, s.query)
}

// IsExpanded reports whether id is open. Unknown sections are closed.
func (s *State) IsExpanded(id SectionID) bool {
	return s.expanded[id]
}

// Toggle flips id and leaves every other section and the query alone.
func (s *State) Toggle(id SectionID) {
	s.expanded[id] = !s.expanded[id]
}

// SetExpanded forces id open or closed.
func (s *State) SetExpanded(id SectionID, open bool) {
	s.expanded[id] = open
}

// Expanded returns a copy of the toggle map.
func (s *State) Expanded() map[SectionID]bool {
	return maps.Clone(s.expanded)
}

// WithRecord returns a new State for r that keeps this state's query and
// toggles. Used when an external record file is reloaded.
func (s *State) WithRecord(r *family.Record) *State {
	next := New(r)
	next.expanded = maps.Clone(s.expanded)
	next.SetQuery(s.query)
	return next
}
