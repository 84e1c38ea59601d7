package datasource

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/kinview/pkg/family"
)

// RecordDiff summarizes how the people in a record changed between two
// loads. Names are compared as a multiset since duplicates are common.
type RecordDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	CountA  int      `json:"count_a"`
	CountB  int      `json:"count_b"`
}

// Diff compares the names of a and b.
func Diff(a, b *family.Record) RecordDiff {
	namesA := family.Flatten(a)
	namesB := family.Flatten(b)

	seen := make(map[string]int, len(namesA))
	for _, n := range namesA {
		seen[n]++
	}
	d := RecordDiff{CountA: len(namesA), CountB: len(namesB)}
	for _, n := range namesB {
		if seen[n] > 0 {
			seen[n]--
			continue
		}
		d.Added = append(d.Added, n)
	}
	for _, n := range namesA {
		if seen[n] > 0 {
			seen[n]--
			d.Removed = append(d.Removed, n)
		}
	}
	return d
}

// Changed reports whether any name was added or removed.
func (d RecordDiff) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Summary returns a one-line description for the status bar.
func (d RecordDiff) Summary() string {
	if !d.Changed() {
		return fmt.Sprintf("no name changes (%d people)", d.CountB)
	}
	var parts []string
	if len(d.Added) > 0 {
		parts = append(parts, fmt.Sprintf("+%d", len(d.Added)))
	}
	if len(d.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("-%d", len(d.Removed)))
	}
	return fmt.Sprintf("%s (%d people)", strings.Join(parts, " "), d.CountB)
}
