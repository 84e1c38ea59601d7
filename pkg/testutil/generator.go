// Package testutil provides family record fixtures and assertions shared by
// kv's tests. Generated records are deterministic for a given seed.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/kinview/pkg/family"
)

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed        int64 // Random seed for determinism
	Siblings    int   // Number of siblings of the grandfather
	MaxWives    int   // Upper bound on wives per husband (at least 1)
	MaxChildren int   // Upper bound on children per wife
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		Siblings:    4,
		MaxWives:    3,
		MaxChildren: 4,
	}
}

// Generator creates family records.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
	n   int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.MaxWives < 1 {
		cfg.MaxWives = 1
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var givenNames = []string{
	"Abdullah", "Amina", "Ashraf", "Fathima", "Haji", "Kauja", "Kunjan",
	"Koya", "Mariyam", "Moideen", "Nafeesa", "Rukhiya", "Sainaba", "Usman",
}

// name returns a pooled name with a running suffix so tests can tell
// people apart while still sharing substrings.
func (g *Generator) name() string {
	g.n++
	return fmt.Sprintf("%s %d", givenNames[g.rng.Intn(len(givenNames))], g.n)
}

func (g *Generator) children() []string {
	n := g.rng.Intn(g.cfg.MaxChildren + 1)
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = g.name()
	}
	return out
}

func (g *Generator) wives() []family.Wife {
	n := 1 + g.rng.Intn(g.cfg.MaxWives)
	out := make([]family.Wife, n)
	for i := range out {
		out[i] = family.Wife{Name: g.name(), Children: g.children()}
	}
	return out
}

// Record generates a record. Sibling households cycle through every shape,
// so any record with four or more siblings covers them all.
func (g *Generator) Record() *family.Record {
	r := &family.Record{Grandfather: family.Grandfather{
		Name:  g.name(),
		Wives: g.wives(),
	}}
	for i := 0; i < g.cfg.Siblings; i++ {
		s := family.Sibling{Name: g.name()}
		switch i % 4 {
		case 0:
			s.Household = family.Spouse{Name: g.name(), Children: g.children()}
		case 1:
			s.Household = family.Wives(g.wives())
		case 2:
			s.Household = family.Children(append([]string{g.name()}, g.children()...))
		}
		r.Siblings = append(r.Siblings, s)
	}
	return r
}

// QuickRecord generates a record with the default config and the given
// number of siblings.
func QuickRecord(siblings int) *family.Record {
	cfg := DefaultConfig()
	cfg.Siblings = siblings
	return New(cfg).Record()
}

// Small returns a fixed record with one sibling of each household shape.
// Its flatten order is:
//
//	Abdul Koya, Amina, Kunjan, Ali, Fathima, Siddique Koya, Rukhiya,
//	Kunju, Moideen, Sainaba, Kunjan, Usman, Ashraf
func Small() *family.Record {
	return &family.Record{
		Grandfather: family.Grandfather{
			Name: "Abdul Koya",
			Wives: []family.Wife{
				{Name: "Amina", Children: []string{"Kunjan", "Ali"}},
				{Name: "Fathima"},
			},
		},
		Siblings: []family.Sibling{
			{Name: "Siddique Koya", Household: family.Spouse{Name: "Rukhiya", Children: []string{"Kunju"}}},
			{Name: "Moideen", Household: family.Wives{{Name: "Sainaba", Children: []string{"Kunjan"}}}},
			{Name: "Usman", Household: family.Children{"Ashraf"}},
		},
	}
}
