package export

import (
	"fmt"

	"github.com/vanderheijden86/kinview/pkg/family"
)

// card is one box in a snapshot: a person and the people listed under them.
type card struct {
	Name     string
	Subtitle string
	Lines    []cardLine
	Accent   bool // grandfather card

	X, Y, W, H float64
}

// cardLine is one row inside a card. Only Name is searched; Label is a
// fixed prefix such as "Wife: ".
type cardLine struct {
	Label  string
	Name   string
	Indent int
}

func (l cardLine) text() string { return l.Label + l.Name }

// buildCards lays the record out as the TUI does: the grandfather, one card
// per wife, then one card per sibling.
func buildCards(r *family.Record) []card {
	gf := r.Grandfather
	wives := family.Wives(gf.Wives)

	cards := []card{{
		Name:     gf.Name,
		Subtitle: string(family.RelationGrandfather),
		Lines: []cardLine{{
			Label: fmt.Sprintf("Wives & Children (%d children)", wives.ChildCount()),
		}},
		Accent: true,
	}}
	for _, w := range gf.Wives {
		c := card{Name: w.Name, Subtitle: "Wife of " + gf.Name}
		for _, child := range w.Children {
			c.Lines = append(c.Lines, cardLine{Name: child})
		}
		cards = append(cards, c)
	}

	for _, s := range r.Siblings {
		c := card{Name: s.Name, Subtitle: string(family.RelationSibling)}
		switch h := s.Household.(type) {
		case family.Spouse:
			c.Lines = append(c.Lines, cardLine{Label: "Wife: ", Name: h.Name})
			for _, child := range h.Children {
				c.Lines = append(c.Lines, cardLine{Name: child, Indent: 1})
			}
		case family.Wives:
			c.Lines = append(c.Lines, cardLine{
				Label: fmt.Sprintf("Wives & Children (%d children)", h.ChildCount()),
			})
			for _, w := range h {
				c.Lines = append(c.Lines, cardLine{Label: "Wife: ", Name: w.Name, Indent: 1})
				for _, child := range w.Children {
					c.Lines = append(c.Lines, cardLine{Name: child, Indent: 2})
				}
			}
		case family.Children:
			c.Lines = append(c.Lines, cardLine{Label: "Children:"})
			for _, child := range h {
				c.Lines = append(c.Lines, cardLine{Name: child, Indent: 1})
			}
		}
		cards = append(cards, c)
	}
	return cards
}
