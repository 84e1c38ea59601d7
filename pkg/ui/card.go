package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/view"
)

// body accumulates rendered blocks and remembers the line each section
// header landed on, so the viewport can follow the focused header.
type body struct {
	blocks  []string
	height  int
	anchors map[view.SectionID]int
}

func newBody() *body {
	return &body{anchors: make(map[view.SectionID]int)}
}

func (b *body) add(block string) {
	b.blocks = append(b.blocks, block)
	b.height += lipgloss.Height(block)
}

func (b *body) anchor(id view.SectionID) {
	b.anchors[id] = b.height
}

func (b *body) String() string {
	return lipgloss.JoinVertical(lipgloss.Left, b.blocks...)
}

// cardRenderer draws the family record from the current view state.
type cardRenderer struct {
	theme Theme
	state *view.State
	// width is the person card width; panelWidth is used by the results
	// panel and the closing placeholder.
	width      int
	panelWidth int
	focused    view.SectionID
}

// cardWidthFor returns the card width at which every person line in the
// record shows its whole name. It mirrors the room computed in person.
func cardWidthFor(s *view.State) int {
	need := 0
	for _, e := range s.Entries() {
		indent := 0
		if e.Relation == family.RelationChild {
			indent = SpaceLG
		}
		w := runewidth.StringWidth(e.Name) + runewidth.StringWidth(string(e.Relation)) + indent + 4
		need = max(need, w)
	}
	return need
}

// person renders one name line: the highlighted name followed by the
// relationship label.
func (c cardRenderer) person(name string, rel family.Relation, indent int) string {
	t := c.theme
	label := string(rel)
	room := c.width - indent - runewidth.StringWidth(label) - 4
	segs := fitSegments(c.state.Highlight(name), max(room, 8))

	relStyle := t.Renderer.NewStyle().Foreground(t.RelationColor(label))
	line := renderSegments(segs, t.Name, t.Match) + "  " + relStyle.Render(label)
	if indent > 0 {
		line = strings.Repeat(" ", indent) + line
	}
	return line
}

// header renders a toggle line. The focused header gets the selection bar.
func (c cardRenderer) header(id view.SectionID, text string) string {
	line := expandGlyph(c.state.IsExpanded(id)) + " " + text
	if id == c.focused {
		return c.theme.Selected.Render(line)
	}
	return " " + c.theme.SectionTitle.Render(line)
}

// wivesHeaderText is the label on a wives toggle, with the child total.
func wivesHeaderText(w family.Wives) string {
	return fmt.Sprintf("Wives & Children (%d children)", w.ChildCount())
}

// wives renders each wife followed by her children.
func (c cardRenderer) wives(ws []family.Wife) string {
	var lines []string
	for _, w := range ws {
		lines = append(lines, glyphPerson+" "+c.person(w.Name, family.RelationWife, 0))
		for _, child := range w.Children {
			lines = append(lines, c.child(child))
		}
	}
	return c.theme.Household.Render(strings.Join(lines, "\n"))
}

func (c cardRenderer) child(name string) string {
	return "  " + glyphChild + " " + c.person(name, family.RelationChild, SpaceLG)
}

func (c cardRenderer) card(content string) string {
	return c.theme.Card.Width(c.width).Render(content)
}

// grandfather renders the grandfather section: header, card and, while open,
// the wives toggle and list.
func (c cardRenderer) grandfather(b *body) {
	r := c.state.Record()
	gf := r.Grandfather

	b.anchor(view.SectionGrandfather)
	b.add(c.header(view.SectionGrandfather, "Grandfather's Family"))
	b.add(c.card(c.person(gf.Name, family.RelationGrandfather, 0)))

	if !c.state.IsExpanded(view.SectionGrandfather) {
		return
	}
	b.anchor(view.SectionGrandfatherWives)
	b.add("  " + c.header(view.SectionGrandfatherWives, wivesHeaderText(gf.Wives)))
	if c.state.IsExpanded(view.SectionGrandfatherWives) {
		b.add(c.wives(gf.Wives))
	}
}

// siblings renders the siblings section. Each sibling's household follows
// its card; a list of several wives gets its own toggle.
func (c cardRenderer) siblings(b *body) {
	r := c.state.Record()

	b.anchor(view.SectionSiblings)
	b.add(c.header(view.SectionSiblings, fmt.Sprintf("Grandfather's Siblings (%d)", len(r.Siblings))))
	if !c.state.IsExpanded(view.SectionSiblings) {
		return
	}

	for i, s := range r.Siblings {
		b.add(c.card(c.person(s.Name, family.RelationSibling, 0)))

		switch h := s.Household.(type) {
		case family.Spouse:
			lines := []string{glyphPerson + " " + c.person(h.Name, family.RelationWife, 0)}
			for _, child := range h.Children {
				lines = append(lines, c.child(child))
			}
			b.add(c.theme.Household.Render(strings.Join(lines, "\n")))
		case family.Wives:
			id := view.SiblingWives(i)
			b.anchor(id)
			b.add("  " + c.header(id, wivesHeaderText(h)))
			if c.state.IsExpanded(id) {
				b.add(c.wives(h))
			}
		case family.Children:
			lines := make([]string, 0, len(h))
			for _, child := range h {
				lines = append(lines, c.child(child))
			}
			b.add(c.theme.Household.Render(strings.Join(lines, "\n")))
		}
	}
}

// future renders the placeholder card that closes the page.
func (c cardRenderer) future() string {
	text := lipgloss.JoinVertical(lipgloss.Center,
		c.theme.Title.Render("Future Generations"),
		"This section is ready for additional family members and generations",
	)
	return c.theme.FutureCard.Width(c.panelWidth).Render(text)
}

// results renders the search results panel, or "" when no filter is active.
func (c cardRenderer) results() string {
	entries, active := c.state.ResultEntries()
	if !active {
		return ""
	}
	t := c.theme
	lines := []string{t.SectionTitle.Render(fmt.Sprintf("Search Results (%d found)", len(entries)))}
	if len(entries) == 0 {
		lines = append(lines, t.MutedText.Render(fmt.Sprintf("No family members match %q", c.state.Query())))
	}
	for _, e := range entries {
		detail := describeEntry(e)
		room := c.panelWidth - 6 - runewidth.StringWidth(detail)
		segs := fitSegments(c.state.Highlight(e.Name), max(room, 8))
		lines = append(lines, glyphChild+" "+renderSegments(segs, t.Name, t.Match)+t.MutedText.Render(" · "+detail))
	}
	return t.ResultsBox.Width(c.panelWidth).Render(strings.Join(lines, "\n"))
}

// visibleSections lists the toggles that are on screen, in display order.
// Focus moves through this list.
func visibleSections(s *view.State) []view.SectionID {
	ids := []view.SectionID{view.SectionGrandfather}
	if s.IsExpanded(view.SectionGrandfather) {
		ids = append(ids, view.SectionGrandfatherWives)
	}
	ids = append(ids, view.SectionSiblings)
	if s.IsExpanded(view.SectionSiblings) {
		for i, sib := range s.Record().Siblings {
			if _, ok := sib.Household.(family.Wives); ok {
				ids = append(ids, view.SiblingWives(i))
			}
		}
	}
	return ids
}

// sectionCopy returns the text `y` copies for a focused header, plus a short
// description for the status line.
func sectionCopy(s *view.State, id view.SectionID) (text, what string) {
	r := s.Record()
	switch id {
	case view.SectionGrandfather:
		return r.Grandfather.Name, r.Grandfather.Name
	case view.SectionGrandfatherWives:
		return wivesText(r.Grandfather.Wives), "wives of " + r.Grandfather.Name
	case view.SectionSiblings:
		names := make([]string, len(r.Siblings))
		for i, sib := range r.Siblings {
			names[i] = sib.Name
		}
		return strings.Join(names, "\n"), fmt.Sprintf("%d siblings", len(names))
	}
	for i, sib := range r.Siblings {
		if view.SiblingWives(i) != id {
			continue
		}
		if w, ok := sib.Household.(family.Wives); ok {
			return wivesText(w), "wives of " + sib.Name
		}
	}
	return "", ""
}

// wivesText lists wives with their children indented below them.
func wivesText(ws []family.Wife) string {
	var lines []string
	for _, w := range ws {
		lines = append(lines, w.Name)
		for _, c := range w.Children {
			lines = append(lines, "  "+c)
		}
	}
	return strings.Join(lines, "\n")
}
