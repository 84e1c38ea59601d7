package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/search"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate truncates s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// fitSegments cuts highlighted segments down to maxWidth cells, ending with
// an ellipsis when anything was dropped. Segment boundaries are kept so a
// visible match stays emphasized.
func fitSegments(segs []search.Segment, maxWidth int) []search.Segment {
	if maxWidth <= 0 {
		return nil
	}
	if runewidth.StringWidth(search.Join(segs)) <= maxWidth {
		return segs
	}

	budget := maxWidth - 1
	out := make([]search.Segment, 0, len(segs))
	for _, s := range segs {
		w := runewidth.StringWidth(s.Text)
		if w <= budget {
			out = append(out, s)
			budget -= w
			continue
		}
		if budget > 0 {
			out = append(out, search.Segment{Text: runewidth.Truncate(s.Text, budget, ""), Matched: s.Matched})
		}
		break
	}
	return append(out, search.Segment{Text: "…"})
}

// renderSegments draws segments with the match style on matched pieces.
func renderSegments(segs []search.Segment, plain, match lipgloss.Style) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Matched {
			sb.WriteString(match.Render(s.Text))
		} else {
			sb.WriteString(plain.Render(s.Text))
		}
	}
	return sb.String()
}

// describeEntry is the "where does this person sit" line used in the results
// panel, e.g. "Child of Kauja".
func describeEntry(e family.Entry) string {
	if e.Parent == "" {
		return string(e.Relation)
	}
	return string(e.Relation) + " of " + e.Parent
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
