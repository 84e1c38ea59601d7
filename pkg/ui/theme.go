package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Relations
	Grandfather lipgloss.AdaptiveColor
	Wife        lipgloss.AdaptiveColor
	Child       lipgloss.AdaptiveColor
	Sibling     lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Title    lipgloss.Style

	// Card pieces, built once instead of per frame.
	Card         lipgloss.Style
	FutureCard   lipgloss.Style
	Household    lipgloss.Style
	Name         lipgloss.Style
	Match        lipgloss.Style
	MutedText    lipgloss.Style
	SectionTitle lipgloss.Style
	ResultsBox   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Grandfather: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Wife:        lipgloss.AdaptiveColor{Light: "#C0306A", Dark: "#FF79C6"},
		Child:       lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Sibling:     lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.FutureCard = r.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Muted).
		Foreground(t.Muted).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.Household = r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		PaddingLeft(SpaceSM).
		MarginLeft(SpaceLG)

	t.Name = r.NewStyle().Foreground(ColorText).Bold(true)
	t.Match = r.NewStyle().
		Background(ThemeBg("#F1FA8C")).
		Foreground(ColorMatch).
		Bold(true).
		Underline(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SectionTitle = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.ResultsBox = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)

	return t
}

// RelationColor returns the accent used for a relationship label.
func (t Theme) RelationColor(rel string) lipgloss.AdaptiveColor {
	switch rel {
	case "Grandfather":
		return t.Grandfather
	case "Wife":
		return t.Wife
	case "Child":
		return t.Child
	case "Grandfather's Sibling":
		return t.Sibling
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
