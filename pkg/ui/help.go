package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/kinview/pkg/version"
)

const helpMarkdown = `# kv %s

Browse the family record and search it by name.

## Navigation

| Key | Action |
|-----|--------|
| ` + "`j` / `k`" + ` | Move focus between section headers |
| ` + "`tab`" + ` | Next section header |
| ` + "`enter` / `space`" + ` | Open or close the focused section |
| ` + "`1`" + ` | Toggle the grandfather's family |
| ` + "`2`" + ` | Toggle the grandfather's wives and children |
| ` + "`3`" + ` | Toggle the grandfather's siblings |
| ` + "`g` / `G`" + ` | Scroll to top / bottom |

## Search

| Key | Action |
|-----|--------|
| ` + "`/`" + ` | Focus the search box |
| ` + "`enter`" + ` | Keep the query and return to the tree |
| ` + "`esc`" + ` | Clear the query |

Matching ignores case and treats every character literally.

## Other

| Key | Action |
|-----|--------|
| ` + "`y`" + ` | Copy search results, or the focused person's name |
| ` + "`?`" + ` | Toggle this help |
| ` + "`q`" + ` | Quit |

Data source: %s
`

// renderHelp renders the help overlay as markdown, falling back to the raw
// text when glamour cannot build a renderer.
func renderHelp(width int, source string) string {
	md := fmt.Sprintf(helpMarkdown, version.Version, source)

	wrap := clampInt(width-4, 40, 100)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, " \n\r\t")
}
