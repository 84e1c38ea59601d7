package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
	"github.com/vanderheijden86/kinview/pkg/search"
)

var slugNonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// MarkdownOptions controls Markdown generation.
type MarkdownOptions struct {
	Title string
	// Query bolds matching parts of names.
	Query string
	// Mermaid adds a flowchart of the tree.
	Mermaid bool
}

// GenerateMarkdown renders the record as a Markdown report.
func GenerateMarkdown(r *family.Record, opts MarkdownOptions) string {
	var sb strings.Builder
	title := opts.Title
	if title == "" {
		title = "Family Tree Explorer"
	}
	meta := NewMeta(r, title, opts.Query)
	gf := r.Grandfather
	wives := family.Wives(gf.Wives)

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(title))
	fmt.Fprintf(&sb, "*Generated: %s · kv %s · data %s*\n\n",
		meta.GeneratedAt.Format("2006-01-02 15:04 MST"), meta.Version, meta.DataHash)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| **People** | %d |\n", meta.PersonCount)
	fmt.Fprintf(&sb, "| Wives of %s | %d |\n", escapeMarkdown(gf.Name), len(gf.Wives))
	fmt.Fprintf(&sb, "| Children of %s | %d |\n", escapeMarkdown(gf.Name), wives.ChildCount())
	fmt.Fprintf(&sb, "| Siblings | %d |\n", len(r.Siblings))
	if res, active := search.Match(family.Flatten(r), opts.Query); active {
		fmt.Fprintf(&sb, "| Matches for `%s` | %d |\n", strings.TrimSpace(opts.Query), len(res))
	}
	sb.WriteString("\n")

	slugCounts := make(map[string]int)
	gfHeading := "Grandfather: " + gf.Name
	gfSlug := uniqueSlug(createSlug(gfHeading), slugCounts)
	sibSlugs := make([]string, len(r.Siblings))
	for i, s := range r.Siblings {
		sibSlugs[i] = uniqueSlug(createSlug(s.Name), slugCounts)
	}

	sb.WriteString("## Table of Contents\n\n")
	fmt.Fprintf(&sb, "- [%s](#%s)\n", escapeMarkdown(gfHeading), gfSlug)
	for i, s := range r.Siblings {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", escapeMarkdown(s.Name), sibSlugs[i])
	}
	sb.WriteString("\n")

	if opts.Mermaid {
		sb.WriteString("## Diagram\n\n```mermaid\n")
		sb.WriteString(generateMermaid(r))
		sb.WriteString("```\n\n")
	}

	fmt.Fprintf(&sb, "## %s\n\n", highlightMarkdown("Grandfather: ", gf.Name, opts.Query))
	fmt.Fprintf(&sb, "### Wives & Children (%d children)\n\n", wives.ChildCount())
	writeWives(&sb, gf.Wives, opts.Query, 0)
	sb.WriteString("\n")

	if len(r.Siblings) > 0 {
		sb.WriteString("## Grandfather's Siblings\n\n")
	}
	for _, s := range r.Siblings {
		fmt.Fprintf(&sb, "### %s\n\n", highlightMarkdown("", s.Name, opts.Query))
		switch h := s.Household.(type) {
		case family.Spouse:
			fmt.Fprintf(&sb, "- %s\n", highlightMarkdown("Wife: ", h.Name, opts.Query))
			for _, c := range h.Children {
				fmt.Fprintf(&sb, "  - %s\n", highlightMarkdown("", c, opts.Query))
			}
		case family.Wives:
			fmt.Fprintf(&sb, "**Wives & Children (%d children)**\n\n", h.ChildCount())
			writeWives(&sb, h, opts.Query, 0)
		case family.Children:
			sb.WriteString("- Children:\n")
			for _, c := range h {
				fmt.Fprintf(&sb, "  - %s\n", highlightMarkdown("", c, opts.Query))
			}
		default:
			sb.WriteString("*No recorded household.*\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Future Generations\n\n*More family members will be added soon.*\n")
	return sb.String()
}

func writeWives(sb *strings.Builder, wives []family.Wife, query string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, w := range wives {
		fmt.Fprintf(sb, "%s- %s", indent, highlightMarkdown("", w.Name, query))
		if n := len(w.Children); n > 0 {
			fmt.Fprintf(sb, " (%d)", n)
		}
		sb.WriteString("\n")
		for _, c := range w.Children {
			fmt.Fprintf(sb, "%s  - %s\n", indent, highlightMarkdown("", c, query))
		}
	}
}

// highlightMarkdown escapes label+name and bolds the parts of name that
// match query.
func highlightMarkdown(label, name, query string) string {
	var sb strings.Builder
	sb.WriteString(escapeMarkdown(label))
	for _, s := range search.Highlight(name, query) {
		if s.Matched {
			sb.WriteString("**" + escapeMarkdown(s.Text) + "**")
		} else {
			sb.WriteString(escapeMarkdown(s.Text))
		}
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"|", `\|`,
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// generateMermaid draws the tree as a top-down flowchart. Node IDs are
// positional since names repeat.
func generateMermaid(r *family.Record) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	rows := family.Rows(r)
	// Last node seen per name within the current branch, so a child links to
	// the wife listed just above it even when names repeat elsewhere.
	lastByName := map[string]string{}
	branch := -1
	for _, row := range rows {
		if row.Branch != branch {
			branch = row.Branch
			clear(lastByName)
			if branch > 0 {
				lastByName[r.Grandfather.Name] = "p0"
			}
		}
		id := fmt.Sprintf("p%d", row.Position)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, sanitizeMermaidText(row.Name))
		parent := row.Parent
		if row.Relation == family.RelationSibling {
			parent = r.Grandfather.Name
		}
		if from, ok := lastByName[parent]; ok && parent != "" {
			arrow := "-->"
			if row.Relation == family.RelationSibling {
				arrow = "-.-"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, id)
		}
		lastByName[row.Name] = id
	}
	return sb.String()
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)
	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)
	return strings.TrimSpace(result)
}

func uniqueSlug(base string, counts map[string]int) string {
	if base == "" {
		base = "section"
	}
	if count, ok := counts[base]; ok {
		count++
		counts[base] = count
		return fmt.Sprintf("%s-%d", base, count)
	}
	counts[base] = 0
	return base
}

// createSlug creates a URL-friendly slug from heading text.
func createSlug(text string) string {
	slug := strings.ToLower(text)
	slug = slugNonAlphanumericRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SaveMarkdown writes the report to path.
func SaveMarkdown(r *family.Record, path string, opts MarkdownOptions) error {
	defer metrics.Timer(metrics.Export)()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, []byte(GenerateMarkdown(r, opts)), 0o644)
}
