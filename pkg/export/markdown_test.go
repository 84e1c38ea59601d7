package export

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/testutil"
)

func TestGenerateMarkdown_Structure(t *testing.T) {
	md := GenerateMarkdown(testutil.Small(), MarkdownOptions{Title: "Small"})

	for _, want := range []string{
		"# Small\n",
		"| **People** | 13 |",
		"| Siblings | 3 |",
		"- [Grandfather: Abdul Koya](#grandfather-abdul-koya)",
		"- [Siddique Koya](#siddique-koya)",
		"## Grandfather: Abdul Koya",
		"### Wives & Children (2 children)",
		"- Amina (2)\n  - Kunjan\n  - Ali\n- Fathima\n",
		"### Siddique Koya\n\n- Wife: Rukhiya\n  - Kunju\n",
		"**Wives & Children (1 children)**",
		"- Children:\n  - Ashraf\n",
		"## Future Generations",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "```mermaid") {
		t.Error("mermaid should be off by default")
	}
}

func TestGenerateMarkdown_HighlightsQuery(t *testing.T) {
	md := GenerateMarkdown(testutil.Small(), MarkdownOptions{Query: "KUNJ"})
	if got := strings.Count(md, "**Kunj**"); got != 3 {
		t.Errorf("expected 3 bolded matches, got %d", got)
	}
	if !strings.Contains(md, "| Matches for `KUNJ` | 3 |") {
		t.Error("summary should count matches")
	}
}

func TestGenerateMarkdown_EscapesNames(t *testing.T) {
	r := &family.Record{Grandfather: family.Grandfather{
		Name:  "A*B",
		Wives: []family.Wife{{Name: "C_D", Children: []string{"[x]"}}},
	}}
	md := GenerateMarkdown(r, MarkdownOptions{})
	for _, want := range []string{`A\*B`, `C\_D`, `\[x\]`} {
		if !strings.Contains(md, want) {
			t.Errorf("expected escaped %q", want)
		}
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := generateMermaid(testutil.Small())
	for _, want := range []string{
		"graph TD\n",
		`p0["Abdul Koya"]`,
		"p0 --> p1",  // Amina
		"p1 --> p2",  // Kunjan under Amina
		"p0 -.- p5",  // Siddique Koya
		"p5 --> p6",  // Rukhiya
		"p5 --> p7",  // Kunju under the sibling
		"p9 --> p10", // Kunjan under Sainaba
		"p11 --> p12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("mermaid missing %q\n%s", want, out)
		}
	}
}

func TestCreateSlug(t *testing.T) {
	counts := map[string]int{}
	if got := uniqueSlug(createSlug("Kunjan"), counts); got != "kunjan" {
		t.Errorf("got %q", got)
	}
	if got := uniqueSlug(createSlug("Kunjan"), counts); got != "kunjan-1" {
		t.Errorf("got %q", got)
	}
	if got := uniqueSlug(createSlug("()"), counts); got != "section" {
		t.Errorf("got %q", got)
	}
}
