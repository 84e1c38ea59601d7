package search

import (
	"strings"

	"github.com/vanderheijden86/kinview/pkg/metrics"
)

// Segment is one piece of a highlighted name.
type Segment struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

// Highlight splits text into alternating unmatched and matched segments.
// Occurrences of query are found left to right without overlap and compared
// without regard to case. Empty unmatched segments are dropped, except that an
// empty text yields a single empty segment. Joining the segment texts always
// gives back text.
func Highlight(text, query string) []Segment {
	if IsBlank(query) {
		return []Segment{{Text: text}}
	}
	defer metrics.Timer(metrics.Highlight)()

	var segs []Segment
	pos := 0
	for {
		start, end, ok := indexFold(text, query, pos)
		if !ok {
			break
		}
		if start > pos {
			segs = append(segs, Segment{Text: text[pos:start]})
		}
		segs = append(segs, Segment{Text: text[start:end], Matched: true})
		pos = end
	}
	if pos < len(text) || len(segs) == 0 {
		segs = append(segs, Segment{Text: text[pos:]})
	}
	return segs
}

// Join concatenates the segment texts.
func Join(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// HasMatch reports whether any segment is a match.
func HasMatch(segs []Segment) bool {
	for _, s := range segs {
		if s.Matched {
			return true
		}
	}
	return false
}
