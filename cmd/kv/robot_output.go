package main

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/kinview/internal/datasource"
	"github.com/vanderheijden86/kinview/pkg/export"
	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
	"github.com/vanderheijden86/kinview/pkg/search"
	"github.com/vanderheijden86/kinview/pkg/view"
)

type robotSearchResult struct {
	Name     string           `json:"name"`
	Relation family.Relation  `json:"relation"`
	Parent   string           `json:"parent,omitempty"`
	Segments []search.Segment `json:"segments"`
}

type robotSearchOutput struct {
	GeneratedAt string                `json:"generated_at"`
	DataHash    string                `json:"data_hash"`
	Source      datasource.DataSource `json:"source"`
	Query       string                `json:"query"`
	// Active is false for a blank query; Results is then null.
	Active  bool                `json:"active"`
	Count   int                 `json:"count"`
	Results []robotSearchResult `json:"results"`
}

type robotNamesOutput struct {
	GeneratedAt string                `json:"generated_at"`
	DataHash    string                `json:"data_hash"`
	Source      datasource.DataSource `json:"source"`
	Count       int                   `json:"count"`
	Names       []string              `json:"names"`
}

type robotDiffOutput struct {
	GeneratedAt string                `json:"generated_at"`
	Other       string                `json:"other"`
	Changed     bool                  `json:"changed"`
	Summary     string                `json:"summary"`
	Diff        datasource.RecordDiff `json:"diff"`
}

type robotMetricsOutput struct {
	GeneratedAt string                `json:"generated_at"`
	Enabled     bool                  `json:"enabled"`
	Timings     []metrics.TimingStats `json:"timings"`
}

func writeRobotJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func generatedAt() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func buildRobotSearch(r *family.Record, src datasource.DataSource, query string) robotSearchOutput {
	s := view.New(r)
	s.SetQuery(query)

	out := robotSearchOutput{
		GeneratedAt: generatedAt(),
		DataHash:    export.DataHash(s.Names()),
		Source:      src,
		Query:       query,
	}
	entries, active := s.ResultEntries()
	out.Active = active
	if !active {
		return out
	}
	out.Count = len(entries)
	out.Results = make([]robotSearchResult, 0, len(entries))
	for _, e := range entries {
		out.Results = append(out.Results, robotSearchResult{
			Name:     e.Name,
			Relation: e.Relation,
			Parent:   e.Parent,
			Segments: s.Highlight(e.Name),
		})
	}
	return out
}

func buildRobotNames(r *family.Record, src datasource.DataSource) robotNamesOutput {
	names := family.Flatten(r)
	return robotNamesOutput{
		GeneratedAt: generatedAt(),
		DataHash:    export.DataHash(names),
		Source:      src,
		Count:       len(names),
		Names:       names,
	}
}

func buildRobotDiff(r, other *family.Record, otherPath string) robotDiffOutput {
	d := datasource.Diff(r, other)
	return robotDiffOutput{
		GeneratedAt: generatedAt(),
		Other:       otherPath,
		Changed:     d.Changed(),
		Summary:     d.Summary(),
		Diff:        d,
	}
}

// buildRobotMetrics runs one search pass over r so every hot path has a
// sample, then reports the collected timings.
func buildRobotMetrics(r *family.Record) robotMetricsOutput {
	s := view.New(r)
	for _, q := range []string{"a", "ko", "kunjan"} {
		s.SetQuery(q)
		for _, n := range s.Names() {
			s.Highlight(n)
		}
	}
	return robotMetricsOutput{
		GeneratedAt: generatedAt(),
		Enabled:     metrics.Enabled(),
		Timings:     metrics.AllTimingStats(),
	}
}
