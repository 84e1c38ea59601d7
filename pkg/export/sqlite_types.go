package export

import "time"

// ExportMeta describes one export. It is written to export_meta in SQLite
// databases and as front matter in Markdown.
type ExportMeta struct {
	Version     string    `json:"version" yaml:"version"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	PersonCount int       `json:"person_count" yaml:"person_count"`
	// DataHash is a short digest of the flattened names, used to tell
	// exports of different records apart.
	DataHash string `json:"data_hash" yaml:"data_hash"`
	// Query is the search the export was highlighted with, if any.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
}
