// Package datasource resolves where kv's family record comes from and loads
// it: the record embedded in the binary, a YAML or JSON file, or a SQLite
// database written by `kv --export-sqlite`.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the kind of record source.
type SourceType string

const (
	// SourceTypeEmbedded is the record compiled into the binary.
	SourceTypeEmbedded SourceType = "embedded"
	// SourceTypeYAML is a YAML record file.
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeJSON is a JSON record file.
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a database produced by the SQLite exporter.
	SourceTypeSQLite SourceType = "sqlite"
)

// DataSource describes a record source.
type DataSource struct {
	Type SourceType `json:"type"`
	// Path is the absolute path to the file; empty for the embedded record.
	Path    string    `json:"path,omitempty"`
	ModTime time.Time `json:"mod_time,omitzero"`
	Size    int64     `json:"size,omitempty"`
	// PersonCount is set once the source has been loaded.
	PersonCount int `json:"person_count"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	if s.Type == SourceTypeEmbedded {
		return fmt.Sprintf("embedded record (%d people)", s.PersonCount)
	}
	return fmt.Sprintf("%s: %s (%d people, modified %s)",
		s.Type, s.Path, s.PersonCount, s.ModTime.Format(time.RFC3339))
}

// Watchable reports whether the source is a file that can change on disk.
func (s DataSource) Watchable() bool {
	return s.Type != SourceTypeEmbedded && s.Path != ""
}

// TypeFromPath maps a file extension to a source type.
func TypeFromPath(path string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SourceTypeYAML, nil
	case ".json":
		return SourceTypeJSON, nil
	case ".sqlite", ".db":
		return SourceTypeSQLite, nil
	default:
		return "", fmt.Errorf("unsupported record file %q (want .yaml, .yml, .json, .sqlite or .db)", filepath.Base(path))
	}
}

// Detect resolves path into a DataSource. An empty path selects the
// embedded record.
func Detect(path string) (DataSource, error) {
	if path == "" {
		return DataSource{Type: SourceTypeEmbedded}, nil
	}
	typ, err := TypeFromPath(path)
	if err != nil {
		return DataSource{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, fmt.Errorf("record file: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("record file %s is a directory", abs)
	}
	return DataSource{
		Type:    typ,
		Path:    abs,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}
