// Package export writes the family record to files: SVG and PNG snapshots,
// a SQLite database, Markdown, and the record formats themselves.
package export

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
	"github.com/vanderheijden86/kinview/pkg/version"
)

// NewMeta fills in the metadata for an export of r.
func NewMeta(r *family.Record, title, query string) ExportMeta {
	names := family.Flatten(r)
	return ExportMeta{
		Version:     version.Version,
		GeneratedAt: time.Now().UTC(),
		Title:       title,
		PersonCount: len(names),
		DataHash:    DataHash(names),
		Query:       query,
	}
}

// DataHash returns a short stable digest of names in order.
func DataHash(names []string) string {
	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// SaveSQLite writes r to a fresh SQLite database at path, replacing any
// existing file.
func SaveSQLite(r *family.Record, path string, meta ExportMeta) error {
	defer metrics.Timer(metrics.Export)()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := insertPeople(db, family.Rows(r)); err != nil {
		return fmt.Errorf("insert people: %w", err)
	}
	if err := insertMeta(db, meta); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

func insertPeople(db *sql.DB, rows []family.Row) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO people (position, name, relation, parent, branch, household)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(
			row.Position,
			row.Name,
			string(row.Relation),
			nullable(row.Parent),
			row.Branch,
			nullable(row.Household),
		); err != nil {
			return fmt.Errorf("insert %s: %w", row.Name, err)
		}
	}
	return tx.Commit()
}

func insertMeta(db *sql.DB, meta ExportMeta) error {
	pairs := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"version":        meta.Version,
		"generated_at":   meta.GeneratedAt.Format(time.RFC3339),
		"title":          meta.Title,
		"person_count":   strconv.Itoa(meta.PersonCount),
		"data_hash":      meta.DataHash,
		"query":          strings.TrimSpace(meta.Query),
	}
	for k, v := range pairs {
		if _, err := db.Exec(`INSERT INTO export_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
