package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/kinview/pkg/debug"
	"github.com/vanderheijden86/kinview/pkg/family"
)

// SQLiteReader reads a record back from a database written by the SQLite
// exporter.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens the database read-only.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRows reads every person row in traversal order.
func (r *SQLiteReader) LoadRows() ([]family.Row, error) {
	rows, err := r.db.Query(`
		SELECT position, name, relation, COALESCE(parent, ''), branch, COALESCE(household, '')
		FROM people
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	var out []family.Row
	for rows.Next() {
		var (
			row      family.Row
			relation string
		)
		if err := rows.Scan(&row.Position, &row.Name, &relation, &row.Parent, &row.Branch, &row.Household); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		row.Relation = family.Relation(relation)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating people: %w", err)
	}
	return out, nil
}

// LoadRecord rebuilds the record stored in the database.
func (r *SQLiteReader) LoadRecord() (*family.Record, error) {
	rows, err := r.LoadRows()
	if err != nil {
		return nil, err
	}
	debug.Log("sqlite %s: %d rows", r.path, len(rows))
	rec, err := family.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return rec, nil
}

// Meta returns the key/value pairs from the export_meta table.
func (r *SQLiteReader) Meta() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM export_meta`)
	if err != nil {
		return nil, fmt.Errorf("querying meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning meta: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}
