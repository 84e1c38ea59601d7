package export

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is stored in export_meta so readers can reject files they
// do not understand.
const SchemaVersion = 1

// CreateSchema creates the tables and indexes of a family database.
func CreateSchema(db *sql.DB) error {
	if err := createPeopleTable(db); err != nil {
		return fmt.Errorf("create people table: %w", err)
	}
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}

// createPeopleTable creates the one table holding the record. Position is the
// traversal order; branch and household let a reader rebuild the tree.
func createPeopleTable(db *sql.DB) error {
	peopleSQL := `
		CREATE TABLE IF NOT EXISTS people (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			relation TEXT NOT NULL,
			parent TEXT,
			branch INTEGER NOT NULL DEFAULT 0,
			household TEXT
		)
	`
	_, err := db.Exec(peopleSQL)
	return err
}

func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_people_name ON people(name COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_people_branch ON people(branch, position)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	_, err := db.Exec(metaSQL)
	return err
}
