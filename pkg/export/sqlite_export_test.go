package export

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/testutil"
)

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveSQLite_WritesPeopleInOrder(t *testing.T) {
	r := testutil.Small()
	path := filepath.Join(t.TempDir(), "out", "family.sqlite")
	if err := SaveSQLite(r, path, NewMeta(r, "Small", "")); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}

	db := openTestDB(t, path)
	rows, err := db.Query(`SELECT name, relation, COALESCE(parent, ''), branch FROM people ORDER BY position`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	want := family.Rows(r)
	i := 0
	for rows.Next() {
		var name, relation, parent string
		var branch int
		if err := rows.Scan(&name, &relation, &parent, &branch); err != nil {
			t.Fatal(err)
		}
		if i >= len(want) {
			t.Fatalf("more rows than people")
		}
		w := want[i]
		if name != w.Name || relation != string(w.Relation) || parent != w.Parent || branch != w.Branch {
			t.Errorf("row %d = %s/%s/%s/%d, want %+v", i, name, relation, parent, branch, w)
		}
		i++
	}
	if i != len(want) {
		t.Errorf("expected %d rows, got %d", len(want), i)
	}
}

func TestSaveSQLite_Meta(t *testing.T) {
	r := family.MustDefault()
	path := filepath.Join(t.TempDir(), "family.db")
	meta := NewMeta(r, "Family", " kunjan ")
	if err := SaveSQLite(r, path, meta); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}

	db := openTestDB(t, path)
	got := map[string]string{}
	rows, err := db.Query(`SELECT key, value FROM export_meta`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			t.Fatal(err)
		}
		got[k] = v
	}

	if got["person_count"] != "46" {
		t.Errorf("person_count = %q", got["person_count"])
	}
	if got["schema_version"] != "1" || got["title"] != "Family" || got["query"] != "kunjan" {
		t.Errorf("unexpected meta: %v", got)
	}
	if got["data_hash"] != meta.DataHash || len(meta.DataHash) != 16 {
		t.Errorf("data_hash = %q, want %q", got["data_hash"], meta.DataHash)
	}
}

func TestSaveSQLite_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.sqlite")
	big := family.MustDefault()
	if err := SaveSQLite(big, path, NewMeta(big, "", "")); err != nil {
		t.Fatal(err)
	}
	small := testutil.Small()
	if err := SaveSQLite(small, path, NewMeta(small, "", "")); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := openTestDB(t, path).QueryRow(`SELECT COUNT(*) FROM people`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 13 {
		t.Errorf("expected 13 people after overwrite, got %d", n)
	}
}

func TestDataHash(t *testing.T) {
	a := DataHash([]string{"ab", "c"})
	b := DataHash([]string{"a", "bc"})
	if a == b {
		t.Error("hash should separate names")
	}
	if a != DataHash([]string{"ab", "c"}) {
		t.Error("hash should be stable")
	}
}
