package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/kinview/pkg/family"
)

// AssertNames verifies got equals want element by element.
func AssertNames(t *testing.T, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("names mismatch:\n got %q\nwant %q", got, want)
	}
}

// AssertPersonCount verifies the record flattens to n names.
func AssertPersonCount(t *testing.T, r *family.Record, n int) {
	t.Helper()
	if got := len(family.Flatten(r)); got != n {
		t.Errorf("expected %d people, got %d", n, got)
	}
}

// AssertSameRecord verifies two records list the same people with the same
// relations in the same order.
func AssertSameRecord(t *testing.T, want, got *family.Record) {
	t.Helper()
	we, ge := family.Entries(want), family.Entries(got)
	if len(we) != len(ge) {
		t.Fatalf("expected %d entries, got %d", len(we), len(ge))
	}
	for i := range we {
		if we[i] != ge[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, we[i], ge[i])
		}
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// WriteRecordFile encodes r into dir/name, picking the format from the
// extension, and returns the path.
func WriteRecordFile(t *testing.T, dir, name string, r *family.Record) string {
	t.Helper()

	format, err := family.FormatFromPath(name)
	if err != nil {
		t.Fatalf("record file name: %v", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := family.Encode(f, r, format); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}
