//go:build ignore

// generate_testdata.go creates synthetic family records for trying kv on
// larger data and for benchmarking search.
// Usage: go run scripts/generate_testdata.go
//
// Creates, for each size, .yaml, .json and .sqlite files under
// testdata/records/:
//
//	small   (4 siblings)
//	medium  (40 siblings)
//	large   (400 siblings)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/kinview/pkg/export"
	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/testutil"
)

type datasetSpec struct {
	name     string
	siblings int
	desc     string
}

var datasets = []datasetSpec{
	{"small", 4, "Small synthetic family"},
	{"medium", 40, "Medium synthetic family"},
	{"large", 400, "Large synthetic family"},
}

func main() {
	outputDir := filepath.Join("testdata", "records")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.siblings) // Reproducible per size
		cfg.Siblings = ds.siblings

		r := testutil.New(cfg).Record()
		people := len(family.Flatten(r))
		fmt.Printf("Generating %s dataset (%d people)...\n", ds.name, people)

		for _, format := range []family.Format{family.FormatYAML, family.FormatJSON} {
			path := filepath.Join(outputDir, ds.name+"."+string(format))
			if err := writeRecord(r, path, format); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("  Written %s\n", path)
		}

		dbPath := filepath.Join(outputDir, ds.name+".sqlite")
		if err := export.SaveSQLite(r, dbPath, export.NewMeta(r, ds.desc, "")); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dbPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s\n", dbPath)
	}

	fmt.Println("\nDone! Records created in", outputDir)
}

func writeRecord(r *family.Record, path string, format family.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := family.Encode(f, r, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
