package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/testutil"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "kv-cmd-test")
	if err == nil {
		os.Setenv("XDG_CONFIG_HOME", dir)
		os.Setenv("XDG_STATE_HOME", dir)
	}
	code := m.Run()
	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

func runKV(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestVersionAndHelp(t *testing.T) {
	out, _, code := runKV(t, "--version")
	if code != 0 || !strings.HasPrefix(out, "kv v") {
		t.Errorf("version: code %d, out %q", code, out)
	}

	out, _, code = runKV(t, "--help")
	if code != 0 || !strings.Contains(out, "-robot-search") {
		t.Errorf("help should list flags, code %d:\n%s", code, out)
	}
}

func TestBadFlagsExitTwo(t *testing.T) {
	if _, _, code := runKV(t, "--no-such-flag"); code != 2 {
		t.Errorf("unknown flag: code %d", code)
	}
	if _, stderr, code := runKV(t, "stray"); code != 2 || !strings.Contains(stderr, "unexpected arguments") {
		t.Errorf("positional args: code %d, stderr %q", code, stderr)
	}
}

func TestMissingDataFileFails(t *testing.T) {
	_, stderr, code := runKV(t, "--data", filepath.Join(t.TempDir(), "nope.yaml"), "--robot-names")
	if code != 1 || !strings.Contains(stderr, "Error loading record") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestRobotSearch(t *testing.T) {
	out, stderr, code := runKV(t, "--robot-search", "kunjan")
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	var got robotSearchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !got.Active || got.Count != 3 || len(got.Results) != 3 {
		t.Fatalf("expected 3 active results, got %+v", got)
	}
	for _, r := range got.Results {
		if r.Name != "Kunjan" {
			t.Errorf("unexpected match %q", r.Name)
		}
		if len(r.Segments) != 1 || !r.Segments[0].Matched {
			t.Errorf("%s: segments %+v", r.Name, r.Segments)
		}
	}
	if got.Source.PersonCount != 46 {
		t.Errorf("person count %d", got.Source.PersonCount)
	}
	if len(got.DataHash) != 16 {
		t.Errorf("data hash %q", got.DataHash)
	}
}

func TestRobotSearchBlankQuery(t *testing.T) {
	out, _, code := runKV(t, "--robot-search", "  ")
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	if !strings.Contains(out, `"active": false`) || !strings.Contains(out, `"results": null`) {
		t.Errorf("blank query should report no active filter:\n%s", out)
	}
}

func TestRobotNamesAndRecord(t *testing.T) {
	out, _, code := runKV(t, "--robot-names")
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	var names robotNamesOutput
	if err := json.Unmarshal([]byte(out), &names); err != nil {
		t.Fatal(err)
	}
	if names.Count != 46 || names.Names[0] != "Ahmed Kutty (Narimukkukkil Ayi Mutti)" {
		t.Errorf("unexpected names output: count %d first %q", names.Count, names.Names[0])
	}

	out, _, code = runKV(t, "--robot-record")
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	r, err := family.Parse([]byte(out), family.FormatJSON)
	if err != nil {
		t.Fatalf("robot record is not a valid record: %v", err)
	}
	testutil.AssertSameRecord(t, r, family.MustDefault())
}

func TestRobotDiff(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteRecordFile(t, dir, "a.yaml", testutil.Small())
	next := testutil.Small()
	next.Siblings = next.Siblings[:2]
	b := testutil.WriteRecordFile(t, dir, "b.json", next)

	out, stderr, code := runKV(t, "--data", a, "--robot-diff", b)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	var got robotDiffOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Changed || got.Summary != "-2 (11 people)" {
		t.Errorf("unexpected diff %+v", got)
	}
}

func TestRobotMetrics(t *testing.T) {
	out, _, code := runKV(t, "--robot-metrics")
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	var got robotMetricsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Enabled && len(got.Timings) == 0 {
		t.Error("expected timings when metrics are enabled")
	}
}

func TestSingleExports(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "family.md")
	db := filepath.Join(dir, "family.sqlite")
	svgPath := filepath.Join(dir, "tree.svg")

	out, stderr, code := runKV(t,
		"--export-md", md,
		"--export-sqlite", db,
		"--export-svg", svgPath,
		"--query", "kunjan",
		"--title", "Test Family",
	)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	for _, p := range []string{md, db, svgPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
		if !strings.Contains(out, p) {
			t.Errorf("output should mention %s", p)
		}
	}
	data, err := os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Test Family") {
		t.Error("title flag not applied to markdown")
	}
}

func TestExportAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, stderr, code := runKV(t, "--export-all", dir)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	if !strings.Contains(out, "Wrote 6 files") {
		t.Errorf("unexpected output:\n%s", out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Errorf("expected 6 files, got %d", len(entries))
	}
}

func TestConfigDataPath(t *testing.T) {
	dir := t.TempDir()
	data := testutil.WriteRecordFile(t, dir, "family.yaml", testutil.Small())
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("data_path: "+data+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, code := runKV(t, "--config", cfgPath, "--robot-names")
	if code != 0 {
		t.Fatalf("code %d", code)
	}
	if !strings.Contains(out, `"count": 13`) {
		t.Errorf("config data_path ignored:\n%s", out)
	}

	// --data wins over the config file.
	out, _, _ = runKV(t, "--config", cfgPath, "--data", "", "--robot-names")
	if !strings.Contains(out, `"count": 13`) {
		t.Errorf("empty --data should keep the configured path:\n%s", out)
	}
}

func TestInvalidConfigIsAWarning(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("ui: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := runKV(t, "--config", cfgPath, "--robot-names")
	if code != 0 || !strings.Contains(stderr, "Warning") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}
