package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/kinview/pkg/config"
	"github.com/vanderheijden86/kinview/pkg/testutil"
)

func TestNewWizard_SeedsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.DefaultDir = "/tmp/kv"
	cfg.Export.Title = "Ours"

	w := NewWizard(testutil.Small(), cfg)
	got := w.Config()
	if got.Dir != "/tmp/kv" || got.Title != "Ours" {
		t.Errorf("wizard not seeded from config: %+v", got)
	}
	if len(got.Formats) == 0 {
		t.Error("wizard should preselect formats")
	}
}

func TestWizardConfig_SaveLoad(t *testing.T) {
	if !strings.HasPrefix(WizardConfigPath(), config.StateDir()) {
		t.Fatalf("wizard config %q outside state dir %q", WizardConfigPath(), config.StateDir())
	}

	in := &WizardConfig{
		Formats: []Format{FormatPNG, FormatSQLite},
		Dir:     filepath.Join(t.TempDir(), "out"),
		Title:   "T",
		Query:   "koya",
	}
	if err := SaveWizardConfig(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadWizardConfig()
	if err != nil || out == nil {
		t.Fatalf("load: %v %v", out, err)
	}
	testutil.AssertJSONEqual(t, in, out)

	opts := out.Options()
	if opts.Dir != in.Dir || opts.Query != "koya" || len(opts.Formats) != 2 {
		t.Errorf("options = %+v", opts)
	}
}

func TestFormatLabel(t *testing.T) {
	for _, f := range AllFormats {
		if formatLabel(f) == string(f) {
			t.Errorf("format %s has no label", f)
		}
	}
}
