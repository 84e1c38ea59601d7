package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/kinview/pkg/config"
	"github.com/vanderheijden86/kinview/pkg/family"
)

// WizardConfig holds the answers from the last wizard run.
type WizardConfig struct {
	Formats []Format `yaml:"formats"`
	Dir     string   `yaml:"dir"`
	Title   string   `yaml:"title"`
	Query   string   `yaml:"query,omitempty"`
}

// Options converts the answers into ExportAll options.
func (c WizardConfig) Options() Options {
	return Options{Dir: c.Dir, Title: c.Title, Query: c.Query, Formats: c.Formats}
}

// Wizard walks the user through an export with huh forms.
type Wizard struct {
	config *WizardConfig
	record *family.Record
}

// NewWizard creates a wizard for r, seeded from the user config.
func NewWizard(r *family.Record, cfg config.Config) *Wizard {
	return &Wizard{
		config: &WizardConfig{
			Formats: []Format{FormatSVG, FormatMarkdown},
			Dir:     cfg.Export.DefaultDir,
			Title:   cfg.Export.Title,
		},
		record: r,
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks for the export settings, writes the files and saves the answers
// for next time.
func (w *Wizard) Run(ctx context.Context) (Result, error) {
	fmt.Println("kv export")
	fmt.Println("─────────")

	if saved, err := LoadWizardConfig(); err == nil && saved != nil {
		use, err := w.offerSavedConfig(saved)
		if err != nil {
			return Result{}, err
		}
		if use {
			w.config = saved
			return w.export(ctx)
		}
	}

	if err := w.collectOptions(); err != nil {
		return Result{}, err
	}
	if err := SaveWizardConfig(w.config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save wizard answers: %v\n", err)
	}
	return w.export(ctx)
}

// Config returns the current answers.
func (w *Wizard) Config() *WizardConfig {
	return w.config
}

func (w *Wizard) export(ctx context.Context) (Result, error) {
	res, err := ExportAll(ctx, w.record, w.config.Options())
	if err != nil {
		return res, err
	}
	fmt.Printf("\nWrote %d files to %s\n", len(res.Files), w.config.Dir)
	for _, f := range res.Files {
		fmt.Printf("  %s\n", filepath.Base(f))
	}
	return res, nil
}

func (w *Wizard) offerSavedConfig(saved *WizardConfig) (bool, error) {
	names := make([]string, len(saved.Formats))
	for i, f := range saved.Formats {
		names[i] = string(f)
	}
	fmt.Println("Found previous export settings:")
	fmt.Printf("  Formats: %s\n", strings.Join(names, ", "))
	fmt.Printf("  Dir:     %s\n", saved.Dir)
	if saved.Query != "" {
		fmt.Printf("  Query:   %s\n", saved.Query)
	}
	fmt.Println("")

	useSaved := true
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Export again with these settings?").
				Value(&useSaved).
				Affirmative("Yes").
				Negative("No, reconfigure"),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return useSaved, nil
}

func (w *Wizard) collectOptions() error {
	options := make([]huh.Option[Format], 0, len(AllFormats))
	for _, f := range AllFormats {
		options = append(options, huh.NewOption(formatLabel(f), f))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[Format]().
				Title("Formats").
				Options(options...).
				Value(&w.config.Formats).
				Validate(func(v []Format) error {
					if len(v) == 0 {
						return errors.New("pick at least one format")
					}
					return nil
				}),
			huh.NewInput().
				Title("Output directory").
				Value(&w.config.Dir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Title").
				Value(&w.config.Title),
			huh.NewInput().
				Title("Highlight names matching").
				Description("Leave empty for no highlighting").
				Value(&w.config.Query),
		),
	)
	return form.Run()
}

func formatLabel(f Format) string {
	switch f {
	case FormatSVG:
		return "SVG snapshot"
	case FormatPNG:
		return "PNG snapshot"
	case FormatSQLite:
		return "SQLite database"
	case FormatMarkdown:
		return "Markdown report"
	case FormatYAML:
		return "YAML record"
	case FormatJSON:
		return "JSON record"
	default:
		return string(f)
	}
}

// WizardConfigPath returns where wizard answers are kept.
func WizardConfigPath() string {
	dir := config.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "export-wizard.yaml")
}

// LoadWizardConfig loads saved answers. It returns nil, nil when there are
// none.
func LoadWizardConfig() (*WizardConfig, error) {
	path := WizardConfigPath()
	if path == "" {
		return nil, fmt.Errorf("could not determine state path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cfg WizardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveWizardConfig saves answers for future runs.
func SaveWizardConfig(cfg *WizardConfig) error {
	path := WizardConfigPath()
	if path == "" {
		return fmt.Errorf("could not determine state path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
