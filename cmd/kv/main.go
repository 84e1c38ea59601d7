package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/kinview/internal/datasource"
	"github.com/vanderheijden86/kinview/pkg/config"
	"github.com/vanderheijden86/kinview/pkg/debug"
	"github.com/vanderheijden86/kinview/pkg/export"
	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/ui"
	"github.com/vanderheijden86/kinview/pkg/version"
)

// options holds the parsed command line.
type options struct {
	help       bool
	version    bool
	debug      bool
	dataPath   string
	configPath string
	query      string
	title      string

	robotSearch  string
	robotNames   bool
	robotRecord  bool
	robotMetrics bool
	robotDiff    string
	// robotSearchSet distinguishes --robot-search "" from the flag being absent.
	robotSearchSet bool

	exportSVG    string
	exportPNG    string
	exportSQLite string
	exportMD     string
	exportAll    string
	exportWizard bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*flag.FlagSet, options, error) {
	var o options
	fs := flag.NewFlagSet("kv", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&o.help, "help", false, "Show help")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.BoolVar(&o.debug, "debug", false, "Write debug logs to stderr (same as KV_DEBUG=1)")
	fs.StringVar(&o.dataPath, "data", "", "Record file to show (.yaml, .yml, .json, .sqlite, .db); default is the built-in record")
	fs.StringVar(&o.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/kv/config.yaml)")
	fs.StringVar(&o.query, "query", "", "Start with this search query (also highlights exports)")
	fs.StringVar(&o.title, "title", "", "Title for exports (default from config)")

	fs.StringVar(&o.robotSearch, "robot-search", "", "Print names matching the query as JSON and exit")
	fs.BoolVar(&o.robotNames, "robot-names", false, "Print every name in flatten order as JSON and exit")
	fs.BoolVar(&o.robotRecord, "robot-record", false, "Print the loaded record as JSON and exit")
	fs.BoolVar(&o.robotMetrics, "robot-metrics", false, "Print timing metrics as JSON and exit")
	fs.StringVar(&o.robotDiff, "robot-diff", "", "Compare the loaded record with another record file and print JSON")

	fs.StringVar(&o.exportSVG, "export-svg", "", "Write an SVG snapshot of the tree to this path")
	fs.StringVar(&o.exportPNG, "export-png", "", "Write a PNG snapshot of the tree to this path")
	fs.StringVar(&o.exportSQLite, "export-sqlite", "", "Write the record to a SQLite database at this path")
	fs.StringVar(&o.exportMD, "export-md", "", "Write a Markdown report to this path")
	fs.StringVar(&o.exportAll, "export-all", "", "Write every export format into this directory")
	fs.BoolVar(&o.exportWizard, "export-wizard", false, "Choose export formats interactively")

	if err := fs.Parse(args); err != nil {
		return fs, o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "robot-search" {
			o.robotSearchSet = true
		}
	})
	if fs.NArg() > 0 {
		return fs, o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return fs, o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.help {
		fmt.Fprintln(stdout, "Usage: kv [options]")
		fmt.Fprintln(stdout, "\nA terminal family tree explorer.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if o.version {
		fmt.Fprintf(stdout, "kv %s\n", version.Version)
		return 0
	}
	if o.debug {
		debug.SetEnabled(true)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if o.dataPath != "" {
		cfg.DataPath = o.dataPath
	}
	if o.title != "" {
		cfg.Export.Title = o.title
	}

	r, src, err := datasource.Load(cfg.DataPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading record: %v\n", err)
		return 1
	}
	debug.Log("loaded %s", src)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if handled, code := runRobot(o, r, src, stdout, stderr); handled {
		return code
	}
	if handled, code := runExports(ctx, o, cfg, r, stdout, stderr); handled {
		return code
	}

	m := ui.NewModel(r, src, cfg)
	if o.query != "" {
		m = m.WithQuery(o.query)
	}
	defer m.Stop()

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(stderr, "Error running kv: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// runRobot handles the --robot-* flags. handled is false when none was given.
func runRobot(o options, r *family.Record, src datasource.DataSource, stdout, stderr io.Writer) (handled bool, code int) {
	var err error
	switch {
	case o.robotSearchSet:
		err = writeRobotJSON(stdout, buildRobotSearch(r, src, o.robotSearch))
	case o.robotNames:
		err = writeRobotJSON(stdout, buildRobotNames(r, src))
	case o.robotRecord:
		err = family.Encode(stdout, r, family.FormatJSON)
	case o.robotDiff != "":
		var other *family.Record
		other, _, err = datasource.Load(o.robotDiff)
		if err == nil {
			err = writeRobotJSON(stdout, buildRobotDiff(r, other, o.robotDiff))
		}
	case o.robotMetrics:
		err = writeRobotJSON(stdout, buildRobotMetrics(r))
	default:
		return false, 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return true, 1
	}
	return true, 0
}

// runExports handles the --export-* flags. Several single-file exports may be
// combined in one run.
func runExports(ctx context.Context, o options, cfg config.Config, r *family.Record, stdout, stderr io.Writer) (handled bool, code int) {
	opts := export.Options{Title: cfg.Export.Title, Query: o.query}

	if o.exportWizard {
		if _, err := export.NewWizard(r, cfg).Run(ctx); err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return true, 1
		}
		return true, 0
	}

	if o.exportAll != "" {
		opts.Dir = o.exportAll
		res, err := export.ExportAll(ctx, r, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return true, 1
		}
		fmt.Fprintf(stdout, "Wrote %d files to %s\n", len(res.Files), o.exportAll)
		for _, f := range res.Files {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
		return true, 0
	}

	single := []struct {
		format export.Format
		path   string
	}{
		{export.FormatSVG, o.exportSVG},
		{export.FormatPNG, o.exportPNG},
		{export.FormatSQLite, o.exportSQLite},
		{export.FormatMarkdown, o.exportMD},
	}
	for _, s := range single {
		if s.path == "" {
			continue
		}
		handled = true
		if err := export.WriteFormat(r, s.format, s.path, opts); err != nil {
			fmt.Fprintf(stderr, "Export %s failed: %v\n", s.format, err)
			return true, 1
		}
		fmt.Fprintf(stdout, "Wrote %s\n", s.path)
	}
	return handled, 0
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set KV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("KV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
