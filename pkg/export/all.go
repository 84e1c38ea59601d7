package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/kinview/pkg/debug"
	"github.com/vanderheijden86/kinview/pkg/family"
)

// Format names one export output.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatSQLite   Format = "sqlite"
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// AllFormats lists every format in the order files are reported.
var AllFormats = []Format{FormatSVG, FormatPNG, FormatSQLite, FormatMarkdown, FormatYAML, FormatJSON}

// FileName is the file each format is written to inside an export dir.
func (f Format) FileName() string {
	return "family." + string(f)
}

// Options configures ExportAll.
type Options struct {
	Dir     string
	Title   string
	Query   string
	Formats []Format // empty means AllFormats
}

// Result lists the files written by ExportAll in AllFormats order.
type Result struct {
	Files []string
}

// ExportAll writes every requested format to opts.Dir concurrently. The
// first failure cancels the formats that have not started yet.
func ExportAll(ctx context.Context, r *family.Record, opts Options) (Result, error) {
	defer debug.LogEnterExit("export.ExportAll")()

	if r == nil {
		return Result{}, fmt.Errorf("no record to export")
	}
	if opts.Dir == "" {
		return Result{}, fmt.Errorf("output directory is required")
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = AllFormats
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	var (
		mu      sync.Mutex
		written = map[Format]string{}
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(opts.Dir, f.FileName())
			if err := WriteFormat(r, f, path, opts); err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			mu.Lock()
			written[f] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for _, f := range AllFormats {
		if p, ok := written[f]; ok && slices.Contains(formats, f) {
			res.Files = append(res.Files, p)
		}
	}
	return res, nil
}

// WriteFormat writes a single format to path. opts.Dir and opts.Formats are
// ignored.
func WriteFormat(r *family.Record, f Format, path string, opts Options) error {
	switch f {
	case FormatSVG, FormatPNG:
		return SaveSnapshot(SnapshotOptions{
			Path: path, Format: string(f), Title: opts.Title, Query: opts.Query, Record: r,
		})
	case FormatSQLite:
		return SaveSQLite(r, path, NewMeta(r, opts.Title, opts.Query))
	case FormatMarkdown:
		return SaveMarkdown(r, path, MarkdownOptions{Title: opts.Title, Query: opts.Query, Mermaid: true})
	case FormatYAML, FormatJSON:
		return saveRecord(r, path, family.Format(f))
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

func saveRecord(r *family.Record, path string, format family.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := family.Encode(file, r, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ParseFormat maps a user-facing name to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range AllFormats {
		if string(f) == s {
			return f, nil
		}
	}
	switch s {
	case "markdown":
		return FormatMarkdown, nil
	case "db", "sqlite3":
		return FormatSQLite, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}
