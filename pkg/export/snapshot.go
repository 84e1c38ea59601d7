package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
	"github.com/vanderheijden86/kinview/pkg/search"
)

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive)
	Title  string
	// Query highlights matching names, as the search box does.
	Query  string
	Record *family.Record
}

var (
	colorBackdrop = color.RGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}
	colorHeaderBG = color.RGBA{R: 0x34, G: 0x37, B: 0x46, A: 0xff}
	colorCard     = color.RGBA{R: 0x44, G: 0x47, B: 0x5a, A: 0xff}
	colorAccent   = color.RGBA{R: 0x62, G: 0x48, B: 0x9e, A: 0xff}
	colorStroke   = color.RGBA{R: 0x62, G: 0x72, B: 0xa4, A: 0xff}
	colorText     = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf2, A: 0xff}
	colorSubtle   = color.RGBA{R: 0xbf, G: 0xbf, B: 0xbf, A: 0xff}
	colorMatchBG  = color.RGBA{R: 0xf1, G: 0xfa, B: 0x8c, A: 0xff}
	colorMatchFG  = color.RGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}
)

const (
	snapColumns   = 3
	snapCardW     = 300.0
	snapGap       = 20.0
	snapPad       = 24.0
	snapHeaderH   = 96.0
	snapLineH     = 18.0
	snapCardHead  = 50.0
	snapCharW     = 7.0 // basicfont.Face7x13 advance
	snapIndentW   = 14.0
	snapMaxLineCh = 38
)

type snapshotLayout struct {
	Width, Height int
	Cards         []card
	Title         string
	Summary       string
	Query         string
}

// SaveSnapshot renders the record as an SVG or PNG image.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Export)()

	if opts.Record == nil {
		return fmt.Errorf("no record to export")
	}
	format, path, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Path = path

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)
	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		if err := renderSVG(f, layout); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return renderPNG(opts.Path, layout)
	}
}

func resolveFormat(format, path string) (string, string, error) {
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case "":
			format = "svg"
			path += ".svg"
		default:
			format = "svg"
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	return format, path, nil
}

// buildSnapshotLayout places cards in columns, each card going to the
// shortest column so far.
func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	cards := buildCards(opts.Record)
	colH := make([]float64, snapColumns)
	top := snapHeaderH + snapPad

	for i := range cards {
		col := 0
		for j := 1; j < snapColumns; j++ {
			if colH[j] < colH[col] {
				col = j
			}
		}
		c := &cards[i]
		c.W = snapCardW
		c.H = snapCardHead + float64(len(c.Lines))*snapLineH + 10
		c.X = snapPad + float64(col)*(snapCardW+snapGap)
		c.Y = top + colH[col]
		colH[col] += c.H + snapGap
	}

	maxH := 0.0
	for _, h := range colH {
		maxH = max(maxH, h)
	}

	title := opts.Title
	if title == "" {
		title = "Family Tree Explorer"
	}
	names := family.Flatten(opts.Record)
	summary := fmt.Sprintf("people: %d  siblings: %d", len(names), len(opts.Record.Siblings))
	if res, active := search.Match(names, opts.Query); active {
		summary += fmt.Sprintf("  matches for %q: %d", strings.TrimSpace(opts.Query), len(res))
	}

	return snapshotLayout{
		Width:   int(2*snapPad + snapColumns*snapCardW + (snapColumns-1)*snapGap),
		Height:  int(top + maxH + snapPad),
		Cards:   cards,
		Title:   title,
		Summary: summary,
		Query:   opts.Query,
	}
}

// --- SVG -------------------------------------------------------------------

func renderSVG(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(snapHeaderH-16), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 48, layout.Title, fmt.Sprintf("fill:%s;font-size:18px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 72, layout.Summary, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, c := range layout.Cards {
		x, y := int(c.X), int(c.Y)
		fill := colorCard
		if c.Accent {
			fill = colorAccent
		}
		canvas.Roundrect(x, y, int(c.W), int(c.H), 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(fill), css(colorStroke)))
		drawSegmentsSVG(canvas, x+10, y+22, "", c.Name, layout.Query, 14, true)
		canvas.Text(x+10, y+40, c.Subtitle, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
		for i, line := range c.Lines {
			lx := x + 10 + int(float64(line.Indent)*snapIndentW)
			ly := y + int(snapCardHead) + i*int(snapLineH) + 4
			drawSegmentsSVG(canvas, lx, ly, line.Label, line.Name, layout.Query, 12, false)
		}
	}

	canvas.End()
	return nil
}

// drawSegmentsSVG writes label+name as one text element, with matched
// parts of name in highlighted tspans.
func drawSegmentsSVG(canvas *svg.SVG, x, y int, label, name, query string, size int, bold bool) {
	weight := ""
	if bold {
		weight = ";font-weight:bold"
	}
	base := fmt.Sprintf("fill:%s;font-size:%dpx;font-family:monospace%s", css(colorText), size, weight)

	segs := search.Highlight(truncate(name, snapMaxLineCh-len([]rune(label))), query)
	if !search.HasMatch(segs) {
		canvas.Text(x, y, label+search.Join(segs), base)
		return
	}

	canvas.Textspan(x, y, label, base)
	for _, s := range segs {
		if s.Matched {
			canvas.Span(s.Text, fmt.Sprintf("fill:%s;font-weight:bold;text-decoration:underline", css(colorMatchBG)))
		} else {
			canvas.Span(s.Text)
		}
	}
	canvas.TextEnd()
}

// --- PNG -------------------------------------------------------------------

func renderPNG(path string, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, snapHeaderH-16, 10)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layout.Summary, 32, 68, 0, 0.5)

	for _, c := range layout.Cards {
		drawCard(dc, c, layout.Query)
	}
	return dc.SavePNG(path)
}

func drawCard(dc *gg.Context, c card, query string) {
	fill := colorCard
	if c.Accent {
		fill = colorAccent
	}
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, 8)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.2)
	dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, 8)
	dc.Stroke()

	drawSegmentsPNG(dc, c.X+10, c.Y+18, "", c.Name, query)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(c.Subtitle, c.X+10, c.Y+36, 0, 0.5)

	for i, line := range c.Lines {
		x := c.X + 10 + float64(line.Indent)*snapIndentW
		y := c.Y + snapCardHead + float64(i)*snapLineH
		drawSegmentsPNG(dc, x, y, line.Label, line.Name, query)
	}
}

// drawSegmentsPNG draws label+name left to right, boxing matched parts.
// The basic font is fixed width, so positions are computed from rune counts.
func drawSegmentsPNG(dc *gg.Context, x, y float64, label, name, query string) {
	dc.SetColor(colorText)
	if label != "" {
		dc.DrawStringAnchored(label, x, y, 0, 0.5)
		x += float64(len([]rune(label))) * snapCharW
	}
	for _, s := range search.Highlight(truncate(name, snapMaxLineCh-len([]rune(label))), query) {
		w := float64(len([]rune(s.Text))) * snapCharW
		if s.Matched {
			dc.SetColor(colorMatchBG)
			dc.DrawRectangle(x-1, y-8, w+2, 15)
			dc.Fill()
			dc.SetColor(colorMatchFG)
		} else {
			dc.SetColor(colorText)
		}
		dc.DrawStringAnchored(s.Text, x, y, 0, 0.5)
		x += w
	}
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
