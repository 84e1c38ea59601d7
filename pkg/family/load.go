package family

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

//go:embed data/family.yaml
var embeddedRecord []byte

// Format identifies the encoding of a record file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Validation errors returned by Parse.
var (
	ErrNoGrandfather      = errors.New("record has no grandfather")
	ErrNoWives            = errors.New("grandfather has no wives")
	ErrGrandfatherShape   = errors.New("grandfather may only list wives")
	ErrAmbiguousHousehold = errors.New("sibling lists more than one household shape")
	ErrUnsupportedFormat  = errors.New("unsupported record format")
)

// rawRecord mirrors the on-disk shape, where siblings carry optional wife,
// wives and children fields side by side.
type rawRecord struct {
	Grandfather *rawPerson  `yaml:"grandfather" json:"grandfather"`
	Siblings    []rawPerson `yaml:"siblings_of_grandfather,omitempty" json:"siblings_of_grandfather,omitempty"`
}

type rawPerson struct {
	Name     string    `yaml:"name" json:"name"`
	Wife     string    `yaml:"wife,omitempty" json:"wife,omitempty"`
	Wives    []rawWife `yaml:"wives,omitempty" json:"wives,omitempty"`
	Children []string  `yaml:"children,omitempty" json:"children,omitempty"`
}

type rawWife struct {
	Name     string   `yaml:"name" json:"name"`
	Children []string `yaml:"children,omitempty" json:"children,omitempty"`
}

var (
	defaultOnce   sync.Once
	defaultRecord *Record
	defaultErr    error
)

// Default returns the record embedded in the binary. It is decoded once and
// shared; callers must not modify it.
func Default() (*Record, error) {
	defaultOnce.Do(func() {
		defaultRecord, defaultErr = Parse(embeddedRecord, FormatYAML)
	})
	return defaultRecord, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded record as
// a programming error.
func MustDefault() *Record {
	r, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded family record: %v", err))
	}
	return r
}

// FormatFromPath infers the record format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Parse decodes and validates a record.
func Parse(data []byte, format Format) (*Record, error) {
	var raw rawRecord
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing yaml record: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing json record: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return raw.toRecord()
}

// ParseFile reads a YAML or JSON record, picking the format from the file
// extension.
func ParseFile(path string) (*Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	r, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func (raw rawRecord) toRecord() (*Record, error) {
	if raw.Grandfather == nil {
		return nil, ErrNoGrandfather
	}
	gf := raw.Grandfather
	if gf.Wife != "" || len(gf.Children) > 0 {
		return nil, ErrGrandfatherShape
	}
	if len(gf.Wives) == 0 {
		return nil, ErrNoWives
	}

	r := &Record{
		Grandfather: Grandfather{
			Name:  gf.Name,
			Wives: convertWives(gf.Wives),
		},
		Siblings: make([]Sibling, 0, len(raw.Siblings)),
	}

	for i, s := range raw.Siblings {
		h, err := s.household()
		if err != nil {
			return nil, fmt.Errorf("sibling %d (%s): %w", i, s.Name, err)
		}
		r.Siblings = append(r.Siblings, Sibling{Name: s.Name, Household: h})
	}
	return r, nil
}

// household picks the variant for a raw sibling. A single wife may carry
// children; a wives list may not be combined with either.
func (p rawPerson) household() (Household, error) {
	switch {
	case len(p.Wives) > 0 && (p.Wife != "" || len(p.Children) > 0):
		return nil, ErrAmbiguousHousehold
	case len(p.Wives) > 0:
		return Wives(convertWives(p.Wives)), nil
	case p.Wife != "":
		return Spouse{Name: p.Wife, Children: cloneStrings(p.Children)}, nil
	case len(p.Children) > 0:
		return Children(cloneStrings(p.Children)), nil
	default:
		return nil, nil
	}
}

func convertWives(in []rawWife) []Wife {
	out := make([]Wife, 0, len(in))
	for _, w := range in {
		out = append(out, Wife{Name: w.Name, Children: cloneStrings(w.Children)})
	}
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (r *Record) toRaw() rawRecord {
	raw := rawRecord{
		Grandfather: &rawPerson{
			Name:  r.Grandfather.Name,
			Wives: rawWives(r.Grandfather.Wives),
		},
	}
	for _, s := range r.Siblings {
		p := rawPerson{Name: s.Name}
		switch h := s.Household.(type) {
		case Spouse:
			p.Wife = h.Name
			p.Children = h.Children
		case Wives:
			p.Wives = rawWives(h)
		case Children:
			p.Children = h
		}
		raw.Siblings = append(raw.Siblings, p)
	}
	return raw
}

func rawWives(in []Wife) []rawWife {
	out := make([]rawWife, 0, len(in))
	for _, w := range in {
		out = append(out, rawWife{Name: w.Name, Children: w.Children})
	}
	return out
}

// Encode writes the record in the given format, using the same shape Parse
// reads.
func Encode(w io.Writer, r *Record, format Format) error {
	raw := r.toRaw()
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encoding yaml record: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encoding json record: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
