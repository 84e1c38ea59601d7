package datasource

import (
	"fmt"

	"github.com/vanderheijden86/kinview/pkg/debug"
	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
)

// Load resolves path and reads the record from it. An empty path returns the
// embedded record.
func Load(path string) (*family.Record, DataSource, error) {
	src, err := Detect(path)
	if err != nil {
		return nil, DataSource{}, err
	}
	r, err := LoadSource(src)
	if err != nil {
		return nil, src, err
	}
	src.PersonCount = len(family.Flatten(r))
	return r, src, nil
}

// LoadSource reads the record from an already detected source.
func LoadSource(src DataSource) (*family.Record, error) {
	defer metrics.Timer(metrics.RecordLoad)()
	defer debug.LogEnterExit("datasource.Load " + string(src.Type))()

	switch src.Type {
	case SourceTypeEmbedded:
		return family.Default()
	case SourceTypeYAML, SourceTypeJSON:
		return family.ParseFile(src.Path)
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(src)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.LoadRecord()
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}
