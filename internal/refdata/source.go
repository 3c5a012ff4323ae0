package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"
)

// tableExt is the file extension of a table file. The stem is the table name.
const tableExt = ".json"

// Source loads and enumerates reference tables on backing storage. It performs
// no caching and no concurrency control of its own; implementations must be
// safe to invoke concurrently for different names.
type Source interface {
	// Load decodes the named table. Failures are reported as *LoadError.
	Load(name string) (*Table, error)
	// List enumerates every available table name, sorted. A missing storage
	// location is a *LoadError with ErrorCodeNotFound.
	List() ([]string, error)
}

// DirSource reads one JSON file per table from a directory. Files are
// hand-edited reference data, so content passes through hujson first:
// comments and trailing commas are accepted.
type DirSource struct {
	dir string
}

// NewDirSource returns a Source over dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Load implements Source.
func (s *DirSource) Load(name string) (*Table, error) {
	path := filepath.Join(s.dir, name+tableExt)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from the configured data directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Table: name, Code: ErrorCodeNotFound, Err: err}
		}
		return nil, &LoadError{Table: name, Code: ErrorCodeIO, Err: err}
	}
	t, err := decodeTable(name, data)
	if err != nil {
		return nil, &LoadError{Table: name, Code: ErrorCodeDecode, Err: err}
	}
	return t, nil
}

// List implements Source.
func (s *DirSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Table: s.dir, Code: ErrorCodeNotFound, Err: err}
		}
		return nil, &LoadError{Table: s.dir, Code: ErrorCodeIO, Err: err}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != tableExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), tableExt))
	}
	slices.Sort(names)
	return names, nil
}

// decodeTable decodes an array of flat records. Numbers decode through
// json.Number so the integer/float distinction of the source survives.
func decodeTable(name string, data []byte) (*Table, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("top-level value must be an array, got %v", tok)
	}

	var rows []Row
	for dec.More() {
		row, err := decodeRow(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &Table{name: name, rows: rows}, nil
}

func decodeRow(dec *json.Decoder) (Row, error) {
	tok, err := dec.Token()
	if err != nil {
		return Row{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Row{}, fmt.Errorf("element must be an object, got %v", tok)
	}

	row := newRow()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Row{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Row{}, fmt.Errorf("field name must be a string, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return Row{}, err
		}
		var v Value
		switch t := valTok.(type) {
		case nil:
			v = NullValue()
		case string:
			v = StringValue(t)
		case bool:
			v = BoolValue(t)
		case json.Number:
			if v, err = numberValue(t); err != nil {
				return Row{}, fmt.Errorf("field %q: %w", key, err)
			}
		case json.Delim:
			return Row{}, fmt.Errorf("field %q: records must be flat, nested values are not supported", key)
		default:
			return Row{}, fmt.Errorf("field %q: unsupported value %v", key, valTok)
		}
		row.set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Row{}, err
	}
	return row, nil
}
