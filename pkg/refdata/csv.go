// Package refdata reads the CSV reference datasets shipped under DATA_DIR.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMissing is returned when a dataset file does not exist.
var ErrMissing = errors.New("reference dataset missing")

// Table is a parsed CSV file. Column names are trimmed and lowercased.
type Table struct {
	Name    string
	columns map[string]int
	Rows    [][]string
}

// Open reads dir/name.
func Open(dir, name string) (*Table, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t.Name = name
	return t, nil
}

// Parse reads a CSV stream whose first record is the header.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}
	t := &Table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Require returns an error naming the first column that is absent.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.columns[c]; !ok {
			return fmt.Errorf("%s: missing column %q", t.Name, c)
		}
	}
	return nil
}

// Has reports whether the table has the column.
func (t *Table) Has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

// Get returns the trimmed cell or "" when the row is short or the column
// is unknown.
func (t *Table) Get(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Float parses the cell as a float64.
func (t *Table) Float(row []string, col string) (float64, error) {
	v := t.Get(row, col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: column %q: invalid number %q", t.Name, col, v)
	}
	return f, nil
}

// Int parses the cell as an int, accepting a trailing ".0".
func (t *Table) Int(row []string, col string) (int, error) {
	f, err := t.Float(row, col)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// After returns the cells following col, used for wide tables such as
// precaution lists.
func (t *Table) After(row []string, col string) []string {
	i, ok := t.columns[col]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range row[min(i+1, len(row)):] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
