package table

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderSentinel is the first header cell produced by readers that could not
// detect a header row. When present, the first data row holds the real header.
const HeaderSentinel = "Field1"

// ErrNotFound is returned by a Source that has no table with the requested name.
var ErrNotFound = errors.New("table not found")

// Source provides the survey, choices and settings tables of a form.
type Source interface {
	ReadTable(name string) (*Table, error)
}

// InvalidError reports a table missing one or more required columns.
type InvalidError struct {
	Table   string
	Missing []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("table %s is invalid: missing column(s) %s", e.Table, strings.Join(e.Missing, ", "))
}

// Index maps column names to their position.
type Index struct {
	names []string
	pos   map[string]int
}

func NewIndex(names []string) Index {
	idx := Index{names: make([]string, len(names)), pos: make(map[string]int, len(names))}
	for i, n := range names {
		n = strings.TrimSpace(n)
		idx.names[i] = n
		if _, dup := idx.pos[n]; !dup {
			idx.pos[n] = i
		}
	}
	return idx
}

// Names returns the column names in source order.
func (x Index) Names() []string {
	out := make([]string, len(x.names))
	copy(out, x.names)
	return out
}

// Lookup returns the position of the exactly matching column or -1.
func (x Index) Lookup(name string) int {
	if i, ok := x.pos[name]; ok {
		return i
	}
	return -1
}

// LookupFold matches name case-insensitively and returns the column's
// actual name and position, or "" and -1.
func (x Index) LookupFold(name string) (string, int) {
	for i, n := range x.names {
		if strings.EqualFold(n, name) {
			return n, i
		}
	}
	return "", -1
}

// First returns the first of the given synonyms present in the index.
func (x Index) First(names ...string) (string, int) {
	for _, n := range names {
		if i := x.Lookup(n); i >= 0 {
			return n, i
		}
	}
	return "", -1
}

// Row is one data record. Cells beyond the row's length read as empty.
type Row struct {
	Line  int
	cells []string
	index *Index
}

// At returns the trimmed cell at position i, or "" when absent.
func (r Row) At(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// Get returns the trimmed value of the named column.
func (r Row) Get(column string) string {
	if r.index == nil {
		return ""
	}
	return r.At(r.index.Lookup(column))
}

// Raw returns the untrimmed cell at position i.
func (r Row) Raw(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// Len reports the number of cells present in the record.
func (r Row) Len() int { return len(r.cells) }

type Table struct {
	Name    string
	Columns Index
	Rows    []Row
}

// FromRecords builds a table from raw records whose first record is the header.
func FromRecords(name string, records [][]string) *Table {
	t := &Table{Name: name}
	if len(records) == 0 {
		t.Columns = NewIndex(nil)
		return t
	}
	header, data, offset := records[0], records[1:], 1
	if len(header) > 0 && strings.TrimSpace(header[0]) == HeaderSentinel && len(data) > 0 {
		header, data, offset = data[0], data[1:], 2
	}
	t.Columns = NewIndex(header)
	t.Rows = make([]Row, 0, len(data))
	for i, rec := range data {
		t.Rows = append(t.Rows, Row{Line: i + offset + 1, cells: rec, index: &t.Columns})
	}
	return t
}

// Require returns an *InvalidError when any of the columns is missing.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if t.Columns.Lookup(c) < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &InvalidError{Table: t.Name, Missing: missing}
	}
	return nil
}
