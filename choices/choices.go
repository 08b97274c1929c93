// Package choices builds the lookup tables behind select fields.
package choices

import (
	"github.com/ridoystarlord/formgen/markup"
	"github.com/ridoystarlord/formgen/table"
)

// Column names of the choices table.
const (
	ColListName      = "list_name"
	ColListNameSpace = "list name"
	ColName          = "name"
)

// TablePrefix is prepended to a list name to form its table name.
const TablePrefix = "list_"

// List is one choice list. Rows hold values in Columns order; the first row
// is always the empty sentinel.
type List struct {
	Name        string     `yaml:"name" json:"name"`
	Columns     []string   `yaml:"columns" json:"columns"`
	KeyColumn   string     `yaml:"key_column" json:"key_column"`
	LabelColumn string     `yaml:"label_column" json:"label_column"`
	Rows        [][]string `yaml:"rows" json:"rows"`
	// External marks lists loaded from a select_*_from_file source.
	External bool `yaml:"external,omitempty" json:"external,omitempty"`
}

// TableName is the lookup table the list is stored in.
func (l *List) TableName() string {
	return TablePrefix + l.Name
}

// Len returns the number of choices, sentinel excluded.
func (l *List) Len() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return len(l.Rows) - 1
}

// Values returns the values of column col, sentinel included.
func (l *List) Values(col string) []string {
	i := index(l.Columns, col)
	if i < 0 {
		return nil
	}
	out := make([]string, len(l.Rows))
	for j, r := range l.Rows {
		if i < len(r) {
			out[j] = r[i]
		}
	}
	return out
}

func index(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func sentinel(n int) []string {
	return make([]string, n)
}

// Set holds lists keyed by name in first-appearance order.
type Set struct {
	lists []*List
	names map[string]*List
}

func NewSet() *Set {
	return &Set{names: map[string]*List{}}
}

// Add stores l unless a list with the same name already exists, and
// reports whether it was added.
func (s *Set) Add(l *List) bool {
	if s.names == nil {
		s.names = map[string]*List{}
	}
	if _, ok := s.names[l.Name]; ok {
		return false
	}
	s.names[l.Name] = l
	s.lists = append(s.lists, l)
	return true
}

func (s *Set) Get(name string) (*List, bool) {
	if s == nil {
		return nil, false
	}
	l, ok := s.names[name]
	return l, ok
}

// Lists returns every list in insertion order.
func (s *Set) Lists() []*List {
	if s == nil {
		return nil
	}
	out := make([]*List, len(s.lists))
	copy(out, s.lists)
	return out
}

// ListColumn resolves the list-name column, accepting both spellings.
func ListColumn(t *table.Table) string {
	name, _ := t.Columns.First(ColListName, ColListNameSpace)
	return name
}

// Build groups the rows of the choices table by list name. Rows without a
// list name are dropped. labelColumn values are tag-stripped.
func Build(t *table.Table, listColumn, labelColumn string) *Set {
	s := NewSet()
	if t == nil {
		return s
	}
	cols := t.Columns.Names()
	li := t.Columns.Lookup(listColumn)
	lab := t.Columns.Lookup(labelColumn)
	if li < 0 {
		return s
	}
	for _, r := range t.Rows {
		name := r.At(li)
		if name == "" {
			continue
		}
		l, ok := s.Get(name)
		if !ok {
			l = &List{
				Name:        name,
				Columns:     cols,
				KeyColumn:   ColName,
				LabelColumn: labelColumn,
				Rows:        [][]string{sentinel(len(cols))},
			}
			s.Add(l)
		}
		l.Rows = append(l.Rows, record(r, len(cols), lab))
	}
	return s
}

// FromTable builds an external list named name from all rows of t.
func FromTable(name string, t *table.Table, keyColumn, labelColumn string) *List {
	cols := t.Columns.Names()
	l := &List{
		Name:        name,
		Columns:     cols,
		KeyColumn:   keyColumn,
		LabelColumn: labelColumn,
		Rows:        [][]string{sentinel(len(cols))},
		External:    true,
	}
	lab := t.Columns.Lookup(labelColumn)
	for _, r := range t.Rows {
		l.Rows = append(l.Rows, record(r, len(cols), lab))
	}
	return l
}

func record(r table.Row, n, label int) []string {
	rec := make([]string, n)
	for i := range rec {
		rec[i] = r.At(i)
	}
	if label >= 0 {
		rec[label] = markup.StripTags(rec[label])
	}
	return rec
}
