// Package loader reads form definitions from xlsx workbooks, YAML files and
// CSV directories, and resolves choice lists stored in external files.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ridoystarlord/formgen/table"
)

// Book is a set of raw tables read from one form definition. Table names
// match case-insensitively.
type Book struct {
	Path   string
	tables map[string][][]string
	order  []string
}

func newBook(path string) *Book {
	return &Book{Path: path, tables: map[string][][]string{}}
}

func (b *Book) add(name string, records [][]string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := b.tables[key]; !ok {
		b.order = append(b.order, name)
	}
	b.tables[key] = records
}

// ReadTable implements table.Source.
func (b *Book) ReadTable(name string) (*table.Table, error) {
	records, ok := b.tables[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", name, b.Path, table.ErrNotFound)
	}
	return table.FromRecords(name, records), nil
}

// Names returns table names in source order.
func (b *Book) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// first returns the first table of the book, used for external lists.
func (b *Book) first() (*table.Table, error) {
	if len(b.order) == 0 {
		return nil, fmt.Errorf("%s: %w", b.Path, table.ErrNotFound)
	}
	return b.ReadTable(b.order[0])
}

// Open reads a form definition: an .xlsx workbook, a .yaml/.yml file or a
// directory of <table>.csv files.
func Open(path string) (*Book, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening form: %w", err)
	}
	if info.IsDir() {
		return LoadCSVDir(path)
	}
	return openFile(path)
}

func openFile(path string) (*Book, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".csv":
		return LoadCSVFile(path)
	default:
		return nil, fmt.Errorf("unsupported form file type %q", ext)
	}
}
