package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSVDir reads each <table>.csv file of dir as a table.
func LoadCSVDir(dir string) (*Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading form directory: %w", err)
	}
	b := newBook(dir)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		records, err := readCSV(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		b.add(strings.TrimSuffix(name, filepath.Ext(name)), records)
	}
	return b, nil
}

// LoadCSVFile reads a single CSV file as a table named after the file.
func LoadCSVFile(filename string) (*Book, error) {
	records, err := readCSV(filename)
	if err != nil {
		return nil, err
	}
	b := newBook(filename)
	base := filepath.Base(filename)
	b.add(strings.TrimSuffix(base, filepath.Ext(base)), records)
	return b, nil
}

func readCSV(filename string) ([][]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}
