package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads every sheet of a workbook as a table named after the sheet.
func LoadXLSX(filename string) (*Book, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	b := newBook(filename)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		b.add(sheet, rows)
	}
	return b, nil
}
