package loader

import (
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

// ReadSpreadsheet loads the first worksheet of an .xlsx workbook. The first
// non-blank row supplies the column names.
func ReadSpreadsheet(path string) (*models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("failed to read spreadsheet %s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return tableFromGrid(rows), nil
}

// ReadLegacySpreadsheet loads the first worksheet of a BIFF (.xls) workbook.
func ReadLegacySpreadsheet(path string) (table *models.Table, err error) {
	// the BIFF decoder panics on truncated or malformed records
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("failed to read legacy spreadsheet %s: %v", path, r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy spreadsheet: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("failed to read legacy spreadsheet %s: no workbook stream", path)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("failed to read legacy spreadsheet %s: first sheet missing", path)
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}

	return tableFromGrid(grid), nil
}

// sheetRow returns nil for rows that have no ROW record; WorkSheet.Row
// dereferences the missing entry.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
