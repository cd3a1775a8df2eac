package models

import (
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// TextColumn is the single column used for free-standing paragraph content.
const TextColumn = "Text"

// Table is the format-independent row/column view produced by the loaders.
// Every row holds exactly len(Columns) cells; a missing value is "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable normalizes cell text to NFC and pads or truncates every row to the
// column count.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: make([]string, len(columns)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for i, c := range columns {
		t.Columns[i] = norm.NFC.String(c)
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i := 0; i < len(cells) && i < len(row); i++ {
			cells[i] = norm.NFC.String(row[i])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// PositionalColumns returns the names "0", "1", ... used for headerless records.
func PositionalColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = strconv.Itoa(i)
	}
	return cols
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Slice returns a table sharing t's columns with rows [start, end).
func (t *Table) Slice(start, end int) *Table {
	return &Table{Columns: t.Columns, Rows: t.Rows[start:end]}
}

// Concat stacks the rows of all tables in order. The result's columns are the
// union of the input columns in order of first appearance; a cell whose column
// is absent from its source table is left empty.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	index := make(map[string]int)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			cells := make([]string, len(out.Columns))
			for i, c := range t.Columns {
				if i < len(row) {
					cells[index[c]] = row[i]
				}
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}
