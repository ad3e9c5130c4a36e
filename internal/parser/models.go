package parser

import "fmt"

// Table is a numeric table read from one .dat resource.
// Rows keep file order and columns keep token order within a line.
// A Table is not modified after LoadTable returns it.
type Table struct {
	Source string
	Rows   [][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width returns the column count and whether every row shares it.
// An empty table reports (0, true).
func (t *Table) Width() (int, bool) {
	if t.Len() == 0 {
		return 0, true
	}
	w := len(t.Rows[0])
	for _, row := range t.Rows[1:] {
		if len(row) != w {
			return w, false
		}
	}
	return w, true
}

// MinWidth returns the smallest column count over all rows.
func (t *Table) MinWidth() int {
	if t.Len() == 0 {
		return 0
	}
	minW := len(t.Rows[0])
	for _, row := range t.Rows[1:] {
		if len(row) < minW {
			minW = len(row)
		}
	}
	return minW
}

// Column copies column idx out of every row.
func (t *Table) Column(idx int) ([]float64, error) {
	if idx < 0 {
		return nil, fmt.Errorf("column index %d out of range", idx)
	}
	col := make([]float64, 0, t.Len())
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("%s: row %d has %d columns, no column %d", t.Source, i+1, len(row), idx)
		}
		col = append(col, row[idx])
	}
	return col, nil
}
