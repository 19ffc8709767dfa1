package model

import (
	"strings"
)

// CellKind distinguishes header-type cells from data-type cells.
type CellKind int

const (
	// KindData is a body cell (<td> in HTML).
	KindData CellKind = iota
	// KindHeader is a header cell (<th> in HTML, a repeated header row in DOCX).
	KindHeader
)

// String returns the HTML tag name associated with the kind.
func (k CellKind) String() string {
	if k == KindHeader {
		return "th"
	}
	return "td"
}

// Cell represents a table cell as declared by its source
type Cell struct {
	Text string
	Kind CellKind
	// RowSpan and ColSpan are 0 when the source declared no span.
	RowSpan int
	ColSpan int
}

// Rows returns the effective row span (at least 1).
func (c Cell) Rows() int {
	if c.RowSpan > 1 {
		return c.RowSpan
	}
	return 1
}

// Cols returns the effective column span (at least 1).
func (c Cell) Cols() int {
	if c.ColSpan > 1 {
		return c.ColSpan
	}
	return 1
}

// IsHeader reports whether the cell is header-type.
func (c Cell) IsHeader() bool { return c.Kind == KindHeader }

// Row is an ordered sequence of cells, left to right as authored.
type Row []Cell

// HeaderCount returns the number of header-type cells in the row.
func (r Row) HeaderCount() int {
	n := 0
	for _, c := range r {
		if c.IsHeader() {
			n++
		}
	}
	return n
}

// Width returns the number of grid columns the row claims by itself
// (the sum of its cells' column spans).
func (r Row) Width() int {
	w := 0
	for _, c := range r {
		w += c.Cols()
	}
	return w
}

// Table represents a table as an ordered sequence of authored rows
type Table struct {
	Caption string
	Index   int // position of the table within its document (0-indexed)
	Rows    []Row
}

// NewTable creates a table from rows
func NewTable(rows ...Row) *Table {
	return &Table{Rows: rows}
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of cells in the first row
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// GetCell returns the cell at the given row and cell position (0-indexed),
// counting authored cells rather than grid columns.
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// AddRow appends a row to the table
func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, Row(cells))
}

// GetText returns the authored cells tab-separated, one line per row.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
