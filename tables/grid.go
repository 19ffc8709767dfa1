package tables

import (
	"strings"

	"github.com/tsawler/table2dict/model"
)

// Span limits, matching the clamps HTML applies to rowspan and colspan.
const (
	MaxColSpan = 1000
	MaxRowSpan = 65534
)

// GridKind identifies which part of a table a grid was built from.
type GridKind int

const (
	// HeaderGrid is built from the leading header rows.
	HeaderGrid GridKind = iota
	// BodyGrid is built from the rows following the header.
	BodyGrid
)

// String returns the grid kind name.
func (k GridKind) String() string {
	switch k {
	case HeaderGrid:
		return "header"
	case BodyGrid:
		return "body"
	default:
		return "unknown"
	}
}

// Column is one grid column, one entry per grid row. A value repeated down a
// column comes from a row span; a value repeated across adjacent columns at
// the same row comes from a column span.
type Column []string

// Grid is a column-major table. Every column has the same length.
type Grid struct {
	Columns []Column
}

// ColumnCount returns the number of columns
func (g Grid) ColumnCount() int {
	return len(g.Columns)
}

// RowCount returns the number of rows
func (g Grid) RowCount() int {
	if len(g.Columns) == 0 {
		return 0
	}
	return len(g.Columns[0])
}

// At returns the value at the given row and column, or "" when out of range.
func (g Grid) At(row, col int) string {
	if col < 0 || col >= len(g.Columns) {
		return ""
	}
	if row < 0 || row >= len(g.Columns[col]) {
		return ""
	}
	return g.Columns[col][row]
}

// Row returns one grid row, left to right.
func (g Grid) Row(row int) []string {
	if row < 0 || row >= g.RowCount() {
		return nil
	}
	values := make([]string, len(g.Columns))
	for i, col := range g.Columns {
		values[i] = col[row]
	}
	return values
}

// Lists returns the grid as nested string slices, one per column.
func (g Grid) Lists() [][]string {
	lists := make([][]string, len(g.Columns))
	for i, col := range g.Columns {
		lists[i] = append([]string(nil), col...)
	}
	return lists
}

// BuildGrid places every cell of rows into a column-major grid, replicating
// spanned cells into each slot they cover.
//
// Cells of the first row each open new columns (one per column spanned).
// Once the first row is placed the column set is fixed, and each later cell
// goes into the first column, scanning left to right, whose slot at the
// current row is still open. Spans are replicated as full rectangles down
// RowSpan rows and across ColSpan columns; spans running past the last row
// are clipped. A cell with no open slot, or whose span would cover a filled
// slot or run past the last column, fails with a ColumnIndexConflictError.
// Slots no cell claims are left as empty strings.
func BuildGrid(rows []model.Row, kind GridKind) (Grid, error) {
	b := newGridBuilder(kind, len(rows))
	for r, row := range rows {
		for i, cell := range row {
			if err := b.place(r, i, cell); err != nil {
				return Grid{}, err
			}
		}
		b.fixed = true
	}
	return Grid{Columns: b.columns}, nil
}

// gridBuilder carries the placement state for one grid. Before the first row
// has been placed the column set is open and every cell appends columns;
// afterwards it is fixed and cells fill open slots.
type gridBuilder struct {
	kind     GridKind
	rowCount int
	fixed    bool
	columns  []Column
	filled   [][]bool
}

func newGridBuilder(kind GridKind, rowCount int) *gridBuilder {
	return &gridBuilder{
		kind:     kind,
		rowCount: rowCount,
	}
}

func (b *gridBuilder) place(row, index int, cell model.Cell) error {
	text := cleanText(cell.Text)
	rowSpan := clamp(cell.Rows(), MaxRowSpan)
	colSpan := clamp(cell.Cols(), MaxColSpan)

	if !b.fixed {
		for i := 0; i < colSpan; i++ {
			col := b.openColumn()
			b.fill(col, row, rowSpan, text)
		}
		return nil
	}

	target := b.firstOpen(row)
	if target < 0 {
		return b.conflict(row, index, -1, text)
	}
	if target+colSpan > len(b.columns) {
		return b.conflict(row, index, len(b.columns), text)
	}
	// Check the whole rectangle before writing so a conflict leaves no
	// partial placement behind.
	for col := target; col < target+colSpan; col++ {
		if !b.open(col, row, rowSpan) {
			return b.conflict(row, index, col, text)
		}
	}
	for col := target; col < target+colSpan; col++ {
		b.fill(col, row, rowSpan, text)
	}
	return nil
}

// openColumn appends an empty column and returns its index.
func (b *gridBuilder) openColumn() int {
	b.columns = append(b.columns, make(Column, b.rowCount))
	b.filled = append(b.filled, make([]bool, b.rowCount))
	return len(b.columns) - 1
}

// firstOpen returns the leftmost column with an open slot at row, or -1.
func (b *gridBuilder) firstOpen(row int) int {
	for col := range b.columns {
		if !b.filled[col][row] {
			return col
		}
	}
	return -1
}

// open reports whether every slot of col from row down rowSpan rows is open.
func (b *gridBuilder) open(col, row, rowSpan int) bool {
	end := min(row+rowSpan, b.rowCount)
	for r := row; r < end; r++ {
		if b.filled[col][r] {
			return false
		}
	}
	return true
}

func (b *gridBuilder) fill(col, row, rowSpan int, text string) {
	end := min(row+rowSpan, b.rowCount)
	for r := row; r < end; r++ {
		b.columns[col][r] = text
		b.filled[col][r] = true
	}
}

func (b *gridBuilder) conflict(row, index, col int, text string) error {
	return &ColumnIndexConflictError{
		Kind:   b.kind,
		Row:    row,
		Cell:   index,
		Column: col,
		Text:   text,
	}
}

// cleanText removes the newlines markup leaves between and inside cells.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func clamp(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
