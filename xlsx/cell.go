package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet holds the formatted cell values of one worksheet.
type Sheet struct {
	Name  string
	Index int
	Rows  [][]string // ragged; trailing empty cells are omitted

	// Merged cell regions
	MergedRegions []MergedRegion
}

// MergedRegion represents a merged cell region (0-indexed, inclusive).
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Rows returns the number of rows the region covers.
func (m MergedRegion) Rows() int { return m.EndRow - m.StartRow + 1 }

// Cols returns the number of columns the region covers.
func (m MergedRegion) Cols() int { return m.EndCol - m.StartCol + 1 }

// Contains reports whether the region covers the given cell.
func (m MergedRegion) Contains(row, col int) bool {
	return row >= m.StartRow && row <= m.EndRow && col >= m.StartCol && col <= m.EndCol
}

// Value returns the value at the given row and column (0-indexed), or "".
func (s *Sheet) Value(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}

// RowCount returns the number of rows, counting rows covered by merges.
func (s *Sheet) RowCount() int {
	n := len(s.Rows)
	for _, m := range s.MergedRegions {
		n = max(n, m.EndRow+1)
	}
	return n
}

// ColCount returns the maximum number of columns in any row, counting
// columns covered by merges.
func (s *Sheet) ColCount() int {
	n := 0
	for _, row := range s.Rows {
		n = max(n, len(row))
	}
	for _, m := range s.MergedRegions {
		n = max(n, m.EndCol+1)
	}
	return n
}

// mergeAt returns the region whose top-left cell is (row, col).
func (s *Sheet) mergeAt(row, col int) (MergedRegion, bool) {
	for _, m := range s.MergedRegions {
		if m.StartRow == row && m.StartCol == col {
			return m, true
		}
	}
	return MergedRegion{}, false
}

// covered reports whether (row, col) lies inside a region without being its
// top-left cell.
func (s *Sheet) covered(row, col int) bool {
	for _, m := range s.MergedRegions {
		if m.Contains(row, col) && (m.StartRow != row || m.StartCol != col) {
			return true
		}
	}
	return false
}

// contentBounds finds the first row and column holding a value or a merge.
// Both are 0 for an empty sheet.
func (s *Sheet) contentBounds() (minRow, minCol int) {
	minRow, minCol = -1, -1
	for rowIdx, row := range s.Rows {
		for colIdx, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
		}
	}
	for _, m := range s.MergedRegions {
		if minRow < 0 || m.StartRow < minRow {
			minRow = m.StartRow
		}
		if minCol < 0 || m.StartCol < minCol {
			minCol = m.StartCol
		}
	}
	return max(minRow, 0), max(minCol, 0)
}

// ParseRangeRef parses a range reference like "A1:D10" into 0-indexed start
// and end coordinates. A single cell reference is a one-cell range.
func ParseRangeRef(ref string) (MergedRegion, error) {
	start, end, found := strings.Cut(ref, ":")
	if !found {
		end = start
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return MergedRegion{}, fmt.Errorf("invalid start cell: %w", err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return MergedRegion{}, fmt.Errorf("invalid end cell: %w", err)
	}

	return MergedRegion{
		StartRow: min(startRow, endRow) - 1,
		StartCol: min(startCol, endCol) - 1,
		EndRow:   max(startRow, endRow) - 1,
		EndCol:   max(startCol, endCol) - 1,
	}, nil
}
