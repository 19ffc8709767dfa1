package xlsx

import (
	"github.com/tsawler/table2dict/model"
)

// sheetToTable converts a sheet to a table. Leading empty rows and columns
// are skipped; every remaining row is padded to the sheet width. A merged
// region becomes the spans of its top-left cell and its other cells are
// omitted. With RowHeaders the cell in the first content column of each
// body row is a header cell; when a merge covers that column the row has no
// row header.
func sheetToTable(sheet *Sheet, opts Options) *model.Table {
	table := model.NewTable()
	table.Caption = sheet.Name

	minRow, minCol := sheet.contentBounds()
	rowCount := sheet.RowCount()
	colCount := sheet.ColCount()
	headerRows := opts.headerRows()

	for rowIdx := minRow; rowIdx < rowCount; rowIdx++ {
		isHeader := rowIdx-minRow < headerRows
		row := make(model.Row, 0, colCount-minCol)

		for colIdx := minCol; colIdx < colCount; colIdx++ {
			if sheet.covered(rowIdx, colIdx) {
				continue
			}

			cell := model.Cell{
				Text: sheet.Value(rowIdx, colIdx),
				Kind: model.KindData,
			}
			if isHeader || (opts.RowHeaders && colIdx == minCol) {
				cell.Kind = model.KindHeader
			}
			if m, ok := sheet.mergeAt(rowIdx, colIdx); ok {
				if m.Rows() > 1 {
					cell.RowSpan = m.Rows()
				}
				if m.Cols() > 1 {
					cell.ColSpan = m.Cols()
				}
			}
			row = append(row, cell)
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}
