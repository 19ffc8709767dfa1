package pptx

import (
	"strings"

	"github.com/tsawler/table2dict/model"
)

// slideTables converts the tables of a shape tree, frames first and then
// grouped shapes.
func slideTables(tree *spTreeXML) []*model.Table {
	var tables []*model.Table
	for _, gf := range tree.GraphicFrame {
		if gf.Graphic.GraphicData.Tbl == nil {
			continue
		}
		t := convertTable(gf.Graphic.GraphicData.Tbl)
		t.Caption = gf.NvGraphicFramePr.CNvPr.Name
		tables = append(tables, t)
	}
	for i := range tree.GrpSp {
		tables = append(tables, slideTables(&tree.GrpSp[i])...)
	}
	return tables
}

// convertTable converts an a:tbl. The firstRow flag makes row 0 the header
// row and firstCol makes the cell in grid column 0 of every other row a
// header cell. Cells covered by a merge are dropped.
func convertTable(tbl *tblXML) *model.Table {
	var firstRow, firstCol bool
	if tbl.TblPr != nil {
		firstRow = onOff(tbl.TblPr.FirstRow)
		firstCol = onOff(tbl.TblPr.FirstCol)
	}

	table := model.NewTable()
	for rowIdx, tr := range tbl.Tr {
		isHeader := firstRow && rowIdx == 0
		kind := model.KindData
		if isHeader {
			kind = model.KindHeader
		}

		row := make(model.Row, 0, len(tr.Tc))
		// Each a:tc is one grid column; the columns a gridSpan covers
		// follow as hMerge cells.
		for col, tc := range tr.Tc {
			if onOff(tc.HMerge) || onOff(tc.VMerge) {
				continue
			}

			cell := model.Cell{
				Text: cellText(tc.TxBody),
				Kind: kind,
			}
			if tc.GridSpan > 1 {
				cell.ColSpan = tc.GridSpan
			}
			if tc.RowSpan > 1 {
				cell.RowSpan = tc.RowSpan
			}
			if !isHeader && firstCol && col == 0 {
				cell.Kind = model.KindHeader
			}
			row = append(row, cell)
		}

		// Rows fully covered by merges stay so row spans keep their extent.
		table.Rows = append(table.Rows, row)
	}
	return table
}

// cellText joins the runs and fields of each paragraph and the paragraphs
// with "\n".
func cellText(body *txBodyXML) string {
	if body == nil {
		return ""
	}

	var paras []string
	for _, p := range body.P {
		var sb strings.Builder
		for _, run := range p.R {
			sb.WriteString(run.T)
		}
		for _, fld := range p.Fld {
			sb.WriteString(fld.T)
		}
		if text := sb.String(); text != "" {
			paras = append(paras, text)
		}
	}
	return strings.TrimSpace(strings.Join(paras, "\n"))
}

// onOff parses an xsd:boolean attribute.
func onOff(v string) bool {
	return v == "1" || v == "true"
}
