package docx

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/table2dict/model"
)

// Top-level tables only: tables nested in cells sit below a w:tc.
const bodyTablesExpr = "/*[local-name()='document']/*[local-name()='body']/*[local-name()='tbl']"

// tblLook bitmask flags (ECMA-376 17.4.56).
const (
	lookFirstRow    = 0x0020
	lookFirstColumn = 0x0080
)

// parseTables converts every top-level w:tbl of the document.
func parseTables(root *xmlquery.Node) ([]*model.Table, error) {
	nodes, err := xmlquery.QueryAll(root, bodyTablesExpr)
	if err != nil {
		return nil, err
	}

	tables := make([]*model.Table, 0, len(nodes))
	for i, n := range nodes {
		table := parseTable(n)
		table.Index = i
		tables = append(tables, table)
	}
	return tables, nil
}

// tableLook describes the conditional formatting a table declares.
type tableLook struct {
	firstRow    bool
	firstColumn bool
}

// mergeOrigin locates the cell that starts a vertical merge.
type mergeOrigin struct {
	row, cell int
}

// parseTable converts a w:tbl element. Vertical merges become a RowSpan on
// the restarting cell and the continuation cells are dropped.
func parseTable(tbl *xmlquery.Node) *model.Table {
	look := parseTableLook(child(child(tbl, "tblPr"), "tblLook"))
	rowNodes := children(tbl, "tr")

	// Repeated header rows take precedence over the tblLook first row.
	headerRows := 0
	for _, tr := range rowNodes {
		if child(child(tr, "trPr"), "tblHeader") == nil {
			break
		}
		headerRows++
	}
	if headerRows == 0 && look.firstRow && len(rowNodes) > 0 {
		headerRows = 1
	}

	table := model.NewTable()
	open := make(map[int]mergeOrigin)

	for rowIdx, tr := range rowNodes {
		isHeader := rowIdx < headerRows
		kind := model.KindData
		if isHeader {
			kind = model.KindHeader
		}

		row := make(model.Row, 0)
		col := 0
		reached := make(map[int]bool)

		if before := intVal(child(child(tr, "trPr"), "gridBefore")); before > 0 {
			row = append(row, model.Cell{Kind: kind, ColSpan: before})
			col += before
		}

		for _, tc := range children(tr, "tc") {
			props := child(tc, "tcPr")
			colSpan := max(intVal(child(props, "gridSpan")), 1)

			reached[col] = true

			vMerge := child(props, "vMerge")
			if vMerge != nil && attr(vMerge, "val") != "restart" {
				if origin, ok := open[col]; ok {
					start := &table.Rows[origin.row][origin.cell]
					start.RowSpan = max(start.RowSpan, 1) + 1
					col += colSpan
					continue
				}
			}

			cell := model.Cell{
				Text: cellText(tc),
				Kind: kind,
			}
			if colSpan > 1 {
				cell.ColSpan = colSpan
			}
			if !isHeader && look.firstColumn && col == 0 {
				cell.Kind = model.KindHeader
			}

			if vMerge != nil {
				open[col] = mergeOrigin{row: rowIdx, cell: len(row)}
			} else {
				delete(open, col)
			}

			row = append(row, cell)
			col += colSpan
		}

		// A merge ends at a row that has no cell starting in its column.
		for c := range open {
			if !reached[c] {
				delete(open, c)
			}
		}

		// Rows are kept even when empty so merge origins stay addressable.
		table.Rows = append(table.Rows, row)
	}

	return table
}

// parseTableLook reads w:tblLook from either its boolean attributes or the
// older hexadecimal w:val bitmask.
func parseTableLook(n *xmlquery.Node) tableLook {
	var look tableLook
	if n == nil {
		return look
	}

	if v := attr(n, "val"); v != "" {
		if mask, err := strconv.ParseUint(v, 16, 16); err == nil {
			look.firstRow = mask&lookFirstRow != 0
			look.firstColumn = mask&lookFirstColumn != 0
		}
	}
	if v := attr(n, "firstRow"); v != "" {
		look.firstRow = onOff(v)
	}
	if v := attr(n, "firstColumn"); v != "" {
		look.firstColumn = onOff(v)
	}
	return look
}

// cellText joins the runs of each paragraph and the paragraphs with "\n".
func cellText(tc *xmlquery.Node) string {
	var paras []string
	for _, p := range children(tc, "p") {
		var sb strings.Builder
		for _, t := range xmlquery.Find(p, ".//*[local-name()='t']") {
			sb.WriteString(t.InnerText())
		}
		if text := sb.String(); text != "" {
			paras = append(paras, text)
		}
	}
	return strings.TrimSpace(strings.Join(paras, "\n"))
}

// child returns the first child element with the given local name.
func child(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

// children returns every child element with the given local name.
func children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

// attr returns the value of the attribute with the given local name,
// whatever its namespace prefix.
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// intVal parses the w:val of n, or returns 0.
func intVal(n *xmlquery.Node) int {
	if n == nil {
		return 0
	}
	v, err := strconv.Atoi(attr(n, "val"))
	if err != nil {
		return 0
	}
	return v
}

// onOff parses an ST_OnOff value.
func onOff(v string) bool {
	switch v {
	case "1", "true", "on":
		return true
	}
	return false
}
