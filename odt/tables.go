package odt

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/table2dict/model"
)

// Tables nested in a cell are skipped along with their text.
const bodyTablesExpr = "//*[local-name()='body']/*[local-name()='text']//*[local-name()='table'][not(ancestor::*[local-name()='table-cell'])]"

// maxRepeat bounds number-columns-repeated and number-rows-repeated, which
// office suites set to very large values for trailing blank cells.
const maxRepeat = 1000

// parseTables converts every top-level table:table of the text body.
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

// tableRow is a table:table-row together with where it was found.
type tableRow struct {
	node   *xmlquery.Node
	header bool
}

// parseTable converts a table:table element.
//
// Rows inside table:table-header-rows are header rows. When the table has
// none and declares use-first-row-styles, its first row is the header; with
// use-first-column-styles the cell in grid column 0 of every other row is a
// header cell.
//
// Covered cells are dropped: the cell that covers them carries the span.
func parseTable(tbl *xmlquery.Node) *model.Table {
	table := model.NewTable()
	if name := attr(tbl, "name"); name != "" {
		table.Caption = name
	}

	rows := collectRows(tbl, false, nil)
	firstRow := onOff(attr(tbl, "use-first-row-styles"))
	firstColumn := onOff(attr(tbl, "use-first-column-styles"))

	hasHeaderRows := false
	for _, r := range rows {
		if r.header {
			hasHeaderRows = true
			break
		}
	}

	for _, r := range rows {
		isHeader := r.header || (!hasHeaderRows && firstRow && len(table.Rows) == 0)
		row, keep := parseRow(r.node, isHeader, !isHeader && firstColumn)
		if !keep {
			continue
		}

		repeat := min(max(intAttr(r.node, "number-rows-repeated"), 1), maxRepeat)
		for range repeat {
			table.Rows = append(table.Rows, append(model.Row(nil), row...))
		}
	}

	return table
}

// collectRows walks the row containers of a table in document order.
func collectRows(n *xmlquery.Node, header bool, rows []tableRow) []tableRow {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "table-row":
			rows = append(rows, tableRow{node: c, header: header})
		case "table-header-rows":
			rows = collectRows(c, true, rows)
		case "table-rows", "table-row-group":
			rows = collectRows(c, header, rows)
		}
	}
	return rows
}

// parseRow converts the cells of a table:table-row. With rowHeader the cell
// in grid column 0 is a header cell. A row made only of empty cells is not
// kept; a row holding covered cells always is, since the spans above it
// count it.
func parseRow(tr *xmlquery.Node, isHeader, rowHeader bool) (model.Row, bool) {
	kind := model.KindData
	if isHeader {
		kind = model.KindHeader
	}

	row := make(model.Row, 0)
	keep := false
	col := 0
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		repeat := min(max(intAttr(c, "number-columns-repeated"), 1), maxRepeat)

		switch c.Data {
		case "covered-table-cell":
			keep = true
			col += repeat
		case "table-cell":
			// Each element takes one grid column; the columns a span
			// covers follow as covered-table-cell elements.
			cell := model.Cell{
				Text: cellText(c),
				Kind: kind,
			}
			if span := intAttr(c, "number-columns-spanned"); span > 1 {
				cell.ColSpan = span
			}
			if span := intAttr(c, "number-rows-spanned"); span > 1 {
				cell.RowSpan = span
			}
			if cell.Text != "" || cell.ColSpan > 0 || cell.RowSpan > 0 {
				keep = true
			}
			for range repeat {
				next := cell
				if rowHeader && col == 0 {
					next.Kind = model.KindHeader
				}
				row = append(row, next)
				col++
			}
		}
	}
	return row, keep
}

// cellText joins the paragraphs and headings of a cell with "\n".
func cellText(tc *xmlquery.Node) string {
	var paras []string
	collectParagraphs(tc, &paras)
	return strings.TrimSpace(strings.Join(paras, "\n"))
}

func collectParagraphs(n *xmlquery.Node, paras *[]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "p", "h":
			var sb strings.Builder
			paragraphText(c, &sb)
			if text := sb.String(); text != "" {
				*paras = append(*paras, text)
			}
		case "table":
			// nested tables are skipped
		default:
			// text:list, text:section and similar wrappers
			collectParagraphs(c, paras)
		}
	}
}

// paragraphText appends the text of a paragraph, expanding text:s, text:tab
// and text:line-break.
func paragraphText(n *xmlquery.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(c.Data)
		case xmlquery.ElementNode:
			switch c.Data {
			case "s":
				sb.WriteString(strings.Repeat(" ", min(max(intAttr(c, "c"), 1), maxRepeat)))
			case "tab":
				sb.WriteString("\t")
			case "line-break":
				sb.WriteString("\n")
			case "note", "annotation":
				// footnotes and comments are not cell content
			default:
				paragraphText(c, sb)
			}
		}
	}
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

func intAttr(n *xmlquery.Node, local string) int {
	v, err := strconv.Atoi(attr(n, local))
	if err != nil {
		return 0
	}
	return v
}

func onOff(v string) bool {
	return v == "true"
}
