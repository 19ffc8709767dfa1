package htmldoc

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/table2dict/model"
)

// parseTable extracts a table from an HTML table element. Rows come from
// thead, tbody, tfoot and direct tr children in document order.
func parseTable(tableNode *html.Node) *model.Table {
	table := model.NewTable()

	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "caption":
			table.Caption = strings.TrimSpace(getTextContent(c))
		case "thead":
			parseTableRows(c, table, true)
		case "tbody", "tfoot":
			parseTableRows(c, table, false)
		case "tr":
			if row := parseTableRow(c, false); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}

	return table
}

// parseTableRows parses rows within thead, tbody or tfoot.
func parseTableRows(section *html.Node, table *model.Table, inHead bool) {
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			if row := parseTableRow(c, inHead); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}
}

// parseTableRow parses a single table row. Every cell of a thead row is
// header-type.
func parseTableRow(tr *html.Node, inHead bool) model.Row {
	row := make(model.Row, 0)

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}

		cell := model.Cell{
			Text: cellText(c),
			Kind: model.KindData,
		}
		if inHead || c.Data == "th" {
			cell.Kind = model.KindHeader
		}

		for _, attr := range c.Attr {
			switch attr.Key {
			case "rowspan":
				cell.RowSpan = parseSpan(attr.Val, maxRowSpan)
			case "colspan":
				cell.ColSpan = parseSpan(attr.Val, maxColSpan)
			}
		}

		row = append(row, cell)
	}

	return row
}

// parseSpan reads the leading digits of a span attribute. Missing, invalid
// and non-positive values yield 0.
func parseSpan(val string, limit int) int {
	val = strings.TrimSpace(val)
	end := 0
	for end < len(val) && val[end] >= '0' && val[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(val[:end])
	if err != nil {
		// Overflow; anything this large is past the limit.
		return limit
	}
	if n <= 0 {
		return 0
	}
	return min(n, limit)
}

// cellText returns a cell's text with newlines removed and outer whitespace
// trimmed. Text of nested tables is left out.
func cellText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, &sb, true)
	}
	text := strings.NewReplacer("\r", "", "\n", "").Replace(sb.String())
	return strings.TrimSpace(text)
}

// getTextContent extracts all text content from a node and its descendants.
func getTextContent(n *html.Node) string {
	var sb strings.Builder
	appendText(n, &sb, false)
	return sb.String()
}

func appendText(n *html.Node, sb *strings.Builder, skipTables bool) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if shouldSkipElement(n.Data) || (skipTables && n.Data == "table") {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, sb, skipTables)
	}
}
