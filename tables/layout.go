package tables

import (
	"github.com/tsawler/table2dict/model"
)

// Layout is a table split into its classification and its header and body
// grids. It is built fresh for every conversion and holds no shared state.
type Layout struct {
	Classification Classification
	Header         Grid
	Body           Grid
}

// Analyze classifies rows, splits them into the header prefix and the body
// suffix, and builds both grids.
func Analyze(rows []model.Row) (*Layout, error) {
	c, err := Classify(rows)
	if err != nil {
		return nil, err
	}

	split := min(c.HeaderRows, len(rows))
	header, err := BuildGrid(rows[:split], HeaderGrid)
	if err != nil {
		return nil, err
	}
	body, err := BuildGrid(rows[split:], BodyGrid)
	if err != nil {
		return nil, err
	}

	return &Layout{
		Classification: c,
		Header:         header,
		Body:           body,
	}, nil
}

// Keys derives the record keys from the header grid.
func (l *Layout) Keys() KeyList {
	return DeriveKeys(l.Header, l.Classification.HeaderRows)
}

// Full joins the header and body grids column by column, header entries
// first.
func (l *Layout) Full() (Grid, error) {
	return Join(l.Header, l.Body)
}

// Records assembles the record mapping.
func (l *Layout) Records() (*Records, error) {
	if l.Header.ColumnCount() != l.Body.ColumnCount() {
		return nil, &ColumnCountMismatchError{
			HeaderColumns: l.Header.ColumnCount(),
			BodyColumns:   l.Body.ColumnCount(),
		}
	}
	return Assemble(l.Keys(), l.Body, l.Classification.Dimensions)
}

// Join appends each body column to the matching header column. Both grids
// must have the same column count.
func Join(header, body Grid) (Grid, error) {
	if header.ColumnCount() != body.ColumnCount() {
		return Grid{}, &ColumnCountMismatchError{
			HeaderColumns: header.ColumnCount(),
			BodyColumns:   body.ColumnCount(),
		}
	}

	columns := make([]Column, header.ColumnCount())
	for i := range header.Columns {
		col := make(Column, 0, len(header.Columns[i])+len(body.Columns[i]))
		col = append(col, header.Columns[i]...)
		col = append(col, body.Columns[i]...)
		columns[i] = col
	}
	return Grid{Columns: columns}, nil
}
