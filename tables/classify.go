package tables

import (
	"github.com/tsawler/table2dict/model"
)

// SampleRows is the number of leading rows the classifier inspects.
const SampleRows = 9

// Dimensions identifies the shape of a table's records.
type Dimensions string

const (
	// OneD tables are a flat list of records: one key per column.
	OneD Dimensions = "1D"
	// TwoD tables carry a header cell at the start of each body row
	// (a cross-tab); the leading column keys the records.
	TwoD Dimensions = "2D"
)

// Classification describes a table as seen by the classifier
type Classification struct {
	Dimensions  Dimensions `json:"dimensions"`
	HeaderRows  int        `json:"total_header_rows"`
	Columns     int        `json:"total_columns"`
	HeaderCells int        `json:"total_th_cells"`
	DataCells   int        `json:"total_td_cells"`
}

// Classify inspects at most the first SampleRows rows and determines the
// table's dimensionality, its header row count and its column count.
//
// A row made only of header cells is a header row; a row with exactly one
// header cell followed by data cells is a titled row. Header rows without
// titled rows mean 1D, header rows with titled rows mean 2D, and a sample
// with no header cells at all is a 1D body-only table.
func Classify(rows []model.Row) (Classification, error) {
	var (
		c          Classification
		titledRows int
	)

	sample := rows
	if len(sample) > SampleRows {
		sample = sample[:SampleRows]
	}

	for i, row := range sample {
		headerCells := row.HeaderCount()
		dataCells := len(row) - headerCells

		if i == 0 {
			c.Columns = len(row)
		}
		c.HeaderCells += headerCells
		c.DataCells += dataCells

		switch {
		case len(row) > 0 && headerCells == len(row):
			c.HeaderRows++
		case headerCells == 1 && dataCells == len(row)-1:
			titledRows++
		}
	}

	switch {
	case c.HeaderRows > 0 && titledRows == 0:
		c.Dimensions = OneD
	case c.HeaderRows > 0 && titledRows > 0:
		c.Dimensions = TwoD
	case c.HeaderCells == 0 && c.DataCells > 0:
		c.Dimensions = OneD
	default:
		return c, &UndeterminedDimensionError{
			SampledRows: len(sample),
			HeaderRows:  c.HeaderRows,
			TitledRows:  titledRows,
			HeaderCells: c.HeaderCells,
			DataCells:   c.DataCells,
		}
	}

	return c, nil
}
