// Package table2dict converts tables found in HTML, DOCX, XLSX, ODT, PPTX
// and EPUB files into key/value records.
//
// A one-dimensional table (header rows over data rows) becomes a map from
// each column key to its column values. A two-dimensional table, whose body
// rows each start with a header cell, becomes a map from those leading
// values to a map of the remaining keys. Multi-row headers and row/column
// spans are flattened first, so a "Peak chart positions" header spanning
// "AUS" and "NZ" yields the keys "Peak chart positions (AUS)" and
// "Peak chart positions (NZ)".
//
// Basic usage:
//
//	data, err := table2dict.Open("singles.html").JSON()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(string(data))
//
// With options:
//
//	records, err := table2dict.Open("report.xlsx").
//	    Sheet("Singles").
//	    HeaderRows(2).
//	    RowHeaders().
//	    Mode("ordered").
//	    Dict()
//
// The lower-level tables package exposes each stage of the conversion.
package table2dict

import (
	"github.com/tsawler/table2dict/model"
)

// Open returns a Converter for a file. The format is detected from the
// content, falling back to the extension. Nothing is read until a terminal
// operation is called.
//
// Example:
//
//	keys, err := table2dict.Open("singles.docx").Table(1).Keys()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromTable returns a Converter for a table that is already in memory.
func FromTable(t *model.Table) *Converter {
	doc := model.NewDocument()
	if t != nil {
		doc.Tables = append(doc.Tables, t)
	}
	return &Converter{
		doc:     doc,
		loaded:  true,
		options: defaultOptions(),
	}
}

// FromRows returns a Converter for rows that are already in memory.
//
// Example:
//
//	info, err := table2dict.FromRows(rows).Info()
func FromRows(rows []model.Row) *Converter {
	return FromTable(model.NewTable(rows...))
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	keys := table2dict.Must(table2dict.Open("singles.html").Keys())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
