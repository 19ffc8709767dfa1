// Package model provides the intermediate representation for tables read
// from documents.
//
// Every row-source reader (htmldoc, docx, xlsx) produces these types, and the
// tables package consumes them. A [Table] is an ordered list of [Row] values,
// each an ordered list of [Cell] values as authored, left to right.
//
// # Cells
//
// A [Cell] carries its text, its [CellKind] (header-type or data-type) and the
// row and column spans declared by the source:
//
//	cell := model.Cell{Text: "Charts", Kind: model.KindHeader, ColSpan: 2}
//	cell.Cols() // 2
//	cell.Rows() // 1
//
// A span of zero means the source declared none, which behaves exactly like a
// span of one. Readers decide spans once, at ingestion.
//
// # Documents
//
// A [Document] groups every top-level table found in one file, in document
// order, together with the document title when the format has one.
package model
