package table2dict

import (
	"log/slog"

	"github.com/tsawler/table2dict/tables"
)

// DefaultIndent is the JSON indent width used unless Indent is called.
const DefaultIndent = 4

// convertOptions holds configuration for a conversion.
type convertOptions struct {
	// Source selection
	tableIndex int
	sheet      string

	// Cell kinds; headerRows 0 keeps the kinds the source declared
	headerRows int
	rowHeaders bool

	// Decoding
	charset string

	// Output
	mode   tables.Mode
	indent int

	logger *slog.Logger
}

// defaultOptions returns the default conversion options.
func defaultOptions() convertOptions {
	return convertOptions{
		tableIndex: 0,
		mode:       tables.ModeNormal,
		indent:     DefaultIndent,
		logger:     slog.New(slog.DiscardHandler),
	}
}

// clone creates a copy of convertOptions. The logger is shared.
func (o convertOptions) clone() convertOptions {
	return o
}

// overridesKinds reports whether cell kinds are reassigned after loading.
func (o convertOptions) overridesKinds() bool {
	return o.headerRows > 0 || o.rowHeaders
}
