// Package tables converts authored table rows into normalized tabular data.
//
// The conversion runs in four stages, each a plain function with no I/O and
// no shared state, so different tables can be converted concurrently:
//
//  1. [Classify] samples the leading rows and decides whether the table is
//     one-dimensional (a flat record list) or two-dimensional (a cross-tab
//     keyed by its leading column), and how many header rows it has.
//  2. [BuildGrid] expands the header rows and the body rows, independently,
//     into column-major [Grid] values, replicating every rowspan and colspan
//     into the slots it covers.
//  3. [DeriveKeys] collapses the header grid into one key per column,
//     merging multi-row header fragments into names such as "Charts (USA)".
//  4. [Assemble] pairs the keys with the body grid and produces [Records].
//
// [Analyze] runs the first two stages and returns a [Layout] from which the
// keys, the joined grid and the records are derived:
//
//	layout, err := tables.Analyze(table.Rows)
//	if err != nil {
//	    // handle error
//	}
//	records, err := layout.Records()
//
// # Span placement
//
// Cells of the first row open new columns. Every later cell goes into the
// first column whose slot at the current row is still open; spans from earlier
// rows occupy the slots below them, so authored cells fill whatever is left.
// A cell that cannot be placed is a [ColumnIndexConflictError].
//
// # Errors
//
// Every failure is a typed error that unwraps to a sentinel, so callers can
// use either errors.Is or errors.As:
//
//	var conflict *tables.ColumnIndexConflictError
//	if errors.As(err, &conflict) {
//	    log.Printf("row %d cell %d", conflict.Row, conflict.Cell)
//	}
//	if errors.Is(err, tables.ErrColumnCountMismatch) {
//	    // header and body disagree
//	}
//
// No stage returns a partial result.
package tables
