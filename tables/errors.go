package tables

import (
	"errors"
	"fmt"
)

var (
	ErrUndeterminedDimension = errors.New("tables: cannot determine table dimensions")
	ErrColumnIndexConflict   = errors.New("tables: no open column slot for cell")
	ErrColumnCountMismatch   = errors.New("tables: header and body column counts differ")
	ErrInvalidMode           = errors.New("tables: invalid output mode")
	ErrDuplicateKey          = errors.New("tables: duplicate record key")
)

// UndeterminedDimensionError reports a table whose sampled rows fit neither
// the one-dimensional nor the two-dimensional pattern.
type UndeterminedDimensionError struct {
	SampledRows int
	HeaderRows  int // rows made only of header cells
	TitledRows  int // rows with exactly one leading header cell
	HeaderCells int
	DataCells   int
}

func (e *UndeterminedDimensionError) Error() string {
	return fmt.Sprintf("%v: %d sampled rows (%d header rows, %d titled rows, %d header cells, %d data cells)",
		ErrUndeterminedDimension, e.SampledRows, e.HeaderRows, e.TitledRows, e.HeaderCells, e.DataCells)
}

func (e *UndeterminedDimensionError) Unwrap() error {
	return ErrUndeterminedDimension
}

// ColumnIndexConflictError reports a cell that could not be placed because
// the declared spans leave no open slot for it.
type ColumnIndexConflictError struct {
	Kind   GridKind
	Row    int // row index within the grid
	Cell   int // cell index within the authored row
	Column int // target column, or -1 when no open column exists
	Text   string
}

func (e *ColumnIndexConflictError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("%v: %s row %d cell %d (%q): every column is already filled",
			ErrColumnIndexConflict, e.Kind, e.Row, e.Cell, e.Text)
	}
	return fmt.Sprintf("%v: %s row %d cell %d (%q): column %d is outside the grid or already filled",
		ErrColumnIndexConflict, e.Kind, e.Row, e.Cell, e.Text, e.Column)
}

func (e *ColumnIndexConflictError) Unwrap() error {
	return ErrColumnIndexConflict
}

// ColumnCountMismatchError reports header and body grids (or a key list and
// a body grid) that disagree on the number of columns.
type ColumnCountMismatchError struct {
	HeaderColumns int
	BodyColumns   int
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("%v: header has %d, body has %d", ErrColumnCountMismatch, e.HeaderColumns, e.BodyColumns)
}

func (e *ColumnCountMismatchError) Unwrap() error {
	return ErrColumnCountMismatch
}

// InvalidModeError reports an unrecognized output variant.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("%v: %q (must be %q or %q)", ErrInvalidMode, e.Mode, ModeNormal, ModeOrdered)
}

func (e *InvalidModeError) Unwrap() error {
	return ErrInvalidMode
}

// DuplicateKeyError reports two body rows of a two-dimensional table that
// share the same leading value.
type DuplicateKeyError struct {
	Key string
	Row int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%v: %q repeated at body row %d", ErrDuplicateKey, e.Key, e.Row)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
