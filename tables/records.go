package tables

import (
	"encoding/json"
	"strings"
)

// Mode selects the flavour of record mapping returned by Records.Value.
type Mode string

const (
	// ModeNormal returns plain Go maps.
	ModeNormal Mode = "normal"
	// ModeOrdered returns OrderedMap values that keep header order.
	ModeOrdered Mode = "ordered"
)

// ParseMode validates a mode name (case-insensitive). The empty string is
// ModeNormal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeNormal):
		return ModeNormal, nil
	case string(ModeOrdered):
		return ModeOrdered, nil
	default:
		return "", &InvalidModeError{Mode: s}
	}
}

// Records is the record mapping of one table. Exactly one of Flat and Nested
// is set, according to Dimensions.
type Records struct {
	Dimensions Dimensions

	// Flat maps each key to its whole body column (1D tables).
	Flat *OrderedMap[[]string]

	// Nested maps each leading-column value to the rest of its row (2D tables).
	Nested *OrderedMap[*OrderedMap[string]]
}

// Assemble pairs keys with the columns of body.
//
// For 1D tables each key maps to its entire column in row order. For 2D
// tables the leading body column supplies the top-level keys, one per body
// row, and each maps to the remaining keys paired with that row's values.
//
// The key count must equal the body column count; otherwise Assemble fails
// with a ColumnCountMismatchError and returns no partial mapping.
func Assemble(keys KeyList, body Grid, dims Dimensions) (*Records, error) {
	if len(keys) != body.ColumnCount() {
		return nil, &ColumnCountMismatchError{
			HeaderColumns: len(keys),
			BodyColumns:   body.ColumnCount(),
		}
	}

	if dims == TwoD {
		return assembleNested(keys, body)
	}
	return assembleFlat(keys, body), nil
}

func assembleFlat(keys KeyList, body Grid) *Records {
	flat := NewOrderedMap[[]string](len(keys))
	for i, key := range keys {
		flat.Set(key, append([]string{}, body.Columns[i]...))
	}
	return &Records{Dimensions: OneD, Flat: flat}
}

func assembleNested(keys KeyList, body Grid) (*Records, error) {
	nested := NewOrderedMap[*OrderedMap[string]](body.RowCount())
	if body.ColumnCount() == 0 {
		return &Records{Dimensions: TwoD, Nested: nested}, nil
	}

	subKeys := keys[1:]
	subColumns := body.Columns[1:]
	for row, top := range body.Columns[0] {
		if nested.Has(top) {
			return nil, &DuplicateKeyError{Key: top, Row: row}
		}
		record := NewOrderedMap[string](len(subKeys))
		for i, key := range subKeys {
			record.Set(key, subColumns[i][row])
		}
		nested.Set(top, record)
	}
	return &Records{Dimensions: TwoD, Nested: nested}, nil
}

// Len returns the number of top-level keys.
func (r *Records) Len() int {
	if r.Nested != nil {
		return r.Nested.Len()
	}
	if r.Flat != nil {
		return r.Flat.Len()
	}
	return 0
}

// Value returns the mapping in the requested flavour:
//
//	ModeNormal, 1D:  map[string][]string
//	ModeNormal, 2D:  map[string]map[string]string
//	ModeOrdered, 1D: *OrderedMap[[]string]
//	ModeOrdered, 2D: *OrderedMap[*OrderedMap[string]]
func (r *Records) Value(mode Mode) (any, error) {
	switch mode {
	case ModeOrdered:
		if r.Nested != nil {
			return r.Nested, nil
		}
		return r.flat(), nil
	case ModeNormal:
		if r.Nested != nil {
			out := make(map[string]map[string]string, r.Nested.Len())
			for k, v := range r.Nested.All() {
				out[k] = v.Map()
			}
			return out, nil
		}
		return r.flat().Map(), nil
	default:
		return nil, &InvalidModeError{Mode: string(mode)}
	}
}

// MarshalJSON encodes the records in header order.
func (r *Records) MarshalJSON() ([]byte, error) {
	if r.Nested != nil {
		return r.Nested.MarshalJSON()
	}
	return r.flat().MarshalJSON()
}

var _ json.Marshaler = (*Records)(nil)

func (r *Records) flat() *OrderedMap[[]string] {
	if r.Flat == nil {
		return NewOrderedMap[[]string](0)
	}
	return r.Flat
}
