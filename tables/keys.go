package tables

import (
	"strings"
)

// KeyList is the ordered list of record keys, one per body column.
type KeyList []string

// Index returns the position of key, or -1.
func (k KeyList) Index(key string) int {
	for i, v := range k {
		if v == key {
			return i
		}
	}
	return -1
}

// DeriveKeys collapses each header grid column into one key.
//
// With a single header row each column's value is its key. With several
// header rows the column's distinct values are used in order: one value is
// the key itself, more values become "first (second, third, ...)", so a
// "Charts" header spanning "USA" and "EU" yields "Charts (USA)" and
// "Charts (EU)". Empty slots are ignored.
//
// Keys are unique: a key derived a second time is dropped, which leaves the
// list shorter than the grid and makes assembly report the mismatch.
func DeriveKeys(header Grid, headerRows int) KeyList {
	if headerRows <= 0 {
		return KeyList{}
	}

	keys := make(KeyList, 0, header.ColumnCount())
	seen := make(map[string]bool, header.ColumnCount())
	for _, col := range header.Columns {
		var key string
		if headerRows == 1 {
			if len(col) > 0 {
				key = col[0]
			}
		} else {
			key = compositeKey(distinct(col))
		}

		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// compositeKey formats distinct header fragments as "first (rest, ...)".
func compositeKey(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return values[0] + " (" + strings.Join(values[1:], ", ") + ")"
	}
}

// distinct returns the non-empty values of col in first-seen order.
func distinct(col Column) []string {
	values := make([]string, 0, len(col))
	seen := make(map[string]bool, len(col))
	for _, v := range col {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
