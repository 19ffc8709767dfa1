package model

// Document represents every top-level table read from one file
type Document struct {
	Title  string
	Tables []*Table
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Tables: make([]*Table, 0),
	}
}

// AddTable appends a table and stamps its index
func (d *Document) AddTable(table *Table) {
	table.Index = len(d.Tables)
	d.Tables = append(d.Tables, table)
}

// GetTable returns a table by index (0-indexed)
func (d *Document) GetTable(index int) *Table {
	if index < 0 || index >= len(d.Tables) {
		return nil
	}
	return d.Tables[index]
}

// TableCount returns the total number of tables
func (d *Document) TableCount() int {
	return len(d.Tables)
}
