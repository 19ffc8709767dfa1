// Package xlsx reads worksheets of an XLSX workbook as tables.
package xlsx

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/table2dict/model"
)

// ErrSheetNotFound is returned when a named sheet does not exist.
var ErrSheetNotFound = errors.New("xlsx: sheet not found")

// Options controls how worksheets become tables.
type Options struct {
	// HeaderRows is the number of leading rows that hold header cells.
	// Values below 1 mean 1.
	HeaderRows int

	// RowHeaders marks the first cell of every body row as a header cell,
	// which makes the table two-dimensional.
	RowHeaders bool

	// Sheet restricts reading to the named sheet.
	Sheet string
}

func (o Options) headerRows() int {
	return max(o.HeaderRows, 1)
}

// Reader provides access to the worksheets of an XLSX workbook.
type Reader struct {
	file   *excelize.File
	opts   Options
	sheets []*Sheet
}

// Open opens an XLSX file for reading.
func Open(filename string, opts Options) (*Reader, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return newReader(f, opts)
}

// OpenReader reads an XLSX workbook from r.
func OpenReader(r io.Reader, opts Options) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return newReader(f, opts)
}

func newReader(f *excelize.File, opts Options) (*Reader, error) {
	r := &Reader{file: f, opts: opts}
	if err := r.parseWorksheets(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// parseWorksheets loads every sheet, or only the one named in the options.
func (r *Reader) parseWorksheets() error {
	names := r.file.GetSheetList()
	if r.opts.Sheet != "" {
		found := false
		for _, name := range names {
			if name == r.opts.Sheet {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrSheetNotFound, r.opts.Sheet)
		}
		names = []string{r.opts.Sheet}
	}

	for i, name := range names {
		sheet, err := r.parseWorksheet(name, i)
		if err != nil {
			return fmt.Errorf("parsing sheet %q: %w", name, err)
		}
		r.sheets = append(r.sheets, sheet)
	}
	return nil
}

func (r *Reader) parseWorksheet(name string, index int) (*Sheet, error) {
	rows, err := r.file.GetRows(name)
	if err != nil {
		return nil, err
	}

	merges, err := r.file.GetMergeCells(name)
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{
		Name:  name,
		Index: index,
		Rows:  rows,
	}
	for _, mc := range merges {
		region, err := ParseRangeRef(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		sheet.MergedRegions = append(sheet.MergedRegions, region)
	}
	return sheet, nil
}

// SheetCount returns the number of sheets read.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// SheetNames returns the names of the sheets read, in workbook order.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns a sheet by index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.sheets) {
		return nil, fmt.Errorf("sheet index %d out of range [0, %d)", index, len(r.sheets))
	}
	return r.sheets[index], nil
}

// SheetByName returns a sheet by name.
func (r *Reader) SheetByName(name string) (*Sheet, error) {
	for _, s := range r.sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// TableCount returns the number of tables, one per sheet.
func (r *Reader) TableCount() int {
	return len(r.sheets)
}

// Tables converts every sheet to a table captioned with the sheet name.
func (r *Reader) Tables() []*model.Table {
	tables := make([]*model.Table, len(r.sheets))
	for i, s := range r.sheets {
		tables[i] = sheetToTable(s, r.opts)
		tables[i].Index = i
	}
	return tables
}

// Document returns the tables wrapped in a model.Document.
func (r *Reader) Document() (*model.Document, error) {
	doc := model.NewDocument()
	for _, t := range r.Tables() {
		doc.AddTable(t)
	}
	return doc, nil
}
