package table2dict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/table2dict/docx"
	"github.com/tsawler/table2dict/epubdoc"
	"github.com/tsawler/table2dict/format"
	"github.com/tsawler/table2dict/htmldoc"
	"github.com/tsawler/table2dict/model"
	"github.com/tsawler/table2dict/odt"
	"github.com/tsawler/table2dict/pptx"
	"github.com/tsawler/table2dict/tables"
	"github.com/tsawler/table2dict/xlsx"
)

var (
	// ErrNoSource is returned when a Converter has neither a file nor rows.
	ErrNoSource = errors.New("table2dict: no source specified")
	// ErrUnsupportedFormat is returned for files that are not a supported table source.
	ErrUnsupportedFormat = errors.New("table2dict: unsupported file format")
	// ErrTableNotFound is returned when the selected table index does not exist.
	ErrTableNotFound = errors.New("table2dict: table not found")
)

// Converter provides a fluent interface for turning a table into records.
// Each configuration method returns a new Converter, so a partially
// configured Converter can be reused as a template.
type Converter struct {
	// Source
	filename string
	format   format.Format

	// Loaded tables
	doc    *model.Document
	loaded bool

	// Configuration
	options convertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a copy of its options.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		format:   c.format,
		doc:      c.doc,
		loaded:   c.loaded,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// reloading returns a clone whose file will be read again, for options
// that change how a file is read.
func (c *Converter) reloading() *Converter {
	next := c.clone()
	if next.filename != "" {
		next.doc = nil
		next.loaded = false
	}
	return next
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Table selects a table by its position in the document (0-indexed).
// For XLSX files each sheet is one table.
func (c *Converter) Table(index int) *Converter {
	next := c.clone()
	next.options.tableIndex = index
	return next
}

// Mode selects the record flavour returned by Dict and JSON: "normal"
// (plain maps) or "ordered" (header order preserved). An unknown mode fails
// every later terminal operation with tables.ErrInvalidMode.
func (c *Converter) Mode(mode string) *Converter {
	next := c.clone()
	m, err := tables.ParseMode(mode)
	if err != nil {
		if next.err == nil {
			next.err = err
		}
		return next
	}
	next.options.mode = m
	return next
}

// Indent sets the JSON indent width. Zero produces compact JSON.
func (c *Converter) Indent(n int) *Converter {
	next := c.clone()
	if n < 0 {
		if next.err == nil {
			next.err = fmt.Errorf("table2dict: indent must not be negative, got %d", n)
		}
		return next
	}
	next.options.indent = n
	return next
}

// HeaderRows marks the first n rows of the selected table as header rows,
// overriding the cell kinds the source declared.
func (c *Converter) HeaderRows(n int) *Converter {
	next := c.reloading()
	next.options.headerRows = max(n, 0)
	return next
}

// RowHeaders marks the first cell of every body row as a header cell, which
// makes the table two-dimensional.
func (c *Converter) RowHeaders() *Converter {
	next := c.reloading()
	next.options.rowHeaders = true
	return next
}

// Sheet restricts an XLSX workbook to the named sheet. It has no effect on
// other formats.
func (c *Converter) Sheet(name string) *Converter {
	next := c.reloading()
	next.options.sheet = name
	return next
}

// Charset sets the input encoding of an HTML file (a WHATWG label such as
// "windows-1252"). It has no effect on other formats.
func (c *Converter) Charset(name string) *Converter {
	next := c.reloading()
	next.options.charset = name
	return next
}

// Logger sets the logger used for debug output. A nil logger discards.
func (c *Converter) Logger(l *slog.Logger) *Converter {
	next := c.clone()
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	next.options.logger = l
	return next
}

// ============================================================================
// Loading
// ============================================================================

// ensureDocument reads the source file if not already loaded.
func (c *Converter) ensureDocument() error {
	if c.loaded {
		return nil
	}
	if c.filename == "" {
		return ErrNoSource
	}

	f, err := format.DetectFile(c.filename)
	if err != nil {
		return err
	}
	c.format = f

	var doc *model.Document
	switch f {
	case format.HTML:
		doc, err = c.loadHTML()
	case format.DOCX:
		doc, err = c.loadDOCX()
	case format.XLSX:
		doc, err = c.loadXLSX()
	case format.ODT:
		doc, err = c.loadODT()
	case format.PPTX:
		doc, err = c.loadPPTX()
	case format.EPUB:
		doc, err = c.loadEPUB()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.filename)
	}
	if err != nil {
		return err
	}

	c.options.logger.Debug("source loaded",
		"file", c.filename,
		"format", f.String(),
		"tables", doc.TableCount())

	c.doc = doc
	c.loaded = true
	return nil
}

func (c *Converter) loadHTML() (*model.Document, error) {
	r, err := htmldoc.OpenWithOptions(c.filename, htmldoc.Options{Charset: c.options.charset})
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML: %w", err)
	}
	defer r.Close()
	return r.Document()
}

func (c *Converter) loadDOCX() (*model.Document, error) {
	r, err := docx.Open(c.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()
	return r.Document()
}

func (c *Converter) loadXLSX() (*model.Document, error) {
	r, err := xlsx.Open(c.filename, xlsx.Options{
		HeaderRows: c.options.headerRows,
		RowHeaders: c.options.rowHeaders,
		Sheet:      c.options.sheet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer r.Close()
	return r.Document()
}

func (c *Converter) loadODT() (*model.Document, error) {
	r, err := odt.Open(c.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open ODT: %w", err)
	}
	defer r.Close()
	return r.Document()
}

func (c *Converter) loadPPTX() (*model.Document, error) {
	r, err := pptx.Open(c.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PPTX: %w", err)
	}
	defer r.Close()
	return r.Document()
}

func (c *Converter) loadEPUB() (*model.Document, error) {
	r, err := epubdoc.Open(c.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}
	defer r.Close()
	return r.Document()
}

// table returns the selected table with any cell kind overrides applied.
func (c *Converter) table() (*model.Table, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := c.ensureDocument(); err != nil {
		c.err = err
		return nil, err
	}

	t := c.doc.GetTable(c.options.tableIndex)
	if t == nil {
		return nil, fmt.Errorf("%w: index %d, document has %d",
			ErrTableNotFound, c.options.tableIndex, c.doc.TableCount())
	}
	if c.options.overridesKinds() {
		t = withKinds(t, c.options.headerRows, c.options.rowHeaders)
	}
	return t, nil
}

// withKinds returns a copy of t whose first headerRows rows are header-type
// and, when rowHeaders is set, whose body rows start with a header cell.
func withKinds(t *model.Table, headerRows int, rowHeaders bool) *model.Table {
	out := &model.Table{Caption: t.Caption, Index: t.Index, Rows: make([]model.Row, len(t.Rows))}
	for i, row := range t.Rows {
		cells := append(model.Row(nil), row...)
		for j := range cells {
			switch {
			case headerRows > 0 && i < headerRows:
				cells[j].Kind = model.KindHeader
			case headerRows > 0:
				cells[j].Kind = model.KindData
			}
		}
		if rowHeaders && i >= headerRows && len(cells) > 0 {
			cells[0].Kind = model.KindHeader
		}
		out.Rows[i] = cells
	}
	return out
}

// ============================================================================
// Terminal Operations
// ============================================================================

// TableCount returns the number of tables in the source.
func (c *Converter) TableCount() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if err := c.ensureDocument(); err != nil {
		c.err = err
		return 0, err
	}
	return c.doc.TableCount(), nil
}

// Rows returns the authored rows of the selected table.
func (c *Converter) Rows() ([]model.Row, error) {
	t, err := c.table()
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

// Layout classifies the selected table and builds its header and body grids.
func (c *Converter) Layout() (*tables.Layout, error) {
	t, err := c.table()
	if err != nil {
		return nil, err
	}

	layout, err := tables.Analyze(t.Rows)
	if err != nil {
		return nil, err
	}

	c.options.logger.Debug("table analyzed",
		"table", t.Index,
		"dimensions", string(layout.Classification.Dimensions),
		"header_rows", layout.Classification.HeaderRows,
		"header_columns", layout.Header.ColumnCount(),
		"body_columns", layout.Body.ColumnCount(),
		"body_rows", layout.Body.RowCount())
	return layout, nil
}

// Info returns the classification of the selected table.
func (c *Converter) Info() (tables.Classification, error) {
	t, err := c.table()
	if err != nil {
		return tables.Classification{}, err
	}
	return tables.Classify(t.Rows)
}

// Header returns the header grid as one list per column.
func (c *Converter) Header() ([][]string, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	return layout.Header.Lists(), nil
}

// Body returns the body grid as one list per column.
func (c *Converter) Body() ([][]string, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	return layout.Body.Lists(), nil
}

// List returns the header and body grids joined column by column.
func (c *Converter) List() ([][]string, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	full, err := layout.Full()
	if err != nil {
		return nil, err
	}
	return full.Lists(), nil
}

// Keys returns the record keys derived from the header.
func (c *Converter) Keys() ([]string, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	return layout.Keys(), nil
}

// Records assembles the record mapping of the selected table.
func (c *Converter) Records() (*tables.Records, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	records, err := layout.Records()
	if err != nil {
		return nil, err
	}

	c.options.logger.Debug("records assembled", "records", records.Len())
	return records, nil
}

// Dict returns the record mapping in the configured mode. See
// tables.Records.Value for the concrete types.
func (c *Converter) Dict() (any, error) {
	records, err := c.Records()
	if err != nil {
		return nil, err
	}
	return records.Value(c.options.mode)
}

// JSON returns the record mapping as indented JSON. Keys keep header order
// whatever the mode; the mode only selects the Go value returned by Dict.
func (c *Converter) JSON() ([]byte, error) {
	records, err := c.Records()
	if err != nil {
		return nil, err
	}
	return EncodeJSON(records, c.options.indent)
}

// Close releases the loaded tables. It is safe to call Close multiple times.
func (c *Converter) Close() error {
	if c.filename != "" {
		c.doc = nil
		c.loaded = false
	}
	return nil
}

// EncodeJSON marshals v without HTML escaping, indenting by indent spaces.
// The result has no trailing newline.
func EncodeJSON(v any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
