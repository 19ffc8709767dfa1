// Package docx reads the tables of a DOCX (Office Open XML) document.
package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/table2dict/model"
)

// ErrMissingPart is returned when the package lacks a required part.
var ErrMissingPart = errors.New("docx: missing required part")

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Reader provides access to the tables of a DOCX document.
type Reader struct {
	zipReader *zip.ReadCloser // nil when opened from an io.ReaderAt
	files     []*zip.File
	title     string
	tables    []*model.Table
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     zr.File,
	}
	if err := r.load(); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// OpenReader reads a DOCX package of the given size from r.
func OpenReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	reader := &Reader{files: zr.File}
	if err := reader.load(); err != nil {
		return nil, err
	}
	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// Title returns the document title from the core properties, if any.
func (r *Reader) Title() string {
	return r.title
}

// TableCount returns the number of top-level tables.
func (r *Reader) TableCount() int {
	return len(r.tables)
}

// Tables returns every top-level table in document order.
func (r *Reader) Tables() []*model.Table {
	return r.tables
}

// Document returns the tables wrapped in a model.Document.
func (r *Reader) Document() (*model.Document, error) {
	doc := model.NewDocument()
	doc.Title = r.title
	for _, t := range r.tables {
		doc.AddTable(t)
	}
	return doc, nil
}

func (r *Reader) load() error {
	if err := r.validate(); err != nil {
		return err
	}

	root, err := r.parsePart(documentPart)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	if r.tables, err = parseTables(root); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	// Core properties are optional
	if core, err := r.parsePart(corePart); err == nil {
		if title := xmlquery.FindOne(core, "//*[local-name()='title']"); title != nil {
			r.title = strings.TrimSpace(title.InnerText())
		}
	}
	return nil
}

// validate checks that required DOCX parts exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		documentPart,
	}

	for _, name := range required {
		if r.getFile(name) == nil {
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}
	return nil
}

// parsePart parses one XML part of the package.
func (r *Reader) parsePart(name string) (*xmlquery.Node, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return xmlquery.Parse(rc)
}

// getFile returns a zip.File by name.
func (r *Reader) getFile(name string) *zip.File {
	for _, f := range r.files {
		if f.Name == name {
			return f
		}
	}
	return nil
}
