// Package odt reads the tables of an ODT (OpenDocument Text) document.
package odt

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/table2dict/model"
)

// ErrMissingContent is returned when the package has no content.xml.
var ErrMissingContent = errors.New("odt: missing content.xml")

const (
	contentPart = "content.xml"
	metaPart    = "meta.xml"
)

// Reader provides access to the tables of an ODT document.
type Reader struct {
	zipReader *zip.ReadCloser // nil when opened from an io.ReaderAt
	files     []*zip.File
	title     string
	tables    []*model.Table
}

// Open opens an ODT file for reading.
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

// OpenReader reads an ODT package of the given size from r.
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

// Title returns the dc:title of the document metadata, if any.
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
	f := r.getFile(contentPart)
	if f == nil {
		return ErrMissingContent
	}

	root, err := parseFile(f)
	if err != nil {
		return fmt.Errorf("parsing content: %w", err)
	}
	if r.tables, err = parseTables(root); err != nil {
		return fmt.Errorf("parsing content: %w", err)
	}

	// Metadata is optional
	if meta := r.getFile(metaPart); meta != nil {
		if doc, err := parseFile(meta); err == nil {
			if title := xmlquery.FindOne(doc, "//*[local-name()='meta']/*[local-name()='title']"); title != nil {
				r.title = strings.TrimSpace(title.InnerText())
			}
		}
	}
	return nil
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

func parseFile(f *zip.File) (*xmlquery.Node, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return xmlquery.Parse(rc)
}
