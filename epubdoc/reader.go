// Package epubdoc reads the tables of an EPUB publication. Every content
// document in the spine is read as HTML, in reading order.
package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/table2dict/htmldoc"
	"github.com/tsawler/table2dict/model"
)

// Reader-related errors.
var (
	ErrInvalidArchive = errors.New("epub: invalid or corrupted archive")
	ErrMissingContent = errors.New("epub: referenced content file not found")
)

// Reader provides access to the tables of an EPUB publication.
type Reader struct {
	zr       *zip.ReadCloser // nil when opened from an io.ReaderAt
	title    string
	chapters int
	tables   []*model.Table
}

// Open opens an EPUB file from a path.
func Open(filePath string) (*Reader, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	r := &Reader{zr: zr}
	if err := r.init(&zr.Reader); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// OpenReader opens an EPUB from an io.ReaderAt.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	r := &Reader{}
	if err := r.init(zr); err != nil {
		return nil, err
	}
	return r, nil
}

// init parses the container, the package document and every spine item.
func (r *Reader) init(zr *zip.Reader) error {
	// Check for DRM - REJECT if found
	if err := checkForDRM(zr); err != nil {
		return err
	}

	opfPath, err := parseContainer(zr)
	if err != nil {
		return err
	}

	pkg, err := parseOPF(zr, opfPath)
	if err != nil {
		return err
	}
	r.title = pkg.title

	for _, href := range pkg.spine {
		content, err := readFile(zr, href)
		if errors.Is(err, ErrMissingContent) {
			// Skip missing files but continue
			continue
		}
		if err != nil {
			return err
		}

		chapter, err := htmldoc.OpenReader(bytes.NewReader(content))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", href, err)
		}
		r.chapters++
		for _, t := range chapter.Tables() {
			t.Index = len(r.tables)
			r.tables = append(r.tables, t)
		}
	}
	return nil
}

// Close closes the reader and releases resources.
func (r *Reader) Close() error {
	if r.zr != nil {
		err := r.zr.Close()
		r.zr = nil
		return err
	}
	return nil
}

// Title returns the dc:title of the package metadata.
func (r *Reader) Title() string {
	return r.title
}

// ChapterCount returns the number of spine documents that were read.
func (r *Reader) ChapterCount() int {
	return r.chapters
}

// TableCount returns the number of tables across all chapters.
func (r *Reader) TableCount() int {
	return len(r.tables)
}

// Tables returns every table in reading order.
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

// readFile reads a file from the ZIP archive.
func readFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingContent, name)
}
