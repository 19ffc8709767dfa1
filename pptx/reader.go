// Package pptx reads the tables of a PPTX (Office Open XML Presentation)
// deck.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/table2dict/model"
)

// ErrMissingPart is returned when the package lacks a required part.
var ErrMissingPart = errors.New("pptx: missing required part")

// Reader provides access to the tables of a PPTX deck.
type Reader struct {
	zipReader *zip.ReadCloser // nil when opened from an io.ReaderAt
	files     []*zip.File
	title     string
	slides    int
	tables    []*model.Table
}

// Open opens a PPTX file for reading.
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

// OpenReader reads a PPTX package of the given size from r.
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

// Title returns the deck title from the core properties, if any.
func (r *Reader) Title() string {
	return r.title
}

// SlideCount returns the number of slides in the deck.
func (r *Reader) SlideCount() int {
	return r.slides
}

// TableCount returns the number of tables across all slides.
func (r *Reader) TableCount() int {
	return len(r.tables)
}

// Tables returns every table, slide by slide.
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

	slides := r.slideFiles()
	r.slides = len(slides)
	for _, name := range slides {
		data, err := r.getFileContent(name)
		if err != nil {
			return err
		}

		var slide slideXML
		if err := xml.Unmarshal(data, &slide); err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		for _, t := range slideTables(&slide.CSld.SpTree) {
			t.Index = len(r.tables)
			r.tables = append(r.tables, t)
		}
	}

	r.parseCoreProperties()
	return nil
}

// validate checks that required PPTX parts exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	for _, name := range required {
		if r.getFile(name) == nil {
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}
	return nil
}

// slideFiles returns the slide part names ordered by slide number.
func (r *Reader) slideFiles() []string {
	var names []string
	for _, f := range r.files {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return slideNumber(names[i]) < slideNumber(names[j])
	})
	return names
}

// slideNumber extracts N from a path like "ppt/slides/slideN.xml".
func slideNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml"))
	if err != nil {
		return 0
	}
	return n
}

// parseCoreProperties reads the title from docProps/core.xml.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	var props corePropertiesXML
	if xml.Unmarshal(data, &props) == nil {
		r.title = strings.TrimSpace(props.Title)
	}
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

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
