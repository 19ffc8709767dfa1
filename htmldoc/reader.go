// Package htmldoc reads the tables of an HTML document.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/tsawler/table2dict/model"
)

// ErrUnknownCharset is returned when Options.Charset names no known encoding.
var ErrUnknownCharset = errors.New("htmldoc: unknown charset")

// Reader provides access to the tables of an HTML document.
type Reader struct {
	title  string
	tables []*model.Table
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, Options{})
}

// OpenWithOptions opens an HTML file for reading with the given options.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReaderWithOptions(f, opts)
}

// OpenReader parses HTML from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, Options{})
}

// OpenReaderWithOptions parses HTML from an io.Reader, decoding it to UTF-8
// first.
func OpenReaderWithOptions(r io.Reader, opts Options) (*Reader, error) {
	decoded, err := decode(r, opts.Charset)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{}
	reader.extractTitle(doc)
	reader.collectTables(doc)

	return reader, nil
}

// decode wraps r so that it yields UTF-8.
func decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		decoded, err := charset.NewReader(r, "")
		if err != nil {
			return nil, fmt.Errorf("detecting charset: %w", err)
		}
		return decoded, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	return enc.NewDecoder().Reader(r), nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// Title returns the text of the <title> element.
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

// extractTitle finds the first <title> element.
func (r *Reader) extractTitle(n *html.Node) {
	if title := findElement(n, "title"); title != nil {
		r.title = strings.TrimSpace(getTextContent(title))
	}
}

// collectTables walks the document and parses every table that is not
// itself inside a table.
func (r *Reader) collectTables(n *html.Node) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "table" {
			table := parseTable(n)
			table.Index = len(r.tables)
			r.tables = append(r.tables, table)
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.collectTables(c)
	}
}

// shouldSkipElement returns true if the element never holds table content.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}
