// Package format provides file format detection for table sources.
package format

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported table source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML document or fragment.
	HTML
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// ODT indicates an OpenDocument text (.odt) document.
	ODT
	// PPTX indicates a Microsoft PowerPoint (.pptx) deck.
	PPTX
	// EPUB indicates an EPUB publication.
	EPUB
)

// odtMimeType is the content of the mimetype entry of an ODT package.
const odtMimeType = "application/vnd.oasis.opendocument.text"

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case ODT:
		return "ODT"
	case PPTX:
		return "PPTX"
	case EPUB:
		return "EPUB"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	case ODT:
		return ".odt"
	case PPTX:
		return ".pptx"
	case EPUB:
		return ".epub"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".docx":
		return DOCX
	case ".xlsx", ".xlsm":
		return XLSX
	case ".odt":
		return ODT
	case ".pptx":
		return PPTX
	case ".epub":
		return EPUB
	default:
		return Unknown
	}
}

// DetectFile inspects the content of a file, falling back to its extension
// when the content is inconclusive.
func DetectFile(filename string) (Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Unknown, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, fmt.Errorf("stat file: %w", err)
	}

	detected, err := DetectFromReader(f, info.Size())
	if err != nil {
		return Unknown, err
	}
	if detected == Unknown {
		return Detect(filename), nil
	}
	return detected, nil
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown for ZIP archives; use DetectFromReader to tell the
// packaged formats apart.
func DetectFromMagic(data []byte) Format {
	if isZIP(data) {
		return Unknown
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

func isZIP(data []byte) bool {
	// PK\x03\x04
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	// Skip a UTF-8 byte order mark and leading whitespace
	s := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	s = strings.TrimLeft(s, " \t\r\n")
	if s == "" {
		return false
	}

	upper := strings.ToUpper(s[:min(512, len(s))])
	for _, prefix := range []string{"<!DOCTYPE HTML", "<HTML", "<HEAD", "<BODY", "<TABLE", "<!--"} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}

	return false
}

// DetectFromReader inspects the content to determine format.
// ZIP archives are opened to tell the packaged formats apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if isZIP(magic) {
		return detectZIPFormat(r, size)
	}
	if detectHTMLMagic(magic) {
		return HTML, nil
	}
	return Unknown, nil
}

// detectZIPFormat looks for the main part of each packaged format. An
// OpenDocument package is recognized by its content.xml together with a
// text mimetype entry, or no mimetype entry at all.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	var hasContent bool
	mimeType := ""
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return DOCX, nil
		case "xl/workbook.xml":
			return XLSX, nil
		case "ppt/presentation.xml":
			return PPTX, nil
		case "META-INF/container.xml":
			return EPUB, nil
		case "content.xml":
			hasContent = true
		case "mimetype":
			if mimeType, err = readMimeType(f); err != nil {
				return Unknown, err
			}
		}
	}

	if hasContent && (mimeType == "" || mimeType == odtMimeType) {
		return ODT, nil
	}
	return Unknown, nil
}

func readMimeType(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, 256))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
