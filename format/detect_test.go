package format

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{HTML, "HTML"},
		{DOCX, "DOCX"},
		{XLSX, "XLSX"},
		{ODT, "ODT"},
		{PPTX, "PPTX"},
		{EPUB, "EPUB"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{HTML, ".html"},
		{DOCX, ".docx"},
		{XLSX, ".xlsx"},
		{ODT, ".odt"},
		{PPTX, ".pptx"},
		{EPUB, ".epub"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"singles.html", HTML},
		{"singles.HTML", HTML},
		{"singles.htm", HTML},
		{"singles.xhtml", HTML},
		{"singles.docx", DOCX},
		{"singles.Docx", DOCX},
		{"singles.xlsx", XLSX},
		{"singles.xlsm", XLSX},
		{"singles.odt", ODT},
		{"singles.pptx", PPTX},
		{"singles.epub", EPUB},
		{"singles.pdf", Unknown},
		{"singles.txt", Unknown},
		{"singles", Unknown},
		{"", Unknown},
		{"/path/to/file.docx", DOCX},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "ZIP magic bytes (DOCX/XLSX)",
			data: []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00},
			want: Unknown, // ZIP needs further inspection
		},
		{
			name: "HTML with DOCTYPE",
			data: []byte("<!DOCTYPE html>\n<html>"),
			want: HTML,
		},
		{
			name: "HTML with html tag",
			data: []byte("<html><head>"),
			want: HTML,
		},
		{
			name: "table fragment",
			data: []byte("<table><tr><th>Year</th></tr></table>"),
			want: HTML,
		},
		{
			name: "byte order mark and whitespace",
			data: []byte("\xef\xbb\xbf  \n  <!DOCTYPE HTML PUBLIC"),
			want: HTML,
		},
		{
			name: "XHTML",
			data: []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`),
			want: HTML,
		},
		{
			name: "plain XML",
			data: []byte(`<?xml version="1.0"?><catalog/>`),
			want: Unknown,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
		{
			name: "short data",
			data: []byte{0x50, 0x4B},
			want: Unknown,
		},
		{
			name: "text file",
			data: []byte("Hello, World!"),
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

// zipWith builds an archive holding empty files with the given names.
func zipWith(t *testing.T, names ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		if _, err := zw.Create(name); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"html", []byte("<!DOCTYPE html>\n<html><body></body></html>"), HTML},
		{"docx", zipWith(t, "[Content_Types].xml", "word/document.xml"), DOCX},
		{"xlsx", zipWith(t, "[Content_Types].xml", "xl/workbook.xml", "xl/worksheets/sheet1.xml"), XLSX},
		{"odt", zipWith(t, "mimetype", "content.xml", "meta.xml"), ODT},
		{"pptx", zipWith(t, "[Content_Types].xml", "ppt/presentation.xml"), PPTX},
		{"epub", zipWith(t, "mimetype", "META-INF/container.xml", "OEBPS/content.opf"), EPUB},
		{"other zip", zipWith(t, "META-INF/MANIFEST.MF", "Main.class"), Unknown},
		{"plain text", []byte("Hello, World! This is plain text."), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_OpenDocumentMimeType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     Format
	}{
		{"application/vnd.oasis.opendocument.text", ODT},
		{"application/vnd.oasis.opendocument.spreadsheet", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			for name, content := range map[string]string{"mimetype": tt.mimeType, "content.xml": "<office:document-content/>"} {
				w, err := zw.Create(name)
				if err != nil {
					t.Fatalf("failed to create %s: %v", name, err)
				}
				w.Write([]byte(content))
			}
			if err := zw.Close(); err != nil {
				t.Fatalf("failed to close zip: %v", err)
			}

			got, err := DetectFromReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_CorruptZIP(t *testing.T) {
	data := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00}
	if _, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("DetectFromReader() expected error for truncated ZIP")
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	// Content wins over a misleading extension.
	misnamed := filepath.Join(dir, "table.xlsx")
	if err := os.WriteFile(misnamed, zipWith(t, "word/document.xml"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if got, err := DetectFile(misnamed); err != nil || got != DOCX {
		t.Errorf("DetectFile(misnamed) = %v, %v, want DOCX", got, err)
	}

	// Inconclusive content falls back to the extension.
	snippet := filepath.Join(dir, "snippet.htm")
	if err := os.WriteFile(snippet, []byte("Year and album"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if got, err := DetectFile(snippet); err != nil || got != HTML {
		t.Errorf("DetectFile(snippet) = %v, %v, want HTML", got, err)
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.html")); err == nil {
		t.Error("DetectFile() expected error for missing file")
	}
}
