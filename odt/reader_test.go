package odt

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// buildPackage assembles an ODT package from part names and contents.
func buildPackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// mimetype must be first and uncompressed
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("failed to create mimetype: %v", err)
	}
	mw.Write([]byte("application/vnd.oasis.opendocument.text"))

	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// contentXML wraps text body markup in a content.xml document.
func contentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
                         xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
                         xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0">
  <office:body>
    <office:text>` + body + `</office:text>
  </office:body>
</office:document-content>`
}

const metaXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
                      xmlns:dc="http://purl.org/dc/elements/1.1/">
  <office:meta>
    <dc:title> Discography </dc:title>
  </office:meta>
</office:document-meta>`

// createTestODT writes an ODT file holding body and returns its path.
func createTestODT(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.odt")
	data := buildPackage(t, map[string]string{
		"content.xml": contentXML(body),
		"meta.xml":    metaXML,
	})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write ODT file: %v", err)
	}
	return path
}

// openBody reads a package holding body from memory.
func openBody(t *testing.T, body string) *Reader {
	t.Helper()

	data := buildPackage(t, map[string]string{"content.xml": contentXML(body)})
	r, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	return r
}

func TestOpen(t *testing.T) {
	path := createTestODT(t, table("", row(cell("", "Year")), row(cell("", "1990"))))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.TableCount() != 1 {
		t.Errorf("TableCount() = %d, want 1", r.TableCount())
	}
	if got := r.Title(); got != "Discography" {
		t.Errorf("Title() = %q, want %q", got, "Discography")
	}

	doc, err := r.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Title != "Discography" || doc.TableCount() != 1 {
		t.Errorf("Document() = %q with %d tables, want Discography with 1", doc.Title, doc.TableCount())
	}
}

func TestOpenError_NonExistent(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.odt")); err == nil {
		t.Error("Open() expected error for missing file")
	}
}

func TestOpenError_InvalidZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.odt")
	if err := os.WriteFile(path, []byte("not a zip file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() expected error for invalid ZIP")
	}
}

func TestOpenError_MissingContentXML(t *testing.T) {
	data := buildPackage(t, map[string]string{"meta.xml": metaXML})
	_, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrMissingContent) {
		t.Errorf("OpenReader() error = %v, want ErrMissingContent", err)
	}
}

func TestOpenError_MalformedContent(t *testing.T) {
	data := buildPackage(t, map[string]string{"content.xml": `<office:document-content><office:body></office:document-content>`})
	if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("OpenReader() expected error for malformed content.xml")
	}
}

func TestOpenReader_NoMetadata(t *testing.T) {
	r := openBody(t, "")
	if r.Title() != "" {
		t.Errorf("Title() = %q, want empty", r.Title())
	}
	if r.TableCount() != 0 {
		t.Errorf("TableCount() = %d, want 0", r.TableCount())
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	r, err := Open(createTestODT(t, ""))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
