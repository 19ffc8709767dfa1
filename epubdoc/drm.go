package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"path"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrDRMProtected is returned for publications whose content is encrypted.
var ErrDRMProtected = errors.New("epub: DRM-protected content cannot be processed")

// checkForDRM checks if the EPUB has DRM protection.
// Returns ErrDRMProtected if DRM is detected.
func checkForDRM(zr *zip.Reader) error {
	for _, f := range zr.File {
		switch f.Name {
		case "META-INF/rights.xml":
			// Adobe ADEPT DRM indicator - always reject
			return ErrDRMProtected

		case "META-INF/encryption.xml":
			// Font obfuscation is OK, content encryption is not
			if encrypted, err := hasEncryptedContent(zr, f.Name); err != nil || encrypted {
				return ErrDRMProtected
			}
		}
	}
	return nil
}

// hasEncryptedContent reports whether encryption.xml lists a content file
// encrypted with anything other than font obfuscation.
func hasEncryptedContent(zr *zip.Reader, name string) (bool, error) {
	data, err := readFile(zr, name)
	if err != nil {
		return false, err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return false, err
	}

	for _, ed := range xmlquery.Find(doc, "//*[local-name()='EncryptedData']") {
		var algorithm, uri string
		if m := xmlquery.FindOne(ed, "./*[local-name()='EncryptionMethod']"); m != nil {
			algorithm = attr(m, "Algorithm")
		}
		if ref := xmlquery.FindOne(ed, ".//*[local-name()='CipherReference']"); ref != nil {
			uri = attr(ref, "URI")
		}

		if isFontObfuscation(algorithm) {
			continue
		}
		if isContentFile(uri) {
			return true, nil
		}
	}
	return false, nil
}

// isFontObfuscation reports whether algorithm is the Adobe or IDPF font
// obfuscation method.
func isFontObfuscation(algorithm string) bool {
	return strings.Contains(algorithm, "obfuscation") &&
		(strings.Contains(algorithm, "adobe.com") || strings.Contains(algorithm, "idpf.org"))
}

// isContentFile reports whether uri names a document or stylesheet.
func isContentFile(uri string) bool {
	switch strings.ToLower(path.Ext(uri)) {
	case ".xhtml", ".html", ".htm", ".xml", ".css":
		return true
	}
	return false
}
