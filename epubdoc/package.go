package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Container and package document errors.
var (
	ErrNoContainer      = errors.New("epub: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epub: invalid container.xml")
	ErrNoRootfile       = errors.New("epub: no rootfile found in container.xml")
	ErrNoOPF            = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF       = errors.New("epub: invalid package document")
	ErrEmptySpine       = errors.New("epub: no content in spine")
)

const opfMediaType = "application/oebps-package+xml"

// publication is what the reader needs from the OPF package document.
type publication struct {
	title string
	spine []string // archive paths of the spine documents, in reading order
}

// parseContainer parses META-INF/container.xml and returns the path to the
// OPF file.
func parseContainer(zr *zip.Reader) (string, error) {
	data, err := readFile(zr, "META-INF/container.xml")
	if errors.Is(err, ErrMissingContent) {
		return "", ErrNoContainer
	}
	if err != nil {
		return "", err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidContainer
	}

	rootfiles := xmlquery.Find(doc, "//*[local-name()='rootfile']")
	for _, rf := range rootfiles {
		mediaType := attr(rf, "media-type")
		if fullPath := attr(rf, "full-path"); fullPath != "" && (mediaType == opfMediaType || mediaType == "") {
			return fullPath, nil
		}
	}

	// If no media-type match, just return the first one
	if len(rootfiles) > 0 && attr(rootfiles[0], "full-path") != "" {
		return attr(rootfiles[0], "full-path"), nil
	}
	return "", ErrNoRootfile
}

// parseOPF reads the title, the manifest and the spine of the package
// document at opfPath.
func parseOPF(zr *zip.Reader, opfPath string) (*publication, error) {
	data, err := readFile(zr, opfPath)
	if errors.Is(err, ErrMissingContent) {
		return nil, ErrNoOPF
	}
	if err != nil {
		return nil, err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidOPF
	}
	if xmlquery.FindOne(doc, "/*[local-name()='package']") == nil {
		return nil, ErrInvalidOPF
	}

	// Hrefs are relative to the directory holding the OPF
	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	manifest := make(map[string]string)
	for _, item := range xmlquery.Find(doc, "//*[local-name()='manifest']/*[local-name()='item']") {
		manifest[attr(item, "id")] = resolveHref(baseDir, attr(item, "href"))
	}

	pub := &publication{}
	if title := xmlquery.FindOne(doc, "//*[local-name()='metadata']/*[local-name()='title']"); title != nil {
		pub.title = strings.TrimSpace(title.InnerText())
	}

	itemRefs := xmlquery.Find(doc, "//*[local-name()='spine']/*[local-name()='itemref']")
	if len(itemRefs) == 0 {
		return nil, ErrEmptySpine
	}
	for _, ref := range itemRefs {
		// Skip items missing from the manifest
		if href, ok := manifest[attr(ref, "idref")]; ok {
			pub.spine = append(pub.spine, href)
		}
	}
	return pub, nil
}

// resolveHref resolves a manifest href against the OPF base directory.
func resolveHref(baseDir, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	if baseDir == "" {
		return path.Clean(href)
	}
	return path.Join(baseDir, href)
}

// attr returns the value of the attribute with the given local name.
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
