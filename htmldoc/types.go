package htmldoc

// Options configures how an HTML document is decoded.
type Options struct {
	// Charset names the input encoding (any WHATWG label, e.g. "windows-1252"
	// or "shift_jis"). When empty the encoding is sniffed from a byte order
	// mark or <meta charset>, falling back to windows-1252.
	Charset string
}

// Span limits applied to rowspan and colspan attributes, as browsers do.
const (
	maxColSpan = 1000
	maxRowSpan = 65534
)
