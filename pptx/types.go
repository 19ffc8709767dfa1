package pptx

import "encoding/xml"

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML represents the shape tree of a slide. Only the frames that can
// hold tables are decoded.
type spTreeXML struct {
	GraphicFrame []graphicFrameXML `xml:"graphicFrame"` // Tables, charts, etc.
	GrpSp        []spTreeXML       `xml:"grpSp"`        // Grouped shapes
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	NvGraphicFramePr nvGraphicFramePrXML `xml:"nvGraphicFramePr"`
	Graphic          graphicXML          `xml:"graphic"`
}

type nvGraphicFramePrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"` // Table
}

// tblXML represents a DrawingML table (a:tbl).
type tblXML struct {
	TblPr *tblPrXML `xml:"tblPr"`
	Tr    []trXML   `xml:"tr"` // Table rows
}

// tblPrXML carries the table style flags.
type tblPrXML struct {
	FirstRow string `xml:"firstRow,attr"`
	FirstCol string `xml:"firstCol,attr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"` // Table cells
}

// tcXML represents a table cell. Cells covered by a merge are still present
// and carry hMerge or vMerge.
type tcXML struct {
	TxBody   *txBodyXML `xml:"txBody"`
	RowSpan  int        `xml:"rowSpan,attr"`
	GridSpan int        `xml:"gridSpan,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	VMerge   string     `xml:"vMerge,attr"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"` // Paragraphs
}

// pXML represents a paragraph.
type pXML struct {
	R   []rXML   `xml:"r"`   // Text runs
	Fld []fldXML `xml:"fld"` // Fields (like slide number)
}

// rXML represents a text run.
type rXML struct {
	T string `xml:"t"`
}

type fldXML struct {
	T string `xml:"t"` // Field value
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
}
