package docx

import (
	"reflect"
	"testing"

	"github.com/tsawler/table2dict/model"
)

// tc builds a w:tc with optional properties and one paragraph per text.
func tc(props string, texts ...string) string {
	s := "<w:tc>"
	if props != "" {
		s += "<w:tcPr>" + props + "</w:tcPr>"
	}
	for _, text := range texts {
		s += "<w:p><w:r><w:t>" + text + "</w:t></w:r></w:p>"
	}
	if len(texts) == 0 {
		s += "<w:p/>"
	}
	return s + "</w:tc>"
}

func tr(props string, cells ...string) string {
	s := "<w:tr>"
	if props != "" {
		s += "<w:trPr>" + props + "</w:trPr>"
	}
	for _, c := range cells {
		s += c
	}
	return s + "</w:tr>"
}

func tbl(props string, rows ...string) string {
	s := "<w:tbl>"
	if props != "" {
		s += "<w:tblPr>" + props + "</w:tblPr>"
	}
	for _, r := range rows {
		s += r
	}
	return s + "</w:tbl>"
}

func hdr(text string) model.Cell { return model.Cell{Text: text, Kind: model.KindHeader} }
func dat(text string) model.Cell { return model.Cell{Text: text, Kind: model.KindData} }

func TestTableParsing_RepeatedHeader(t *testing.T) {
	body := tbl("",
		tr(`<w:tblHeader/>`, tc("", "Year"), tc("", "Album")),
		tr("", tc("", "1990"), tc("", "Bullhead")),
	)

	r := openBody(t, body)
	if r.TableCount() != 1 {
		t.Fatalf("TableCount() = %d, want 1", r.TableCount())
	}

	want := []model.Row{
		{hdr("Year"), hdr("Album")},
		{dat("1990"), dat("Bullhead")},
	}
	if got := r.Tables()[0].Rows; !reflect.DeepEqual(got, want) {
		t.Errorf("Rows = %+v, want %+v", got, want)
	}
}

func TestTableParsing_GridSpan(t *testing.T) {
	body := tbl("",
		tr(`<w:tblHeader/>`, tc("", "Title"), tc(`<w:gridSpan w:val="2"/>`, "Charts")),
		tr(`<w:tblHeader/>`, tc("", ""), tc("", "USA"), tc("", "EU")),
	)

	rows := openBody(t, body).Tables()[0].Rows
	if got := rows[0][1]; got.ColSpan != 2 || got.Text != "Charts" {
		t.Errorf("spanning cell = %+v, want Charts with ColSpan 2", got)
	}
	if got := rows[0][0].ColSpan; got != 0 {
		t.Errorf("plain cell ColSpan = %d, want 0", got)
	}
}

func TestTableParsing_VerticalMerge(t *testing.T) {
	body := tbl("",
		tr(`<w:tblHeader/>`, tc("", "Year"), tc("", "Album"), tc("", "Label")),
		tr("", tc(`<w:vMerge w:val="restart"/>`, "1991"), tc("", "Bullhead"), tc(`<w:vMerge w:val="restart"/>`, "Boner")),
		tr("", tc(`<w:vMerge/>`), tc("", "Eggog"), tc(`<w:vMerge w:val="continue"/>`)),
		tr("", tc(`<w:vMerge/>`), tc("", "Lysol"), tc("", "Atlantic")),
	)

	rows := openBody(t, body).Tables()[0].Rows
	want := []model.Row{
		{hdr("Year"), hdr("Album"), hdr("Label")},
		{{Text: "1991", RowSpan: 3}, dat("Bullhead"), {Text: "Boner", RowSpan: 2}},
		{dat("Eggog")},
		{dat("Lysol"), dat("Atlantic")},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows = %+v\nwant %+v", rows, want)
	}
}

func TestTableParsing_VerticalMergeEndsAtShortRow(t *testing.T) {
	body := tbl("",
		tr(`<w:tblHeader/>`, tc("", "Year"), tc("", "Album"), tc("", "Label")),
		tr("", tc("", "1991"), tc("", "Bullhead"), tc(`<w:vMerge w:val="restart"/>`, "Boner")),
		tr("", tc("", "1992"), tc("", "Eggog")),
		tr("", tc("", "1993"), tc("", "Lysol"), tc(`<w:vMerge/>`)),
	)

	rows := openBody(t, body).Tables()[0].Rows
	want := []model.Row{
		{hdr("Year"), hdr("Album"), hdr("Label")},
		{dat("1991"), dat("Bullhead"), dat("Boner")},
		{dat("1992"), dat("Eggog")},
		{dat("1993"), dat("Lysol"), dat("")},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows = %+v\nwant %+v", rows, want)
	}
}

func TestTableParsing_GridBefore(t *testing.T) {
	body := tbl("",
		tr(`<w:tblHeader/>`, tc("", "A"), tc("", "B"), tc("", "C")),
		tr(`<w:gridBefore w:val="1"/>`, tc("", "b"), tc("", "c")),
	)

	rows := openBody(t, body).Tables()[0].Rows
	want := model.Row{{ColSpan: 1}, dat("b"), dat("c")}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %+v, want %+v", rows[1], want)
	}
}

func TestTableParsing_TableLook(t *testing.T) {
	rows := func(look string) []model.Row {
		body := tbl(look,
			tr("", tc("", "Title"), tc("", "Year")),
			tr("", tc("", "Down Below"), tc("", "1990")),
		)
		return openBody(t, body).Tables()[0].Rows
	}

	tests := []struct {
		name string
		look string
		want []model.Row
	}{
		{
			name: "none",
			look: "",
			want: []model.Row{{dat("Title"), dat("Year")}, {dat("Down Below"), dat("1990")}},
		},
		{
			name: "first row attribute",
			look: `<w:tblLook w:firstRow="1" w:firstColumn="0"/>`,
			want: []model.Row{{hdr("Title"), hdr("Year")}, {dat("Down Below"), dat("1990")}},
		},
		{
			name: "bitmask with first column",
			look: `<w:tblLook w:val="04A0"/>`,
			want: []model.Row{{hdr("Title"), hdr("Year")}, {hdr("Down Below"), dat("1990")}},
		},
		{
			name: "attribute overrides bitmask",
			look: `<w:tblLook w:val="04A0" w:firstColumn="0"/>`,
			want: []model.Row{{hdr("Title"), hdr("Year")}, {dat("Down Below"), dat("1990")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rows(tt.look); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rows = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTableParsing_CellText(t *testing.T) {
	body := tbl("",
		tr("", `<w:tc><w:p><w:r><w:t>Peak </w:t></w:r><w:r><w:t>chart</w:t></w:r></w:p><w:p><w:r><w:t>positions</w:t></w:r></w:p></w:tc>`),
	)

	rows := openBody(t, body).Tables()[0].Rows
	if got := rows[0][0].Text; got != "Peak chart\npositions" {
		t.Errorf("Text = %q, want %q", got, "Peak chart\npositions")
	}
}

func TestTableParsing_NestedAndMultiple(t *testing.T) {
	nested := tbl("", tr("", tc("", "inner")))
	body := tbl("", tr("", `<w:tc><w:p><w:r><w:t>outer</w:t></w:r></w:p>`+nested+`</w:tc>`)) +
		`<w:p><w:r><w:t>between</w:t></w:r></w:p>` +
		tbl("", tr("", tc("", "second")))

	r := openBody(t, body)
	if r.TableCount() != 2 {
		t.Fatalf("TableCount() = %d, want 2", r.TableCount())
	}
	tables := r.Tables()
	if got := tables[0].Rows[0][0].Text; got != "outer" {
		t.Errorf("first cell = %q, want 'outer'", got)
	}
	if tables[1].Index != 1 || tables[1].Rows[0][0].Text != "second" {
		t.Errorf("second table = %+v", tables[1])
	}
}

func TestParseTableLook_Nil(t *testing.T) {
	if got := parseTableLook(nil); got != (tableLook{}) {
		t.Errorf("parseTableLook(nil) = %+v, want zero", got)
	}
}
