package xlsx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/table2dict/model"
)

// fill writes values row by row starting at origin.
func fill(t *testing.T, f *excelize.File, sheet, origin string, rows [][]any) {
	t.Helper()

	col, row, err := excelize.CellNameToCoordinates(origin)
	if err != nil {
		t.Fatalf("bad origin %q: %v", origin, err)
	}
	for i, values := range rows {
		for j, v := range values {
			if v == nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(col+j, row+i)
			if err != nil {
				t.Fatalf("CoordinatesToCellName failed: %v", err)
			}
			if err := f.SetCellValue(sheet, name, v); err != nil {
				t.Fatalf("SetCellValue(%s) failed: %v", name, err)
			}
		}
	}
}

func merge(t *testing.T, f *excelize.File, sheet, from, to string) {
	t.Helper()
	if err := f.MergeCell(sheet, from, to); err != nil {
		t.Fatalf("MergeCell(%s, %s) failed: %v", from, to, err)
	}
}

// discographyWorkbook builds a two-row header with merged cells.
func discographyWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	fill(t, f, "Sheet1", "A1", [][]any{
		{"Title", "Year", "Peak chart positions"},
		{nil, nil, "AUS", "NZ"},
		{"Down Below", 1990, 133, "-"},
		{"This Is Not the Way Home", 1991, 62, 40},
	})
	merge(t, f, "Sheet1", "A1", "A2")
	merge(t, f, "Sheet1", "B1", "B2")
	merge(t, f, "Sheet1", "C1", "D1")
	return f
}

func openWorkbook(t *testing.T, f *excelize.File, opts Options) *Reader {
	t.Helper()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() failed: %v", err)
	}
	r, err := OpenReader(bytes.NewReader(buf.Bytes()), opts)
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func hdr(text string) model.Cell { return model.Cell{Text: text, Kind: model.KindHeader} }
func dat(text string) model.Cell { return model.Cell{Text: text, Kind: model.KindData} }

func TestReader_MergedHeader(t *testing.T) {
	f := discographyWorkbook(t)
	defer f.Close()

	r := openWorkbook(t, f, Options{HeaderRows: 2, RowHeaders: true})
	if r.TableCount() != 1 {
		t.Fatalf("TableCount() = %d, want 1", r.TableCount())
	}

	table := r.Tables()[0]
	if table.Caption != "Sheet1" {
		t.Errorf("Caption = %q, want Sheet1", table.Caption)
	}

	want := []model.Row{
		{
			{Text: "Title", Kind: model.KindHeader, RowSpan: 2},
			{Text: "Year", Kind: model.KindHeader, RowSpan: 2},
			{Text: "Peak chart positions", Kind: model.KindHeader, ColSpan: 2},
		},
		{hdr("AUS"), hdr("NZ")},
		{hdr("Down Below"), dat("1990"), dat("133"), dat("-")},
		{hdr("This Is Not the Way Home"), dat("1991"), dat("62"), dat("40")},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("Rows = %+v\nwant %+v", table.Rows, want)
	}
}

func TestReader_RowHeaderUnderVerticalMerge(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	fill(t, f, "Sheet1", "A1", [][]any{
		{"Title", "Year", "Label"},
		{"Down Below", 1990, "Whatever Records"},
		{nil, 1991, "Boner Record"},
	})
	merge(t, f, "Sheet1", "A2", "A3")

	r := openWorkbook(t, f, Options{RowHeaders: true})
	want := []model.Row{
		{hdr("Title"), hdr("Year"), hdr("Label")},
		{{Text: "Down Below", Kind: model.KindHeader, RowSpan: 2}, dat("1990"), dat("Whatever Records")},
		{dat("1991"), dat("Boner Record")},
	}
	if got := r.Tables()[0].Rows; !reflect.DeepEqual(got, want) {
		t.Errorf("Rows = %+v\nwant %+v", got, want)
	}
}

func TestReader_DefaultHeaderRow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	fill(t, f, "Sheet1", "A1", [][]any{
		{"Year", "Album", "Label"},
		{1990, "Bullhead"},
	})

	rows := openWorkbook(t, f, Options{}).Tables()[0].Rows
	want := []model.Row{
		{hdr("Year"), hdr("Album"), hdr("Label")},
		{dat("1990"), dat("Bullhead"), dat("")}, // padded to the sheet width
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows = %+v, want %+v", rows, want)
	}
}

func TestReader_SkipsLeadingEmptySpace(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	fill(t, f, "Sheet1", "B3", [][]any{
		{"Year", "Album"},
		{"1990", "Bullhead"},
	})

	rows := openWorkbook(t, f, Options{}).Tables()[0].Rows
	want := []model.Row{
		{hdr("Year"), hdr("Album")},
		{dat("1990"), dat("Bullhead")},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows = %+v, want %+v", rows, want)
	}
}

func TestReader_Sheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Albums"); err != nil {
		t.Fatalf("NewSheet() failed: %v", err)
	}
	fill(t, f, "Sheet1", "A1", [][]any{{"Single"}, {"Down Below"}})
	fill(t, f, "Albums", "A1", [][]any{{"Album"}, {"Bullhead"}})

	all := openWorkbook(t, f, Options{})
	if got := all.SheetNames(); !reflect.DeepEqual(got, []string{"Sheet1", "Albums"}) {
		t.Errorf("SheetNames() = %v", got)
	}
	if all.SheetCount() != 2 {
		t.Errorf("SheetCount() = %d, want 2", all.SheetCount())
	}
	if s, err := all.SheetByName("Albums"); err != nil || s.Value(1, 0) != "Bullhead" {
		t.Errorf("SheetByName(Albums) = %+v, %v", s, err)
	}
	if _, err := all.SheetByName("Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("SheetByName(Missing) error = %v, want ErrSheetNotFound", err)
	}
	if _, err := all.Sheet(5); err == nil {
		t.Error("Sheet(5) expected error")
	}

	only := openWorkbook(t, f, Options{Sheet: "Albums"})
	tables := only.Tables()
	if len(tables) != 1 || tables[0].Caption != "Albums" || tables[0].Index != 0 {
		t.Errorf("Tables() with Sheet option = %+v", tables)
	}

	doc, err := all.Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}
	if doc.TableCount() != 2 || doc.GetTable(1).Caption != "Albums" {
		t.Errorf("Document() tables = %d", doc.TableCount())
	}
}

func TestOpenReader_SheetNotFound(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() failed: %v", err)
	}
	_, err = OpenReader(bytes.NewReader(buf.Bytes()), Options{Sheet: "Nope"})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("OpenReader() error = %v, want ErrSheetNotFound", err)
	}
}

func TestOpen(t *testing.T) {
	f := discographyWorkbook(t)
	defer f.Close()

	path := filepath.Join(t.TempDir(), "singles.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}

	r, err := Open(path, Options{HeaderRows: 2})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if got := r.Tables()[0].RowCount(); got != 4 {
		t.Errorf("RowCount() = %d, want 4", got)
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/file.xlsx", Options{})
	if err == nil {
		t.Error("Open() expected error for nonexistent file")
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.xlsx")
	if err := os.WriteFile(path, []byte("not a zip file"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	if _, err := Open(path, Options{}); err == nil {
		t.Error("Open() expected error for invalid ZIP")
	}
}

func TestReader_Close(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	r := openWorkbook(t, f, Options{})
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
