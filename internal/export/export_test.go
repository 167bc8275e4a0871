package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"terapis/internal/core"
)

func sample() []core.Transaction {
	mk := func(date, therapist string, nominal int64) core.Transaction {
		d, _ := core.ParseDate(date)
		return core.Transaction{ID: core.NewID(), Date: d, Therapist: therapist, Shift: "A1", Nominal: core.NewMoney(nominal)}
	}
	return []core.Transaction{
		mk("2024-01-05", "Ani", 100000),
		mk("2024-02-10", "Ani", 50000),
		mk("2024-02-11", "Budi", 200000),
	}
}

var exportedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewSummary(t *testing.T) {
	s := NewSummary(sample(), exportedAt, core.LocaleID)

	if s.Title != "Laporan Pendapatan Terapis" {
		t.Fatalf("title = %q", s.Title)
	}
	if s.TotalNominal.String() != "350000" || s.TotalCommission.String() != "7000" {
		t.Fatalf("totals = %s / %s", s.TotalNominal, s.TotalCommission)
	}
	if len(s.Rows) != 2 || s.Rows[0].Therapist != "Ani" || s.Rows[0].Nominal.String() != "150000" || s.Rows[0].Commission.String() != "3000" {
		t.Fatalf("rows = %+v", s.Rows)
	}
	if len(s.Months) != 2 || s.Months[1].Label != "Februari 2024" || s.Months[1].Key != "2024-02" {
		t.Fatalf("months = %+v", s.Months)
	}
	if s.DateRange != "05 Januari 2024 - 11 Februari 2024" {
		t.Fatalf("range = %q", s.DateRange)
	}

	empty := NewSummary(nil, exportedAt, core.LocaleEN)
	if empty.DateRange != "-" || len(empty.Rows) != 0 || empty.Title != "Therapist Revenue Report" {
		t.Fatalf("empty summary = %+v", empty)
	}
}

func TestPDFRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := PDFRenderer{IncludeMonths: true}
	if err := r.Render(&buf, NewSummary(sample(), exportedAt, core.LocaleID)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	if FileName(r, exportedAt) != "Laporan_Terapis_2024-03-01.pdf" {
		t.Fatalf("file name = %s", FileName(r, exportedAt))
	}
}

func TestPDFRendererPaginates(t *testing.T) {
	var items []core.Transaction
	for i := 0; i < 120; i++ {
		items = append(items, core.Transaction{
			ID: core.NewID(), Date: core.NewDate(2024, 1, 1+i%28), Therapist: "Terapis " + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Shift: "A1", Nominal: core.NewMoney(int64(1000 * (i + 1))),
		})
	}
	var buf bytes.Buffer
	if err := (PDFRenderer{}).Render(&buf, NewSummary(items, exportedAt, core.LocaleEN)); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestXLSXRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (XLSXRenderer{}).Render(&buf, NewSummary(sample(), exportedAt, core.LocaleID)); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cases := []struct {
		sheet, cell, want string
	}{
		{sheetSummary, "A1", "Laporan Pendapatan Terapis"},
		{sheetSummary, "A7", "Terapis"},
		{sheetSummary, "A8", "Ani"},
		{sheetSummary, "A9", "Budi"},
		{sheetMonthly, "A2", "Januari 2024"},
		{sheetMonthly, "B3", "2024-02"},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tc.sheet, tc.cell, err)
		}
		if got != tc.want {
			t.Fatalf("%s!%s = %q, want %q", tc.sheet, tc.cell, got, tc.want)
		}
	}

	raw, err := f.GetCellValue(sheetSummary, "B8", excelize.Options{RawCellValue: true})
	if err != nil || raw != "150000" {
		t.Fatalf("B8 raw = %q (%v)", raw, err)
	}
}

func TestValues(t *testing.T) {
	rows := Values(NewSummary(sample(), exportedAt, core.LocaleID))
	if rows[0][0] != "Laporan Pendapatan Terapis" {
		t.Fatalf("first row = %v", rows[0])
	}
	if rows[3][1] != float64(350000) || rows[4][1] != float64(7000) {
		t.Fatalf("totals rows = %v %v", rows[3], rows[4])
	}
	last := rows[len(rows)-1]
	if last[0] != "Budi" || last[1] != float64(200000) || last[3] != 1 {
		t.Fatalf("last row = %v", last)
	}
}
