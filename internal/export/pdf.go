package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"terapis/internal/core"
)

// PDFRenderer produces an A4 report with the totals block, the
// per-therapist table and a monthly table, paginated with a footer.
type PDFRenderer struct {
	// IncludeMonths adds the monthly breakdown after the therapist table.
	IncludeMonths bool
}

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return "pdf" }

var headerFill = [3]int{120, 50, 200}

func (r PDFRenderer) Render(w io.Writer, s Summary) error {
	t := Labels(s.Locale)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(s.Title, true)
	pdf.SetCreator(t.Footer, true)
	pdf.SetMargins(14, 15, 14)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, tr("(c) "+t.Footer), "", 0, "L", false, 0, "")
		left, _, _, _ := pdf.GetMargins()
		pdf.SetX(left)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s %d/{nb}", t.Page, pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.CellFormat(0, 7, tr(label+": "+value), "", 1, "L", false, 0, "")
	}
	line(t.ExportDate, core.FormatDate(core.DateOf(s.ExportedAt), s.Locale))
	line(t.Period, s.DateRange)
	line(t.TotalNominal, core.FormatRupiah(s.TotalNominal))
	line(t.TotalCommission, core.FormatRupiah(s.TotalCommission))
	pdf.Ln(4)

	widths := []float64{70, 56, 56}
	table(pdf, tr, widths,
		[]string{t.Therapist, t.Nominal, t.Commission},
		therapistCells(s.Rows))

	if r.IncludeMonths && len(s.Months) > 0 {
		pdf.Ln(6)
		table(pdf, tr, widths,
			[]string{t.Month, t.Nominal, t.Commission},
			monthCells(s.Months))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func therapistCells(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Therapist, core.FormatRupiah(r.Nominal), core.FormatRupiah(r.Commission)})
	}
	return out
}

func monthCells(rows []MonthRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Label, core.FormatRupiah(r.Nominal), core.FormatRupiah(r.Commission)})
	}
	return out
}

// table draws a header row and striped body rows. The header is repeated
// after a page break.
func table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	const rowHeight = 8

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		pdf.SetTextColor(255, 255, 255)
		for i, h := range header {
			pdf.CellFormat(widths[i], rowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
	}

	drawHeader()
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for n, row := range rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			drawHeader()
		}
		fill := n%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, tr(cell), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}
