// Package export renders the revenue summary into documents: PDF, XLSX and
// the row layout used by the spreadsheet mirror.
package export

import (
	"fmt"
	"io"
	"time"

	"terapis/internal/core"
	"terapis/internal/report"
)

type (
	// Row is one therapist line of the summary table.
	Row struct {
		Therapist  string
		Nominal    core.Money
		Commission core.Money
		Count      int
	}

	// MonthRow is one month line of the optional monthly table.
	MonthRow struct {
		Key        string
		Label      string
		Nominal    core.Money
		Commission core.Money
	}

	// Summary is everything a renderer needs. It is built only from
	// aggregation results.
	Summary struct {
		Title           string
		ExportedAt      time.Time
		Locale          core.Locale
		TotalNominal    core.Money
		TotalCommission core.Money
		DateRange       string
		Rows            []Row
		Months          []MonthRow
	}

	// Renderer writes a Summary as a document.
	Renderer interface {
		Render(w io.Writer, s Summary) error
		ContentType() string
		Extension() string
	}
)

// NewSummary aggregates items into an export summary.
func NewSummary(items []core.Transaction, exportedAt time.Time, l core.Locale) Summary {
	agg := report.Summarize(items)
	s := Summary{
		Title:           Labels(l).Title,
		ExportedAt:      exportedAt,
		Locale:          l,
		TotalNominal:    agg.TotalNominal,
		TotalCommission: agg.TotalCommission,
		DateRange:       agg.DateRangeLabel(l),
	}
	for _, t := range agg.PerTherapist {
		s.Rows = append(s.Rows, Row{
			Therapist:  t.Therapist,
			Nominal:    t.Nominal,
			Commission: t.Commission,
			Count:      t.Count,
		})
	}
	for _, m := range agg.Monthly {
		s.Months = append(s.Months, MonthRow{
			Key:        m.Key.String(),
			Label:      m.Key.Label(l),
			Nominal:    m.Nominal,
			Commission: m.Commission,
		})
	}
	return s
}

// Text holds the fixed document wording for a locale.
type Text struct {
	Title           string
	ExportDate      string
	Period          string
	TotalNominal    string
	TotalCommission string
	Therapist       string
	Nominal         string
	Commission      string
	Transactions    string
	Month           string
	Footer          string
	Page            string
}

var texts = map[core.Locale]Text{
	core.LocaleID: {
		Title:           "Laporan Pendapatan Terapis",
		ExportDate:      "Tanggal export",
		Period:          "Periode",
		TotalNominal:    "Total Pendapatan",
		TotalCommission: "Total Komisi (2%)",
		Therapist:       "Terapis",
		Nominal:         "Total Nominal",
		Commission:      "Komisi 2%",
		Transactions:    "Jumlah Transaksi",
		Month:           "Bulan",
		Footer:          "Sistem Laporan Pendapatan Terapis",
		Page:            "Halaman",
	},
	core.LocaleEN: {
		Title:           "Therapist Revenue Report",
		ExportDate:      "Export date",
		Period:          "Period",
		TotalNominal:    "Total Revenue",
		TotalCommission: "Total Commission (2%)",
		Therapist:       "Therapist",
		Nominal:         "Total Nominal",
		Commission:      "Commission 2%",
		Transactions:    "Transactions",
		Month:           "Month",
		Footer:          "Therapist Revenue Reporting System",
		Page:            "Page",
	},
}

// Labels returns the wording for l, falling back to Indonesian.
func Labels(l core.Locale) Text {
	if t, ok := texts[l]; ok {
		return t
	}
	return texts[core.LocaleID]
}

// FileName returns the download name, e.g. "Laporan_Terapis_2024-03-01.pdf".
func FileName(r Renderer, at time.Time) string {
	return fmt.Sprintf("Laporan_Terapis_%s.%s", at.Format(core.IsoLayout), r.Extension())
}

// Values lays the summary out as spreadsheet rows: a header block with the
// totals followed by the per-therapist table. Amounts are plain numbers so
// the target sheet can format them.
func Values(s Summary) [][]any {
	t := Labels(s.Locale)
	rows := [][]any{
		{s.Title},
		{t.ExportDate, core.FormatDate(core.DateOf(s.ExportedAt), s.Locale)},
		{t.Period, s.DateRange},
		{t.TotalNominal, s.TotalNominal.Float64()},
		{t.TotalCommission, s.TotalCommission.Float64()},
		{},
		{t.Therapist, t.Nominal, t.Commission, t.Transactions},
	}
	for _, r := range s.Rows {
		rows = append(rows, []any{r.Therapist, r.Nominal.Float64(), r.Commission.Float64(), r.Count})
	}
	return rows
}
