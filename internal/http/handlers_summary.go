package http

import (
	"net/http"

	"terapis/internal/core"
	"terapis/internal/report"
)

type totalsView struct {
	Nominal        core.Money `json:"nominal"`
	NominalText    string     `json:"nominalText"`
	Commission     core.Money `json:"commission"`
	CommissionText string     `json:"commissionText"`
	Count          int        `json:"count"`
}

type therapistView struct {
	Therapist string `json:"therapist"`
	totalsView
}

type monthView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	totalsView
	Therapists []therapistView `json:"therapists,omitempty"`
}

type summaryView struct {
	Count               int             `json:"count"`
	TotalNominal        core.Money      `json:"totalNominal"`
	TotalNominalText    string          `json:"totalNominalText"`
	TotalCommission     core.Money      `json:"totalCommission"`
	TotalCommissionText string          `json:"totalCommissionText"`
	From                string          `json:"from,omitempty"`
	To                  string          `json:"to,omitempty"`
	DateRangeText       string          `json:"dateRangeText"`
	Monthly             []monthView     `json:"monthly"`
	PerTherapist        []therapistView `json:"perTherapist"`
}

func totalsOf(t report.Totals) totalsView {
	return totalsView{
		Nominal:        t.Nominal,
		NominalText:    core.FormatRupiah(t.Nominal),
		Commission:     t.Commission,
		CommissionText: core.FormatRupiah(t.Commission),
		Count:          t.Count,
	}
}

func therapistsOf(rows []report.TherapistTotals) []therapistView {
	out := make([]therapistView, 0, len(rows))
	for _, r := range rows {
		out = append(out, therapistView{Therapist: r.Therapist, totalsView: totalsOf(r.Totals)})
	}
	return out
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := report.Summarize(s.tx.List(r.Context()))

	byPerson := make(map[report.MonthKey][]report.TherapistTotals, len(sum.MonthlyByPerson))
	for _, m := range sum.MonthlyByPerson {
		byPerson[m.Key] = m.Therapists
	}

	view := summaryView{
		Count:               sum.Count,
		TotalNominal:        sum.TotalNominal,
		TotalNominalText:    core.FormatRupiah(sum.TotalNominal),
		TotalCommission:     sum.TotalCommission,
		TotalCommissionText: core.FormatRupiah(sum.TotalCommission),
		DateRangeText:       sum.DateRangeLabel(s.locale),
		Monthly:             make([]monthView, 0, len(sum.Monthly)),
		PerTherapist:        therapistsOf(sum.PerTherapist),
	}
	if sum.HasRange {
		view.From = sum.From.String()
		view.To = sum.To.String()
	}
	for _, m := range sum.Monthly {
		view.Monthly = append(view.Monthly, monthView{
			Key:        m.Key.String(),
			Label:      m.Key.Label(s.locale),
			totalsView: totalsOf(m.Totals),
			Therapists: therapistsOf(byPerson[m.Key]),
		})
	}

	NewResponse().JSON(view).Write(w)
}
