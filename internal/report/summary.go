package report

import "terapis/internal/core"

// Summary bundles every aggregate for presentation and export consumers.
type Summary struct {
	Count           int
	TotalNominal    core.Money
	TotalCommission core.Money
	HasRange        bool
	From            core.Date
	To              core.Date
	Monthly         []MonthTotals
	MonthlyByPerson []MonthTherapists
	PerTherapist    []TherapistTotals
}

// Summarize computes every aggregate from one snapshot.
func Summarize(items []core.Transaction) Summary {
	from, to, ok := DateRange(items)
	return Summary{
		Count:           len(items),
		TotalNominal:    GrandTotalNominal(items),
		TotalCommission: GrandTotalCommission(items),
		HasRange:        ok,
		From:            from,
		To:              to,
		Monthly:         MonthlyTotals(items),
		MonthlyByPerson: MonthlyPerTherapistTotals(items),
		PerTherapist:    PerTherapistTotals(items),
	}
}

// DateRangeLabel renders the range or "-" when there is none.
func (s Summary) DateRangeLabel(l core.Locale) string {
	return formatRange(s.From, s.To, s.HasRange, l)
}
