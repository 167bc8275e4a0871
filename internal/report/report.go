// Package report computes totals, date ranges and monthly or per-therapist
// rollups over a snapshot of transactions. Every function is pure and
// recomputes from the records it is given.
package report

import (
	"fmt"
	"strings"
	"time"

	"terapis/internal/core"
)

// Totals pairs a nominal sum with its commission.
type Totals struct {
	Nominal    core.Money `json:"nominal"`
	Commission core.Money `json:"commission"`
	Count      int        `json:"count"`
}

func (t Totals) add(tx core.Transaction) Totals {
	return Totals{
		Nominal:    t.Nominal.Add(tx.Nominal),
		Commission: t.Commission.Add(tx.Commission()),
		Count:      t.Count + 1,
	}
}

// MonthKey identifies a calendar month independently of display locale.
type MonthKey struct {
	Year  int
	Month time.Month
}

func monthOf(d core.Date) MonthKey {
	return MonthKey{Year: d.Time.Year(), Month: d.Time.Month()}
}

// String returns the sortable form "2024-01".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label returns the display form, e.g. "Januari 2024".
func (k MonthKey) Label(l core.Locale) string {
	return fmt.Sprintf("%s %d", l.MonthName(k.Month), k.Year)
}

func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// GrandTotalNominal sums every nominal.
func GrandTotalNominal(items []core.Transaction) core.Money {
	var sum core.Money
	for _, tx := range items {
		sum = sum.Add(tx.Nominal)
	}
	return sum
}

// GrandTotalCommission sums every commission. Decimal arithmetic keeps it
// equal to GrandTotalNominal(items).Commission().
func GrandTotalCommission(items []core.Transaction) core.Money {
	var sum core.Money
	for _, tx := range items {
		sum = sum.Add(tx.Commission())
	}
	return sum
}

// DateRange returns the earliest and latest parsable dates. ok is false
// when no record has a parsable date.
func DateRange(items []core.Transaction) (from, to core.Date, ok bool) {
	for _, tx := range items {
		if !tx.Date.Valid() {
			continue
		}
		if !ok {
			from, to, ok = tx.Date, tx.Date, true
			continue
		}
		if tx.Date.Time.Before(from.Time) {
			from = tx.Date
		}
		if tx.Date.Time.After(to.Time) {
			to = tx.Date
		}
	}
	return from, to, ok
}

// FormatDateRange renders "05 Januari 2024 - 20 Februari 2024", or "-"
// when there is no parsable date.
func FormatDateRange(items []core.Transaction, l core.Locale) string {
	from, to, ok := DateRange(items)
	return formatRange(from, to, ok, l)
}

func formatRange(from, to core.Date, ok bool, l core.Locale) string {
	if !ok {
		return "-"
	}
	return core.FormatDate(from, l) + " - " + core.FormatDate(to, l)
}

// MonthTotals is one entry of the monthly rollup.
type MonthTotals struct {
	Key MonthKey
	Totals
}

// MonthlyTotals groups by calendar month in order of first appearance.
// Records with unparsable dates are skipped.
func MonthlyTotals(items []core.Transaction) []MonthTotals {
	var out []MonthTotals
	index := make(map[MonthKey]int)
	for _, tx := range items {
		if !tx.Date.Valid() {
			continue
		}
		k := monthOf(tx.Date)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, MonthTotals{Key: k})
		}
		out[i].Totals = out[i].Totals.add(tx)
	}
	return out
}

// TherapistTotals is one therapist's rollup.
type TherapistTotals struct {
	Therapist string
	Totals
}

// MonthTherapists is the per-therapist breakdown of one month.
type MonthTherapists struct {
	Key        MonthKey
	Therapists []TherapistTotals
}

// Therapist returns the totals of the named therapist in the month.
func (m MonthTherapists) Therapist(name string) (Totals, bool) {
	for _, t := range m.Therapists {
		if t.Therapist == name {
			return t.Totals, true
		}
	}
	return Totals{}, false
}

// MonthlyPerTherapistTotals groups by month then therapist, both in order
// of first appearance. Records without a parsable date or a therapist are
// skipped.
func MonthlyPerTherapistTotals(items []core.Transaction) []MonthTherapists {
	var out []MonthTherapists
	months := make(map[MonthKey]int)
	therapists := make(map[MonthKey]map[string]int)
	for _, tx := range items {
		name := strings.TrimSpace(tx.Therapist)
		if !tx.Date.Valid() || name == "" {
			continue
		}
		k := monthOf(tx.Date)
		mi, ok := months[k]
		if !ok {
			mi = len(out)
			months[k] = mi
			therapists[k] = make(map[string]int)
			out = append(out, MonthTherapists{Key: k})
		}
		ti, ok := therapists[k][name]
		if !ok {
			ti = len(out[mi].Therapists)
			therapists[k][name] = ti
			out[mi].Therapists = append(out[mi].Therapists, TherapistTotals{Therapist: name})
		}
		row := &out[mi].Therapists[ti]
		row.Totals = row.Totals.add(tx)
	}
	return out
}

// PerTherapistTotals is the all-time rollup per therapist in order of first
// appearance. Records without a therapist are skipped.
func PerTherapistTotals(items []core.Transaction) []TherapistTotals {
	var out []TherapistTotals
	index := make(map[string]int)
	for _, tx := range items {
		name := strings.TrimSpace(tx.Therapist)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, TherapistTotals{Therapist: name})
		}
		out[i].Totals = out[i].Totals.add(tx)
	}
	return out
}
