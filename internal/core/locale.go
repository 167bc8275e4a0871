package core

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale selects month names and labels for display output.
type Locale string

const (
	LocaleID Locale = "id"
	LocaleEN Locale = "en"
)

var monthNames = map[Locale][12]string{
	LocaleID: {"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember"},
	LocaleEN: {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
}

// ParseLocale falls back to Indonesian for unknown values.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(LocaleEN)) {
		return LocaleEN
	}
	return LocaleID
}

// MonthName returns the full month name in the locale.
func (l Locale) MonthName(m time.Month) string {
	names, ok := monthNames[l]
	if !ok {
		names = monthNames[LocaleID]
	}
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}

// lookupMonth matches full or three-letter month names in any locale.
func lookupMonth(s string) (time.Month, bool) {
	for _, names := range monthNames {
		for i, name := range names {
			if strings.EqualFold(s, name) || (len(s) == 3 && strings.EqualFold(s, name[:3])) {
				return time.Month(i + 1), true
			}
		}
	}
	return 0, false
}

// FormatDate renders "05 Januari 2024"; unparsable dates render as stored.
func FormatDate(d Date, l Locale) string {
	if !d.Valid() {
		return d.Raw
	}
	return fmt.Sprintf("%02d %s %d", d.Time.Day(), l.MonthName(d.Time.Month()), d.Time.Year())
}

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders amounts with Indonesian grouping, e.g. "Rp 1.234.567".
func FormatRupiah(m Money) string {
	return "Rp " + FormatNumber(m)
}

// FormatNumber renders the amount with Indonesian grouping and at most two
// fraction digits.
func FormatNumber(m Money) string {
	return rupiahPrinter.Sprint(number.Decimal(m.Float64(), number.MaxFractionDigits(2)))
}
