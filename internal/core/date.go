package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// IsoLayout is the canonical persisted date format.
const IsoLayout = "2006-01-02"

// Date is a calendar day. Raw keeps the original text when it could not be
// parsed so legacy records survive a load/save round trip unchanged.
type Date struct {
	time.Time
	Raw string
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts ISO dates, RFC3339 timestamps, day/month/year and
// localized long dates such as "05 Januari 2024" or "5 January 2024".
// On failure the returned Date carries the input in Raw and ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	if t, err := time.Parse(IsoLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse("2/1/2006", s); err == nil {
		return DateOf(t), nil
	}
	if d, ok := parseLongDate(s); ok {
		return d, nil
	}
	return Date{Raw: s}, ErrInvalidDate
}

// parseLongDate handles "dd <month name> yyyy" in any supported locale.
func parseLongDate(s string) (Date, bool) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return Date{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, false
	}
	month, ok := lookupMonth(parts[1])
	if !ok {
		return Date{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, false
	}
	d := NewDate(year, int(month), day)
	// time.Date normalizes overflow, reject "31 Februari"
	if d.Time.Day() != day {
		return Date{}, false
	}
	return d, true
}

// Valid reports whether the date was parsed into a calendar day.
func (d Date) Valid() bool {
	return !d.Time.IsZero()
}

func (d Date) Validate() error {
	if !d.Valid() {
		if d.Raw == "" {
			return ErrMissingDate
		}
		return ErrInvalidDate
	}
	return nil
}

// String returns the ISO form, or the unparsed text for legacy values.
func (d Date) String() string {
	if !d.Valid() {
		return d.Raw
	}
	return d.Time.Format(IsoLayout)
}

// Before orders dates; unparsable dates come before every valid one.
func (d Date) Before(o Date) bool {
	switch {
	case !d.Valid() && !o.Valid():
		return false
	case !d.Valid():
		return true
	case !o.Valid():
		return false
	}
	return d.Time.Before(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails on unparsable text; the text is kept in Raw.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, _ := ParseDate(s)
	*d = parsed
	return nil
}
