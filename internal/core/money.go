// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals so that the commission of a sum always equals
// the sum of the commissions.
package core

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CommissionRate is the share of the nominal paid to the therapist (2%).
var CommissionRate = decimal.New(2, -2)

// Money is an exact rupiah amount.
type Money struct {
	Amount decimal.Decimal
}

// NewMoney builds a Money from a whole rupiah value.
func NewMoney(rupiah int64) Money {
	return Money{Amount: decimal.NewFromInt(rupiah)}
}

// idGrouped matches Indonesian grouping as FormatRupiah emits it.
var idGrouped = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)

// ParseNominal converts user input to Money.
//
// It accepts an optional "Rp" prefix, a dot or comma decimal separator, and
// Indonesian dot grouping ("150.000", "1.250.000,50"). A dot followed by
// exactly three digits is always read as grouping. Values are rounded half-up
// to two decimals. Returns ErrInvalidNominal for empty, negative, zero or
// malformed input.
//
// Examples:
//
//	ParseNominal("100000")       -> 100000
//	ParseNominal("Rp 150.000")   -> 150000
//	ParseNominal("12,5")         -> 12.5
//	ParseNominal("1.250.000,50") -> 1250000.5
func ParseNominal(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimPrefix(s, "rp")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return Money{}, ErrInvalidNominal
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidNominal
	}
	switch {
	case idGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		// Decimal comma without grouping; any dot left is ambiguous
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			return Money{}, ErrInvalidNominal
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	if strings.Count(s, ".") > 1 {
		return Money{}, ErrInvalidNominal
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return Money{}, ErrInvalidNominal
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidNominal
	}
	m := Money{Amount: d.Round(2)}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func (m Money) Validate() error {
	if !m.Amount.IsPositive() {
		return ErrInvalidNominal
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount.Add(o.Amount)}
}

// Commission returns m multiplied by CommissionRate, exactly.
func (m Money) Commission() Money {
	return Money{Amount: m.Amount.Mul(CommissionRate)}
}

func (m Money) Equal(o Money) bool {
	return m.Amount.Equal(o.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String returns the plain decimal representation ("150000", "3000.5").
func (m Money) String() string {
	return m.Amount.String()
}

// Float64 is for display and export renderers only.
func (m Money) Float64() float64 {
	f, _ := m.Amount.Float64()
	return f
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Amount.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and empty values (zero).
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*m = Money{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseNominal(s)
		if err != nil {
			*m = Money{}
			return nil
		}
		*m = parsed
		return nil
	}
	return m.Amount.UnmarshalJSON(data)
}
