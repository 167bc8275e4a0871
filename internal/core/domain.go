package core

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Observed shift codes. Shift is validated as free text; these are only
// offered as suggestions.
const (
	ShiftMorning   = "A1"
	ShiftMiddle    = "Md"
	ShiftAfternoon = "B1"
)

type (
	// Transaction is one treatment performed by a therapist.
	Transaction struct {
		ID              string
		Date            Date
		Therapist       string
		Shift           string
		GuestName       string
		TreatmentType   string
		DurationMinutes int
		Room            string
		Report          string
		Nominal         Money
	}

	// TransactionInput carries user-entered values before validation.
	// Numeric fields stay textual so that parsing failures surface as
	// validation errors instead of decode errors.
	TransactionInput struct {
		Date            string `json:"date"`
		Therapist       string `json:"therapist"`
		Shift           string `json:"shift"`
		GuestName       string `json:"guestName"`
		TreatmentType   string `json:"treatmentType"`
		DurationMinutes string `json:"durationMinutes"`
		Room            string `json:"room"`
		Report          string `json:"report"`
		Nominal         string `json:"nominal"`
	}

	// ValidationError reports the first required field that failed.
	ValidationError struct {
		Field string
		Err   error
	}
)

var (
	ErrEmptyTherapist = errors.New("therapist is required")
	ErrEmptyShift     = errors.New("shift is required")
	ErrInvalidNominal = errors.New("nominal must be a number greater than zero")
	ErrMissingDate    = errors.New("date is required")
	ErrInvalidDate    = errors.New("invalid date")
)

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewID returns a fresh transaction identity.
func NewID() string {
	return uuid.NewString()
}

// Commission is always derived from the nominal amount.
func (t Transaction) Commission() Money {
	return t.Nominal.Commission()
}

// Validate enforces the required fields of a persisted transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Therapist) == "" {
		return &ValidationError{Field: "therapist", Err: ErrEmptyTherapist}
	}
	if strings.TrimSpace(t.Shift) == "" {
		return &ValidationError{Field: "shift", Err: ErrEmptyShift}
	}
	if err := t.Nominal.Validate(); err != nil {
		return &ValidationError{Field: "nominal", Err: err}
	}
	return nil
}

// Build converts the input into a transaction with the given identity and
// date. The nominal falls back to zero when it cannot be parsed, which then
// fails validation.
func (in TransactionInput) Build(id string, date Date) (Transaction, error) {
	nominal, err := ParseNominal(in.Nominal)
	if err != nil {
		nominal = Money{}
	}
	t := Transaction{
		ID:              id,
		Date:            date,
		Therapist:       strings.TrimSpace(in.Therapist),
		Shift:           strings.TrimSpace(in.Shift),
		GuestName:       strings.TrimSpace(in.GuestName),
		TreatmentType:   strings.TrimSpace(in.TreatmentType),
		DurationMinutes: ParseMinutes(in.DurationMinutes),
		Room:            strings.TrimSpace(in.Room),
		Report:          strings.TrimSpace(in.Report),
		Nominal:         nominal,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// InputFrom returns the editable values of an existing transaction.
func InputFrom(t Transaction) TransactionInput {
	in := TransactionInput{
		Date:          t.Date.String(),
		Therapist:     t.Therapist,
		Shift:         t.Shift,
		GuestName:     t.GuestName,
		TreatmentType: t.TreatmentType,
		Room:          t.Room,
		Report:        t.Report,
		Nominal:       t.Nominal.String(),
	}
	if t.DurationMinutes > 0 {
		in.DurationMinutes = strconv.Itoa(t.DurationMinutes)
	}
	return in
}

// ParseMinutes is lenient: duration is optional, so bad input yields 0.
func ParseMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(strings.ToLower(s), "menit")
	s = strings.TrimSuffix(s, "min")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
