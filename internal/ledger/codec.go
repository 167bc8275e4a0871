package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"terapis/internal/core"
)

// ErrMalformed is returned when the stored payload is not a JSON array.
var ErrMalformed = errors.New("malformed ledger payload")

// record is the persisted shape of a transaction. Commission is written for
// readers of the raw payload and ignored on decode.
type record struct {
	ID              string     `json:"id"`
	Date            core.Date  `json:"date"`
	Therapist       string     `json:"therapist"`
	Shift           string     `json:"shift"`
	GuestName       string     `json:"guestName"`
	TreatmentType   string     `json:"treatmentType"`
	DurationMinutes int        `json:"durationMinutes"`
	Room            string     `json:"room"`
	Report          string     `json:"report"`
	Nominal         core.Money `json:"nominal"`
	Commission      core.Money `json:"commission"`
}

// Field aliases accepted on decode. The first name is canonical, the others
// come from older payloads that used Indonesian keys.
var fieldAliases = map[string][]string{
	"id":              {"id"},
	"date":            {"date", "tanggal"},
	"therapist":       {"therapist", "terapis"},
	"shift":           {"shift"},
	"guestName":       {"guestName", "namaTamu"},
	"treatmentType":   {"treatmentType", "jenisTreatment"},
	"durationMinutes": {"durationMinutes", "durasi"},
	"room":            {"room", "ruang"},
	"report":          {"report"},
	"nominal":         {"nominal"},
}

// Encode serializes the collection in its current order.
func Encode(items []core.Transaction) ([]byte, error) {
	out := make([]record, 0, len(items))
	for _, t := range items {
		out = append(out, record{
			ID:              t.ID,
			Date:            t.Date,
			Therapist:       t.Therapist,
			Shift:           t.Shift,
			GuestName:       t.GuestName,
			TreatmentType:   t.TreatmentType,
			DurationMinutes: t.DurationMinutes,
			Room:            t.Room,
			Report:          t.Report,
			Nominal:         t.Nominal,
			Commission:      t.Commission(),
		})
	}
	return json.Marshal(out)
}

// DecodeResult holds the transactions read from a payload and the reasons
// for every element that had to be dropped.
type DecodeResult struct {
	Items   []core.Transaction
	Skipped []error
}

// Decode reads canonical or legacy payloads. Unknown keys and any stored
// commission are ignored. Elements that fail validation are skipped and
// reported in Skipped. Missing or duplicated ids are replaced.
func Decode(data []byte) (DecodeResult, error) {
	var res DecodeResult
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return res, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return res, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	seen := make(map[string]bool, len(elems))
	for i, raw := range elems {
		t, err := decodeRecord(raw)
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = core.NewID()
		}
		seen[t.ID] = true
		res.Items = append(res.Items, t)
	}
	return res, nil
}

func decodeRecord(raw json.RawMessage) (core.Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: element is not an object", ErrMalformed)
	}
	get := func(name string) string {
		for _, key := range fieldAliases[name] {
			if v, ok := fields[key]; ok {
				return scalar(v)
			}
		}
		return ""
	}

	// Unparsable dates are kept verbatim in Raw
	date, _ := core.ParseDate(get("date"))
	nominal, err := core.ParseNominal(get("nominal"))
	if err != nil {
		nominal = core.Money{}
	}
	t := core.Transaction{
		ID:              get("id"),
		Date:            date,
		Therapist:       strings.TrimSpace(get("therapist")),
		Shift:           strings.TrimSpace(get("shift")),
		GuestName:       get("guestName"),
		TreatmentType:   get("treatmentType"),
		DurationMinutes: core.ParseMinutes(get("durationMinutes")),
		Room:            get("room"),
		Report:          get("report"),
		Nominal:         nominal,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// scalar returns strings unquoted and numbers as written. Other JSON values
// read as empty.
func scalar(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(v)
	}
	return ""
}
