package http

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestBodyParserJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(
		`{"date":"2024-01-05","therapist":"  Ani ","shift":"A1","durationMinutes":60,"nominal":150000}`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if !p.IsJSON() {
		t.Fatal("expected JSON body")
	}

	in := p.TransactionInput()
	if in.Therapist != "Ani" || in.DurationMinutes != "60" || in.Nominal != "150000" || in.Date != "2024-01-05" {
		t.Fatalf("input = %+v", in)
	}
}

func TestRequestBodyParserKeepsNumberLiterals(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(
		`{"therapist":"Ani","nominal":1234567890123456.78,"durationMinutes":90}`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	in := p.TransactionInput()
	if in.Nominal != "1234567890123456.78" || in.DurationMinutes != "90" {
		t.Fatalf("input = %+v", in)
	}
}

func TestRequestBodyParserFormAliases(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(
		"tanggal=2024-02-10&terapis=Budi&shift=B1&namaTamu=Sari&jenisTreatment=Shiatsu&durasi=60&ruang=3&nominal=160000"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if p.IsJSON() {
		t.Fatal("form body parsed as JSON")
	}

	in := p.TransactionInput()
	want := map[string]string{
		"date":      "2024-02-10",
		"therapist": "Budi",
		"guest":     "Sari",
		"treatment": "Shiatsu",
		"duration":  "60",
		"room":      "3",
	}
	got := map[string]string{
		"date":      in.Date,
		"therapist": in.Therapist,
		"guest":     in.GuestName,
		"treatment": in.TreatmentType,
		"duration":  in.DurationMinutes,
		"room":      in.Room,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestRequestBodyParserFirstPrefersCanonical(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader("therapist=Ani&terapis=Budi"))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if got := p.First("therapist", "terapis"); got != "Ani" {
		t.Fatalf("First = %q", got)
	}
	if got := p.First("missing", "terapis"); got != "Budi" {
		t.Fatalf("First fallback = %q", got)
	}
}

func TestRequestBodyParserInvalidJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"therapist":`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error")
	}
	// A second call reports the same error.
	if err := p.Parse(); err == nil {
		t.Fatal("expected cached error")
	}
}

func TestRequestBodyParserTrailingData(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"therapist":"Ani"} {"therapist":"Budi"}`))
	if err := NewRequestBodyParser(r).Parse(); err == nil {
		t.Fatal("expected error for a second JSON value")
	}
}

func TestSanitizeInput(t *testing.T) {
	cases := map[string]string{
		"  Ani  ":       "Ani",
		"Ani\x00Budi":   "AniBudi",
		"line\nbreak":   "line\nbreak",
		"tab\there\x07": "tab\there",
	}
	for in, want := range cases {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
