package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"terapis/internal/core"
	"terapis/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSheets emulates the few Sheets endpoints the client calls.
type fakeSheets struct {
	mu       sync.Mutex
	titles   []string
	calls    []string
	added    []string
	updated  *gsheet.ValueRange
	failPath string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)
	if f.failPath != "" && strings.Contains(path, f.failPath) {
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.added = append(f.added, rq.AddSheet.Properties.Title)
				f.titles = append(f.titles, rq.AddSheet.Properties.Title)
			}
		}
		w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		w.Write([]byte(`{}`))
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var vr gsheet.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		f.updated = &vr
		json.NewEncoder(w).Encode(map[string]any{"updatedRange": "'Ringkasan Terapis'!A1:D9"})
	case r.Method == http.MethodGet:
		ss := gsheet.Spreadsheet{}
		for _, title := range f.titles {
			ss.Sheets = append(ss.Sheets, &gsheet.Sheet{Properties: &gsheet.SheetProperties{Title: title}})
		}
		json.NewEncoder(w).Encode(ss)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Options{
		SpreadsheetID: "sheet-123",
		ClientOptions: []goption.ClientOption{
			goption.WithEndpoint(srv.URL + "/"),
			goption.WithoutAuthentication(),
			goption.WithHTTPClient(srv.Client()),
		},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func summary() export.Summary {
	items := []core.Transaction{
		{ID: core.NewID(), Date: core.NewDate(2024, 1, 5), Therapist: "Ani", Shift: "A1", Nominal: core.NewMoney(100000)},
		{ID: core.NewID(), Date: core.NewDate(2024, 2, 10), Therapist: "Budi", Shift: "B1", Nominal: core.NewMoney(50000)},
	}
	return export.NewSummary(items, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), core.LocaleID)
}

func TestWriteSummaryCreatesSheetAndWritesValues(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Sheet1"}}
	c := newTestClient(t, fake)

	ref, err := c.WriteSummary(context.Background(), summary())
	if err != nil {
		t.Fatalf("write summary: %v", err)
	}
	if ref != "'Ringkasan Terapis'!A1:D9" {
		t.Fatalf("ref = %q", ref)
	}
	if len(fake.added) != 1 || fake.added[0] != DefaultSheetName {
		t.Fatalf("added sheets = %v", fake.added)
	}
	if fake.updated == nil || len(fake.updated.Values) != 9 {
		t.Fatalf("updated values = %+v", fake.updated)
	}
	if got := fake.updated.Values[0][0]; got != "Laporan Pendapatan Terapis" {
		t.Fatalf("title cell = %v", got)
	}
	if got := fake.updated.Values[3][1]; got != float64(150000) {
		t.Fatalf("total nominal cell = %v", got)
	}

	// Second write finds the sheet and does not add it again.
	if _, err := c.WriteSummary(context.Background(), summary()); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if len(fake.added) != 1 {
		t.Fatalf("sheet added twice: %v", fake.added)
	}
}

func TestWriteSummaryClearsBeforeUpdate(t *testing.T) {
	fake := &fakeSheets{titles: []string{DefaultSheetName}}
	c := newTestClient(t, fake)

	if _, err := c.WriteSummary(context.Background(), summary()); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	var clearAt, updateAt = -1, -1
	for i, call := range fake.calls {
		switch {
		case strings.HasSuffix(call, ":clear"):
			clearAt = i
		case strings.HasPrefix(call, http.MethodPut):
			updateAt = i
		}
	}
	if clearAt == -1 || updateAt == -1 || clearAt > updateAt {
		t.Fatalf("expected clear before update, calls=%v", fake.calls)
	}
}

func TestWriteSummaryReportsAPIErrors(t *testing.T) {
	fake := &fakeSheets{titles: []string{DefaultSheetName}, failPath: ":clear"}
	c := newTestClient(t, fake)

	_, err := c.WriteSummary(context.Background(), summary())
	if err == nil || !strings.Contains(err.Error(), "clear") {
		t.Fatalf("expected clear error, got %v", err)
	}
	if fake.updated != nil {
		t.Fatalf("update must not run after a failed clear")
	}
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error for missing spreadsheet id")
	}
	if _, err := New(context.Background(), Options{SpreadsheetID: "x"}); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
	if _, err := New(context.Background(), Options{SpreadsheetID: "x", CredentialsFile: "/nonexistent/creds.json"}); err == nil {
		t.Fatalf("expected error for unreadable credentials file")
	}
}

func TestA1QuotesSheetNames(t *testing.T) {
	cases := map[string]string{
		"Ringkasan":       "'Ringkasan'!A1",
		"Terapis's Sheet": "'Terapis''s Sheet'!A1",
	}
	for in, want := range cases {
		if got := a1(in, "A1"); got != want {
			t.Errorf("a1(%q) = %q, want %q", in, got, want)
		}
	}
}
