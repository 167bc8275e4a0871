package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerAddsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json", Output: &buf, Component: ComponentHTTP}).WithComponent(ComponentWorker)
	l.Info("hello", "k", "v")

	line := buf.String()
	if strings.Count(line, `"component"`) != 1 {
		t.Fatalf("component repeated: %s", line)
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["component"] != ComponentWorker || rec["k"] != "v" {
		t.Fatalf("record = %v", rec)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written: %s", buf.String())
	}
}

func TestRequestIDMiddlewareAndStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Format: "json", Output: &buf, Component: ComponentHTTP})
	sl := NewStructuredLogger(base)

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sl.LogError(r.Context(), "save failed", errors.New("disk full"), ComponentTransaction, OpCreate,
				NewFields().WithErrorType(ErrorTypePersistence))
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	want := map[string]any{
		FieldRequestID: "req_1",
		FieldComponent: ComponentTransaction,
		FieldOperation: OpCreate,
		FieldError:     "disk full",
		FieldErrorType: ErrorTypePersistence,
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()).Logger != slog.Default() {
		t.Fatal("expected default logger")
	}
}

func TestToSliceIsSorted(t *testing.T) {
	got := NewFields().WithOperation(OpSync).WithClientIP("1.2.3.4").ToSlice()
	if len(got) != 4 || got[0] != FieldClientIP || got[2] != FieldOperation {
		t.Fatalf("slice = %v", got)
	}
}
