package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{RequestsPerMinute: 2})
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	steps := []struct {
		advance time.Duration
		client  string
		want    bool
	}{
		{0, "a", true},
		{time.Second, "a", true},
		{time.Second, "a", false},
		{0, "b", true},
		{time.Minute, "a", true},
	}
	for i, s := range steps {
		now = now.Add(s.advance)
		if got := rl.Allow(s.client); got != s.want {
			t.Fatalf("step %d: Allow(%q) = %v, want %v", i, s.client, got, s.want)
		}
	}
	if rl.ActiveClients() != 2 {
		t.Fatalf("active clients = %d", rl.ActiveClients())
	}

	now = now.Add(11 * time.Minute)
	if removed := rl.cleanupStaleEntries(); removed != 2 || rl.ActiveClients() != 0 {
		t.Fatalf("cleanup removed %d, %d left", removed, rl.ActiveClients())
	}
}

func TestMiddlewareRejects(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	h := rl.Middleware(func(*http.Request) string { return "same" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	codes := []int{http.StatusNoContent, http.StatusTooManyRequests}
	for i, want := range codes {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		if rr.Code != want {
			t.Fatalf("request %d: status %d, want %d", i, rr.Code, want)
		}
	}
	if rl.ActiveClients() != 1 {
		t.Fatalf("active clients = %d", rl.ActiveClients())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
