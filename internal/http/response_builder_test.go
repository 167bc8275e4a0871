package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"terapis/internal/catalog"
	"terapis/internal/core"
	"terapis/internal/ledger"
)

func TestResponseBuilderJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Status(http.StatusCreated).
		Header("Location", "/api/transactions/abc").
		JSON(map[string]int{"count": 2}).
		Write(rr)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Location") != "/api/transactions/abc" {
		t.Fatalf("location = %q", rr.Header().Get("Location"))
	}
	if rr.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", rr.Header().Get("Content-Type"))
	}
	if rr.Body.String() != `{"count":2}` {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestResponseBuilderAttachment(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Body([]byte("%PDF"), "application/pdf").Attachment("report.pdf").Write(rr)

	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="report.pdf"` {
		t.Fatalf("disposition = %q", got)
	}
	if rr.Body.String() != "%PDF" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestErrorResponseBody(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(http.StatusUnprocessableEntity, "validation_failed", "required").Field("therapist").Write(rr)

	var body struct {
		Error errorBody `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "validation_failed" || body.Error.Field != "therapist" || body.Error.Message != "required" {
		t.Fatalf("error body = %+v", body.Error)
	}
}

func TestErrorResponseMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&core.ValidationError{Field: "nominal", Err: errors.New("must be positive")}, http.StatusUnprocessableEntity, "validation_failed"},
		{fmt.Errorf("update: %w", ledger.ErrNotFound), http.StatusNotFound, "not_found"},
		{catalog.ErrUnknownTreatment, http.StatusNotFound, "not_found"},
		{ledger.ErrMalformed, http.StatusBadRequest, "bad_request"},
		{fmt.Errorf("add: %w", ledger.ErrPersistence), http.StatusServiceUnavailable, "persistence_failed"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		errorResponse(tc.err).Write(rr)
		if rr.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rr.Code, tc.status)
		}
		var body struct {
			Error errorBody `json:"error"`
		}
		_ = json.Unmarshal(rr.Body.Bytes(), &body)
		if body.Error.Code != tc.code {
			t.Errorf("%v: code = %q, want %q", tc.err, body.Error.Code, tc.code)
		}
	}
}

func TestTooManyRequestsRetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	TooManyRequestsError().Write(rr)
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("status = %d, retry = %q", rr.Code, rr.Header().Get("Retry-After"))
	}
}
