// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses.
// It provides a fluent API for status, headers and body with consistent
// error formatting.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ResponseBuilder provides a fluent API for building API responses.
type ResponseBuilder struct {
	statusCode  int
	body        []byte
	contentType string
	headers     map[string]string
	errBody     *errorBody
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON encodes v as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		return InternalServerError("could not encode response")
	}
	b.body = data
	b.contentType = "application/json; charset=utf-8"
	return b
}

// Body sets a raw body with its content type.
func (b *ResponseBuilder) Body(content []byte, contentType string) *ResponseBuilder {
	b.body = content
	b.contentType = contentType
	return b
}

// Attachment marks the body as a download with the given file name.
func (b *ResponseBuilder) Attachment(fileName string) *ResponseBuilder {
	return b.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
}

// Field names the offending input field of an error response.
func (b *ResponseBuilder) Field(name string) *ResponseBuilder {
	if b.errBody != nil {
		b.errBody.Field = name
	}
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	if b.errBody != nil {
		data, _ := json.Marshal(map[string]*errorBody{"error": b.errBody})
		b.body = data
		b.contentType = "application/json; charset=utf-8"
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.contentType != "" {
		w.Header().Set("Content-Type", b.contentType)
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, code, message string) *ResponseBuilder {
	b := NewResponse().Status(statusCode)
	b.errBody = &errorBody{Code: code, Message: message}
	return b
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, "bad_request", message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, "not_found", message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal", message)
}

// TooManyRequestsError creates a 429 response with a retry hint.
func TooManyRequestsError() *ResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate_limited", "rate limit exceeded, try again later").
		Header("Retry-After", "60")
}
