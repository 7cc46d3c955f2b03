package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Values the TimeBank API uses in its response wrapper.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	HealthDataOK  = "OK"
)

// ApiResponse is the wrapper every TimeBank endpoint answers with.
type ApiResponse[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Success wraps data in a success response.
func Success[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{Status: StatusSuccess, Message: message, Data: data}
}

// Error wraps data in an error response.
func Error[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{Status: StatusError, Message: message, Data: data}
}

// HealthPayload is a /health body as received, fields left untyped so that
// missing, null and non-string values can be told apart from the expected ones.
type HealthPayload struct {
	Status  any
	Message any
	Data    any
	Raw     json.RawMessage
}

// IsHealthy reports whether status is "success" and data is "OK".
func (p HealthPayload) IsHealthy() bool {
	status, ok := p.Status.(string)
	if !ok || status != StatusSuccess {
		return false
	}
	data, ok := p.Data.(string)
	return ok && data == HealthDataOK
}

// Pretty returns the raw body indented by two spaces, keeping the server's key order.
func (p HealthPayload) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(p.Raw), "", "  "); err != nil {
		return string(p.Raw)
	}
	return buf.String()
}

// FormatValue renders a decoded JSON value as a JSON literal: "error", null, 42.
func FormatValue(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "<unprintable>"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
