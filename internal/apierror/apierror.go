// Package apierror defines the error envelopes the HTTP layer returns.
// Handlers never serialize raw errors; client-facing detail is always a
// plain message so internals (SQL, driver errors) cannot leak.
package apierror

// APIError is the envelope for every 4xx/5xx response body.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field messages for 422 responses.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
