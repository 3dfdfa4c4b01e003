package utils

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorKind classifies failures of calls to the shop backend
type ErrorKind int

const (
	// KindNetwork backend unreachable, timed out, or guarded by an open breaker
	KindNetwork ErrorKind = iota + 1
	// KindHTTPStatus 4xx/5xx reply with a server supplied message
	KindHTTPStatus
	// KindAuth 401/403, or no usable token to send
	KindAuth
	// KindValidation 422 style field errors, from the server or from local preconditions
	KindValidation
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// APIError error returned by every backend call
type APIError struct {
	Kind    ErrorKind         `json:"kind"`
	Status  int               `json:"status,omitempty"` // HTTP status, 0 when no response was received
	Code    int               `json:"code,omitempty"`   // envelope code from the backend
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Method  string            `json:"-"`
	Path    string            `json:"-"`
	Err     error             `json:"-"`
}

// Error implement error interface
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Method != "" {
		fmt.Fprintf(&b, " on %s %s", e.Method, e.Path)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ", status: %d", e.Status)
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, ", code: %d", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ", message: %s", e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		fmt.Fprintf(&b, ", fields: [%s]", strings.Join(parts, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ", error: %v", e.Err)
	}
	return b.String()
}

// Unwrap implement errors.Unwrap interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// WithRequest records which call failed
func (e *APIError) WithRequest(method, path string) *APIError {
	e.Method = method
	e.Path = path
	return e
}

// NewNetworkError backend could not be reached
func NewNetworkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "backend unreachable",
		Err:     err,
	}
}

// NewHTTPStatusError backend answered with a failure status or envelope code
func NewHTTPStatusError(status, code int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		Kind:    KindHTTPStatus,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewAuthError credentials missing, expired or rejected
func NewAuthError(status int, message string, err error) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return &APIError{
		Kind:    KindAuth,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// NewValidationError payload rejected; fields maps a json field to its message
func NewValidationError(status int, message string, fields map[string]string) *APIError {
	if message == "" {
		message = "validation failed"
	}
	return &APIError{
		Kind:    KindValidation,
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}

// AsAPIError finds an APIError in err's chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of kind k
func IsKind(err error, k ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == k
}

// IsNetworkError check network failure
func IsNetworkError(err error) bool {
	return IsKind(err, KindNetwork)
}

// IsHTTPStatusError check failure status
func IsHTTPStatusError(err error) bool {
	return IsKind(err, KindHTTPStatus)
}

// IsAuthError check auth failure
func IsAuthError(err error) bool {
	return IsKind(err, KindAuth)
}

// IsValidationError check validation failure
func IsValidationError(err error) bool {
	return IsKind(err, KindValidation)
}

// HTTPStatus picks the status the console answers with for err
func HTTPStatus(err error) int {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case KindNetwork:
		return http.StatusBadGateway
	case KindAuth:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindHTTPStatus:
		if apiErr.Status >= 400 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
