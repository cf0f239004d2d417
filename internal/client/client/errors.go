package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrBadRequest     = errors.New("bad request")
	ErrSessionExpired = errors.New("session expired")
)

// codeTokenNotValid is the backend's marker for an expired or invalid access token.
const codeTokenNotValid = "token_not_valid"

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
	Body       []byte
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnavailable:
		return e.StatusCode >= 500
	}
	return false
}

// errorBody is the error shape of the backend; validation errors are
// field-keyed maps instead, kept verbatim in APIError.Body.
type errorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		e.Code = eb.Code
		e.Detail = eb.Detail
	}
	return e
}
