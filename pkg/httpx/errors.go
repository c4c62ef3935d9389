package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in the "error" field of every failure body.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeServerError        = "server_error"
)

// ErrorResponse is the wire shape of an APIError.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_request"`
	ErrorDescription string `json:"error_description,omitempty" example:"username is required"`
}

// APIError is an HTTP failure that servers write and clients parse back.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WithDescription returns a copy of e carrying desc.
func (e *APIError) WithDescription(desc string) *APIError {
	c := *e
	c.Description = desc
	return &c
}

func (e *APIError) WriteError(w http.ResponseWriter) {
	WriteJSON(w, e.StatusCode, ErrorResponse{Error: e.Code, ErrorDescription: e.Description})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidCredentials,
		Description: "invalid credentials",
	}
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidToken,
		Description: "the token is missing, invalid or expired",
	}
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        CodeForbidden,
		Description: "access denied",
	}
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        CodeNotFound,
		Description: "not found",
	}
	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        CodeConflict,
		Description: "resource already exists",
	}
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        CodeServerError,
		Description: "internal server error",
	}
)

// ParseError turns a non-2xx response body into an *APIError. It returns nil
// for 2xx codes.
func ParseError(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &APIError{StatusCode: statusCode, Code: resp.Error, Description: resp.ErrorDescription}
	}

	return &APIError{
		StatusCode:  statusCode,
		Code:        CodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode)),
	}
}
