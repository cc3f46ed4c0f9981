package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so cloned errors still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "you do not have permission to perform this action")
	ErrUnauthorized       = New("NOT_AUTHENTICATED", http.StatusUnauthorized, "authentication credentials were not provided or are invalid")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInvalidPayload     = New("INVALID_PAYLOAD", http.StatusBadRequest, "provide a CSV file or a JSON list")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	ErrTimeRangeRequired  = New("TIME_RANGE_REQUIRED", http.StatusBadRequest, "from/to query params are required")
	ErrInvalidTimeRange   = New("INVALID_TIME_RANGE", http.StatusBadRequest, "from/to must be ISO datetime")
	ErrCourseYearRequired = New("COURSE_YEAR_REQUIRED", http.StatusBadRequest, "course_year query param is required")
	ErrInvalidCourseYear  = New("INVALID_COURSE_YEAR", http.StatusBadRequest, "course_year must be an integer")

	ErrProgramNotFound = New("PROGRAM_NOT_FOUND", http.StatusBadRequest, "program not found")
	ErrRosterNotFound  = New("ROSTER_NOT_FOUND", http.StatusBadRequest, "student roster not found and program_id not provided")
	ErrInvalidProgram  = New("INVALID_PROGRAM", http.StatusBadRequest, "program_id must reference a program or direction catalog item")
	ErrInvalidRegion   = New("INVALID_REGION", http.StatusBadRequest, "region_id must reference a region catalog item")

	ErrInvalidCatalogType = New("INVALID_CATALOG_TYPE", http.StatusBadRequest, "catalog reference has the wrong type")

	ErrServiceTokenRequired = New("SERVICE_TOKEN_REQUIRED", http.StatusForbidden, "X-SERVICE-TOKEN header is required")
	ErrServiceTokenInvalid  = New("SERVICE_TOKEN_INVALID", http.StatusForbidden, "invalid service token")

	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
