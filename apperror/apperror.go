// Package apperror is the single place where failures get their HTTP shape.
// Services return an *AppError; handlers pass it to respond.Error, which writes
// the status code from the error's Type and the `{"error": "..."}` body from its
// Message. The wrapped Err is for logs only.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError.
type ErrorType int

const (
	// InternalError is anything the client cannot fix. It is the zero value.
	InternalError ErrorType = iota
	// DatabaseError is a failed storage call.
	DatabaseError
	// MigrationError is a failed schema migration.
	MigrationError
	// ValidationError is a payload that breaks a field rule.
	ValidationError
	// BadRequestError is a body that could not be decoded.
	BadRequestError
	// ConflictError is a duplicate username, email or category name.
	ConflictError
	// AuthError is a missing, malformed or expired credential.
	AuthError
	// ForbiddenError is an authenticated caller touching someone else's task.
	ForbiddenError
	// NotFoundError is a missing resource.
	NotFoundError
	// RateLimitError is a client over its request budget.
	RateLimitError
)

// Duplicates answer 400, not 409: "already exists" is reported as bad input.
var statusCodes = map[ErrorType]int{
	ValidationError: http.StatusBadRequest,
	BadRequestError: http.StatusBadRequest,
	ConflictError:   http.StatusBadRequest,
	AuthError:       http.StatusUnauthorized,
	ForbiddenError:  http.StatusForbidden,
	NotFoundError:   http.StatusNotFound,
	RateLimitError:  http.StatusTooManyRequests,
}

// AppError carries a client-facing Message and an optional underlying Err.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes Err to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the Type to an HTTP status; unknown types are 500.
func (e *AppError) StatusCode() int {
	if code, ok := statusCodes[e.Type]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error" example:"Task not found"`
}

// ToResponse returns the body sent to the client.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// New creates an AppError of the given type.
func New(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return New(DatabaseError, message, err)
}

func NewMigrationError(message string, err error) *AppError {
	return New(MigrationError, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return New(ValidationError, message, err)
}

func NewBadRequestError(message string, err error) *AppError {
	return New(BadRequestError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

// NewAuthError creates a 401.
func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

// NewForbiddenError creates a 403.
func NewForbiddenError(message string, err error) *AppError {
	return New(ForbiddenError, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

// NewRateLimitError creates a 429.
func NewRateLimitError(message string) *AppError {
	return New(RateLimitError, message, nil)
}

// FromError finds an *AppError anywhere in err's chain.
func FromError(err error) (*AppError, bool) {
	var ae *AppError
	if err != nil && errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func is(err error, t ErrorType) bool {
	ae, ok := FromError(err)
	return ok && ae.Type == t
}

func IsNotFound(err error) bool        { return is(err, NotFoundError) }
func IsForbidden(err error) bool       { return is(err, ForbiddenError) }
func IsValidationError(err error) bool { return is(err, ValidationError) }
func IsConflictError(err error) bool   { return is(err, ConflictError) }
