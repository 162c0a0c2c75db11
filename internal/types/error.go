package types

import "fmt"

// Error type tags surfaced in the response envelope.
const (
	ErrTypeValidation = "validation"
	ErrTypeParse      = "parse"
	ErrTypeNotFound   = "not_found"
	ErrTypeConflict   = "conflict"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewValidationError reports a rejected submission. The store is never
// mutated before validation passes.
func NewValidationError(message string) *CustomError {
	return &CustomError{Code: 400, Message: message, Type: ErrTypeValidation}
}

// NewParseError reports malformed JSON in a draft edit or config field.
func NewParseError(message string) *CustomError {
	return &CustomError{Code: 422, Message: message, Type: ErrTypeParse}
}

// NewNotFoundError reports a failed lookup by id.
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: 404, Message: message, Type: ErrTypeNotFound}
}

// NewConflictError reports an operation attempted in a state that forbids
// it, such as exporting a draft whose last edit failed to parse.
func NewConflictError(message string) *CustomError {
	return &CustomError{Code: 409, Message: message, Type: ErrTypeConflict}
}
