package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeInternal              = "INTERNAL_ERROR"
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeInvalidDifficulty     = "INVALID_DIFFICULTY"
	ErrCodeGenerationParse       = "GENERATION_PARSE_ERROR"
	ErrCodeGenerationFailed      = "GENERATION_FAILED"
	ErrCodeGenerationUnavailable = "GENERATION_UNAVAILABLE"
	ErrCodeConflict              = "CONFLICT"
)

// Sentinel conditions. Check with errors.Is; AppErrors built from them unwrap to them.
var (
	ErrCardNotFound      = stderrors.New("card not found")
	ErrDeckNotFound      = stderrors.New("deck not found")
	ErrInvalidDifficulty = stderrors.New("invalid difficulty")
	ErrGenerationParse   = stderrors.New("generation output could not be parsed")
	ErrNoFlashcards      = stderrors.New("no flashcards provided")
	ErrCardInOtherDeck   = stderrors.New("flashcard belongs to another deck")
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is forwards to the standard library so callers need only this package.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	var sentinel error
	switch resource {
	case "flashcard":
		sentinel = ErrCardNotFound
	case "deck":
		sentinel = ErrDeckNotFound
	}
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
		Err:     sentinel,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewNoFlashcardsError is the save-time validation failure shown to the user
// when no card has both a question and an answer.
func NewNoFlashcardsError() *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "please add at least one flashcard with both question and answer",
		Status:  http.StatusBadRequest,
		Err:     ErrNoFlashcards,
	}
}

// NewInvalidDifficultyError rejects a rating outside easy/medium/hard.
func NewInvalidDifficultyError(value string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidDifficulty,
		Message: fmt.Sprintf("difficulty must be 'easy', 'medium', or 'hard', got %q", value),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidDifficulty,
	}
}

// NewGenerationParseError reports unusable output from the generation service.
func NewGenerationParseError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeGenerationParse,
		Message: "failed to generate flashcards",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewGenerationFailedError reports a failed call to the generation service.
func NewGenerationFailedError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeGenerationFailed,
		Message: "failed to generate flashcards",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewGenerationUnavailableError is returned when generation is disabled or its queue is full.
func NewGenerationUnavailableError() *AppError {
	return &AppError{
		Code:    ErrCodeGenerationUnavailable,
		Message: "flashcard generation is busy, try again shortly",
		Status:  http.StatusServiceUnavailable,
	}
}

// NewCardConflictError rejects saving a card under a deck that does not own it.
func NewCardConflictError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: "flashcard belongs to another deck",
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}
