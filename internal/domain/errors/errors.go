package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidState        = errors.New("transition not legal from current status")
	ErrChecklistIncomplete = errors.New("release checklist incomplete")
	ErrNoEvidence          = errors.New("no delivery evidence on record")
	ErrNotVerified         = errors.New("delivery not verified")
	ErrAlreadyReleased     = errors.New("money already released")
	ErrDonatedPrizeNoMoney = errors.New("donated prize has no cash equivalent")
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// Stable machine-readable codes. Business refusals are contract, not noise;
// clients branch on these.
const (
	CodeNotFound            = "ERR_NOT_FOUND"
	CodeConflict            = "ERR_CONFLICT"
	CodeInvalidInput        = "ERR_VALIDATION"
	CodeBadRequest          = "ERR_BAD_REQUEST"
	CodeUnauthorized        = "ERR_UNAUTHORIZED"
	CodeForbidden           = "ERR_FORBIDDEN"
	CodeInternalError       = "ERR_INTERNAL"
	CodeInvalidState        = "ERR_INVALID_STATE"
	CodeChecklistIncomplete = "ERR_CHECKLIST_INCOMPLETE"
	CodeNoEvidence          = "ERR_NO_EVIDENCE"
	CodeNotVerified         = "ERR_NOT_VERIFIED"
	CodeAlreadyReleased     = "ERR_ALREADY_RELEASED"
	CodeDonatedPrizeNoMoney = "ERR_DONATED_PRIZE_NO_MONEY"
	CodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// AppError represents application error with HTTP status and stable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`

	// LegalNext enumerates the statuses a refused transition could legally
	// move to instead. Missing names the unmet checklist items.
	LegalNext []string `json:"legalNext,omitempty"`
	Missing   []string `json:"missing,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// InvalidState refuses an illegal status transition. legalNext enumerates the
// statuses the caller could move to instead.
func InvalidState(message string, legalNext []string) *AppError {
	e := NewAppError(http.StatusConflict, CodeInvalidState, message, ErrInvalidState)
	e.LegalNext = legalNext
	return e
}

func ChecklistIncomplete(missing []string) *AppError {
	e := NewAppError(http.StatusUnprocessableEntity, CodeChecklistIncomplete, "release checklist incomplete", ErrChecklistIncomplete)
	e.Missing = missing
	return e
}

func NoEvidence(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeNoEvidence, message, ErrNoEvidence)
}

func NotVerified(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeNotVerified, message, ErrNotVerified)
}

func AlreadyReleased(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeAlreadyReleased, message, ErrAlreadyReleased)
}

func DonatedPrizeNoMoney(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeDonatedPrizeNoMoney, message, ErrDonatedPrizeNoMoney)
}

func ConcurrencyConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConcurrencyConflict, message, ErrConcurrencyConflict)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
