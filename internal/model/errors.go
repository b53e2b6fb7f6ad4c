package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode is the numeric "code" extension member of a problem response.
// The thousands digit groups codes by area: 1 auth, 3 resources,
// 4 validation, 5 server.
type ErrorCode int

const (
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeTokenExpired ErrorCode = 1002
	ErrCodeTokenInvalid ErrorCode = 1003
	ErrCodeLoginFailed  ErrorCode = 1004
	ErrCodeRateLimited  ErrorCode = 1005

	ErrCodeNotFound      ErrorCode = 3001
	ErrCodeAlreadyExists ErrorCode = 3002
	ErrCodeConflict      ErrorCode = 3003
	ErrCodeLastOwner     ErrorCode = 3004

	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	ErrCodeInternal ErrorCode = 5001
	ErrCodeStorage  ErrorCode = 5002
)

const problemTypeBase = "https://gildr.forgo.software/errors/"

// ProblemDetails is an RFC 9457 problem response body
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	Code     ErrorCode    `json:"code,omitempty"`
}

func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON sends p as application/problem+json with p.Status
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// problemKind is the fixed part of a problem: everything but the detail
type problemKind struct {
	slug   string
	status int
	code   ErrorCode
}

var (
	kindUnauthorized  = problemKind{"unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized}
	kindTokenExpired  = problemKind{"token-expired", http.StatusUnauthorized, ErrCodeTokenExpired}
	kindTokenInvalid  = problemKind{"token-invalid", http.StatusUnauthorized, ErrCodeTokenInvalid}
	kindLoginFailed   = problemKind{"login-failed", http.StatusUnauthorized, ErrCodeLoginFailed}
	kindRateLimited   = problemKind{"rate-limited", http.StatusTooManyRequests, ErrCodeRateLimited}
	kindNotFound      = problemKind{"not-found", http.StatusNotFound, ErrCodeNotFound}
	kindAlreadyExists = problemKind{"already-exists", http.StatusConflict, ErrCodeAlreadyExists}
	kindConflict      = problemKind{"conflict", http.StatusConflict, ErrCodeConflict}
	kindLastOwner     = problemKind{"last-owner", http.StatusConflict, ErrCodeLastOwner}
	kindValidation    = problemKind{"validation", http.StatusUnprocessableEntity, ErrCodeValidation}
	kindBadRequest    = problemKind{"bad-request", http.StatusBadRequest, ErrCodeInvalidInput}
	kindInternal      = problemKind{"internal", http.StatusInternalServerError, ErrCodeInternal}
	kindStorage       = problemKind{"storage", http.StatusInternalServerError, ErrCodeStorage}
)

func (k problemKind) with(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemTypeBase + k.slug,
		Title:  http.StatusText(k.status),
		Status: k.status,
		Detail: detail,
		Code:   k.code,
	}
}

func NewUnauthorizedError(detail string) *ProblemDetails { return kindUnauthorized.with(detail) }

func NewTokenExpiredError() *ProblemDetails { return kindTokenExpired.with("token expired") }

func NewTokenInvalidError(detail string) *ProblemDetails { return kindTokenInvalid.with(detail) }

// NewLoginFailedError does not say whether the name or the password was wrong
func NewLoginFailedError() *ProblemDetails {
	return kindLoginFailed.with("Invalid name or password")
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return kindRateLimited.with(fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter))
}

func NewNotFoundError(resource string) *ProblemDetails {
	return kindNotFound.with(resource + " not found")
}

func NewAlreadyExistsError(detail string) *ProblemDetails { return kindAlreadyExists.with(detail) }

func NewConflictError(detail string) *ProblemDetails { return kindConflict.with(detail) }

func NewLastOwnerError() *ProblemDetails {
	return kindLastOwner.with("A guild must keep at least one owner")
}

// NewValidationError carries every field error; the detail names the first
func NewValidationError(fields []FieldError) *ProblemDetails {
	var detail string
	switch len(fields) {
	case 0:
		detail = "One or more fields failed validation"
	case 1:
		detail = fields[0].Field + ": " + fields[0].Message
	default:
		detail = fmt.Sprintf("%s: %s (and %d more errors)", fields[0].Field, fields[0].Message, len(fields)-1)
	}
	p := kindValidation.with(detail)
	p.Title = "Validation Error"
	p.Errors = fields
	return p
}

func NewBadRequestError(detail string) *ProblemDetails { return kindBadRequest.with(detail) }

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return kindInternal.with(detail)
}

func NewStorageError() *ProblemDetails {
	return kindStorage.with("The record store is unavailable")
}
