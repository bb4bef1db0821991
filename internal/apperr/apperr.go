package apperr

import "fmt"

// Code identifies an application error category.
type Code string

const (
	ErrInvalidRequest           Code = "INVALID_REQUEST"            // 400
	ErrNotFound                 Code = "NOT_FOUND"                  // 404
	ErrNoCategoriesEnabled      Code = "NO_CATEGORIES_ENABLED"      // 422
	ErrGenerationInFlight       Code = "GENERATION_IN_FLIGHT"       // 409
	ErrTransport                Code = "TRANSPORT_ERROR"            // 502
	ErrTransportReportedFailure Code = "TRANSPORT_REPORTED_FAILURE" // 502
	ErrExtractionFailed         Code = "EXTRACTION_FAILED"          // 502
	ErrEmptyResult              Code = "EMPTY_RESULT"               // 502
	ErrSettingsSaveFailed       Code = "SETTINGS_SAVE_FAILED"       // 500
	ErrInternal                 Code = "INTERNAL"                   // 500
)

// Error is a structured application error with a code, an HTTP-ish status,
// a user-facing message, and optional details.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{Code: ErrInvalidRequest, Status: 400, Message: msg}
}

// NewNotFound creates a 404 error.
func NewNotFound(what string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", what),
		Details: map[string]any{"identifier": what},
	}
}

// NewNoCategoriesEnabled creates the gating error returned when a generation
// is requested with every category toggled off. No transport call precedes it.
func NewNoCategoriesEnabled() *Error {
	return &Error{
		Code:    ErrNoCategoriesEnabled,
		Status:  422,
		Message: "no categories enabled; enable at least one category in settings",
	}
}

// NewGenerationInFlight creates a 409 error for a second generate call while
// one is already outstanding.
func NewGenerationInFlight() *Error {
	return &Error{
		Code:    ErrGenerationInFlight,
		Status:  409,
		Message: "a digest generation is already in progress",
	}
}

// NewTransport wraps a transport-level failure (the call itself errored).
func NewTransport(err error) *Error {
	msg := "transport error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Code: ErrTransport, Status: 502, Message: msg}
}

// NewTransportReportedFailure wraps a call that succeeded but reported
// success=false. Falls back to a generic message when the transport gave none.
func NewTransportReportedFailure(reported string) *Error {
	if reported == "" {
		reported = "the agent reported a failure without details"
	}
	return &Error{Code: ErrTransportReportedFailure, Status: 502, Message: reported}
}

// NewExtractionFailed creates the error for a response in which no digest
// payload could be located. excerpt, when non-empty, is a truncated sample of
// whatever text the response carried.
func NewExtractionFailed(excerpt string) *Error {
	e := &Error{
		Code:    ErrExtractionFailed,
		Status:  502,
		Message: "agent returned an empty response, please try again",
	}
	if excerpt != "" {
		e.Message = fmt.Sprintf("could not locate a digest in the agent response: %s", excerpt)
		e.Details = map[string]any{"excerpt": excerpt}
	}
	return e
}

// NewEmptyResult creates the error for a structurally valid payload that
// sanitized down to zero usable categories.
func NewEmptyResult() *Error {
	return &Error{
		Code:    ErrEmptyResult,
		Status:  502,
		Message: "no tools found in today's digest, try again shortly",
	}
}

// NewSettingsSaveFailed wraps a settings persistence failure. Unlike history
// writes, settings writes must surface to the user.
func NewSettingsSaveFailed(err error) *Error {
	msg := "failed to save settings"
	if err != nil {
		msg = fmt.Sprintf("failed to save settings: %v", err)
	}
	return &Error{Code: ErrSettingsSaveFailed, Status: 500, Message: msg}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Code: ErrInternal, Status: 500, Message: msg}
}

// Is checks if an error is an *Error with the given code.
func Is(err error, code Code) bool {
	if aErr, ok := err.(*Error); ok {
		return aErr.Code == code
	}
	return false
}
