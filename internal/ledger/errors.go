package ledger

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is one of the stable, wire-level symbols the transport maps to
// an HTTP status and echoes in the error envelope.
type ErrorCode string

const (
	CodeValidationError   ErrorCode = "VALIDATION_ERROR"
	CodeInvalidHeight     ErrorCode = "INVALID_HEIGHT"
	CodeSumMismatch       ErrorCode = "SUM_MISMATCH"
	CodeDoubleSpend       ErrorCode = "DOUBLE_SPEND"
	CodeAlreadySpent      ErrorCode = "ALREADY_SPENT"
	CodeNonexistentOutput ErrorCode = "NONEXISTENT_OUTPUT"
	CodeInvalidBlockID    ErrorCode = "INVALID_BLOCK_ID"
	CodeInvalidTarget     ErrorCode = "INVALID_TARGET"
	CodeInternal          ErrorCode = "INTERNAL_SERVER_ERROR"
)

// Error is the tagged sum every engine operation raises on failure. HTTP
// status is never stored on the error itself; it is derived from Code by
// HTTPStatus so the two can never drift apart.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds an Error, formatting Message the way fmt.Sprintf would.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a lower-level store/IO error as an engine internal error.
// The cause's message is copied in; Error does not implement Unwrap, so the
// original error value itself does not survive the wrap.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: cause.Error()}
}

// HTTPStatus is a pure function of the error tag.
func HTTPStatus(code ErrorCode) int {
	if code == CodeInternal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// As extracts an *Error from err, if any wraps one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
