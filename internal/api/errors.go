package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/utxo-ledger/indexer/internal/ledger"
)

// Error describes a failed request: Code is the stable string symbol a
// client can switch on, Message is human-readable detail. The response body
// is built by envelope, which puts Message under the "error" key.
type Error struct {
	Code    ledger.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// NewError creates a new API error.
func NewError(code ledger.ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("API error %s: %s", e.Code, e.Message)
}

// fromLedgerErr translates an internal ledger error into the wire Error,
// defaulting to an internal-error code for anything it doesn't recognize.
func fromLedgerErr(err error) (*Error, int) {
	ledgerErr, ok := ledger.As(err)
	if !ok {
		ledgerErr = ledger.Internal(err)
	}
	return &Error{Code: ledgerErr.Code, Message: ledgerErr.Message}, ledger.HTTPStatus(ledgerErr.Code)
}

// envelope builds the flat { "error": <message>, "code": <symbol> } body
// every failure response uses.
func (e *Error) envelope() gin.H {
	return gin.H{"error": e.Message, "code": e.Code}
}
