package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/evdnx/goquant/indicator"
)

// Stable error codes returned to callers.
const (
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeCalculation       = "CALCULATION_ERROR"
	CodeIndicatorNotFound = "INDICATOR_NOT_FOUND"
	CodeDataSource        = "DATA_SOURCE_ERROR"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeCancelled         = "CANCELLED"
)

// ErrorPayload is the failure reply of every dispatcher operation.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ErrorPayload) Error() string { return e.Code + ": " + e.Message }

func (e *ErrorPayload) Unwrap() error { return e.Err }

func newPayload(code string, err error, format string, args ...any) *ErrorPayload {
	return &ErrorPayload{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// codeForIndicator maps an engine error onto a stable code.
func codeForIndicator(err error) string {
	if isContextErr(err) {
		return CodeCancelled
	}
	kind, ok := indicator.KindOf(err)
	if !ok {
		return CodeCalculation
	}
	switch kind {
	case indicator.KindInvalidParameter:
		return CodeInvalidParameter
	case indicator.KindInsufficientData:
		return CodeInsufficientData
	default:
		return CodeCalculation
	}
}

func sourceFailure(err error) *ErrorPayload {
	if isContextErr(err) {
		return cancelled(err)
	}
	return newPayload(CodeDataSource, err, "failed to fetch market data: %v", err)
}

func cancelled(err error) *ErrorPayload {
	return newPayload(CodeCancelled, err, "request aborted: %v", err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
