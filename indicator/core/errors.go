package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the engine can report.
type ErrorKind int

const (
	// KindInvalidParameter means a configuration violated a documented
	// constraint. Only constructors report it.
	KindInvalidParameter ErrorKind = iota + 1
	// KindInsufficientData means a calculation stage had fewer inputs than it needs.
	KindInsufficientData
	// KindCalculation means an internal composed call failed unexpectedly.
	KindCalculation
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindInsufficientData:
		return "InsufficientData"
	case KindCalculation:
		return "CalculationError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against any *IndicatorError of that kind.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInsufficientData = errors.New("insufficient data")
	ErrCalculation      = errors.New("calculation error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidParameter:
		return ErrInvalidParameter
	case KindInsufficientData:
		return ErrInsufficientData
	case KindCalculation:
		return ErrCalculation
	default:
		return nil
	}
}

// IndicatorError is the concrete error type returned by constructors and
// Calculate methods.
type IndicatorError struct {
	Kind      ErrorKind
	Indicator string
	Msg       string
	Err       error
}

func (e *IndicatorError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Indicator != "" {
		return e.Indicator + ": " + msg
	}
	return msg
}

// Is lets errors.Is(err, ErrInsufficientData) and friends match by kind.
func (e *IndicatorError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *IndicatorError) Unwrap() error { return e.Err }

// InvalidParameter builds a KindInvalidParameter error.
func InvalidParameter(indicator, format string, args ...any) error {
	return &IndicatorError{
		Kind:      KindInvalidParameter,
		Indicator: indicator,
		Msg:       fmt.Sprintf(format, args...),
	}
}

// InsufficientData builds a KindInsufficientData error.
func InsufficientData(indicator string, need, have int) error {
	return &IndicatorError{
		Kind:      KindInsufficientData,
		Indicator: indicator,
		Msg:       fmt.Sprintf("need %d, have %d", need, have),
	}
}

// CalculationFailed wraps the failure of an internal composed call.
func CalculationFailed(indicator, stage string, err error) error {
	return &IndicatorError{
		Kind:      KindCalculation,
		Indicator: indicator,
		Msg:       stage,
		Err:       err,
	}
}

// KindOf reports the kind of the first *IndicatorError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ie *IndicatorError
	if errors.As(err, &ie) {
		return ie.Kind, true
	}
	return 0, false
}
