// Package apperr defines the closed set of error kinds the agent core
// surfaces. Callers branch on Kind and Code instead of matching strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the failure category. The set is closed.
type Kind int

const (
	// KindConfiguration: invalid or missing settings, fatal before any run.
	KindConfiguration Kind = iota + 1
	// KindBrowser: observation, navigation or interaction failure.
	KindBrowser
	// KindModelProtocol: the model response could not be interpreted.
	KindModelProtocol
	// KindModelUnavailable: the model could not be reached at all.
	KindModelUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindBrowser:
		return "browser"
	case KindModelProtocol:
		return "model_protocol"
	case KindModelUnavailable:
		return "model_unavailable"
	default:
		return "unknown"
	}
}

// Code narrows a kind to a specific named failure.
type Code string

const (
	// ModelProtocol codes.
	CodeMissingPayload   Code = "MISSING_PAYLOAD"
	CodeMalformedPayload Code = "MALFORMED_PAYLOAD"
	CodeInvalidShape     Code = "INVALID_SHAPE"
	CodeUnknownAction    Code = "UNKNOWN_ACTION"
	CodeInvalidArgs      Code = "INVALID_ARGS"

	// ModelUnavailable codes.
	CodeCircuitOpen    Code = "CIRCUIT_OPEN"
	CodeRetryExhausted Code = "RETRY_EXHAUSTED"
	CodeTimeout        Code = "TIMEOUT"
)

// Error carries the structured detail needed to render a diagnostic:
// kind, code, the originating iteration and operation, and the cause.
type Error struct {
	Kind      Kind
	Code      Code
	Iteration int // 1-based; 0 when the failure is not tied to an iteration
	Op        string
	Msg       string
	Err       error
}

func (e *Error) Error() string {
	s := e.Msg
	if e.Code != "" {
		s = fmt.Sprintf("[%s] %s", e.Code, s)
	}
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Iteration > 0 {
		s = fmt.Sprintf("iteration %d: %s", e.Iteration, s)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind and code without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != 0 && t.Kind != e.Kind {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind != 0 || t.Code != ""
}

func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...)}
}

func Browser(iteration int, op string, err error) *Error {
	return &Error{Kind: KindBrowser, Iteration: iteration, Op: op, Msg: "browser operation failed", Err: err}
}

func Protocol(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindModelProtocol, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Unavailable(code Code, msg string, err error) *Error {
	return &Error{Kind: KindModelUnavailable, Code: code, Msg: msg, Err: err}
}

// KindOf extracts the kind from any error in the chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf extracts the code from any error in the chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// WithIteration returns err annotated with the originating iteration when it
// is a structured error without one; other errors pass through unchanged.
func WithIteration(err error, iteration int) error {
	var e *Error
	if errors.As(err, &e) && e.Iteration == 0 {
		clone := *e
		clone.Iteration = iteration
		return &clone
	}
	return err
}
