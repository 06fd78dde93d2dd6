package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_MessageComposition(t *testing.T) {
	err := &Error{
		Kind:      KindBrowser,
		Iteration: 3,
		Op:        "click",
		Msg:       "browser operation failed",
		Err:       errors.New("element detached"),
	}

	msg := err.Error()
	for _, want := range []string{"iteration 3", "click", "element detached"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestKindOf_FindsWrappedError(t *testing.T) {
	inner := Protocol(CodeUnknownAction, "unknown action %q", "scroll")
	wrapped := fmt.Errorf("llm call: %w", inner)

	if KindOf(wrapped) != KindModelProtocol {
		t.Errorf("expected model_protocol kind, got %v", KindOf(wrapped))
	}
	if CodeOf(wrapped) != CodeUnknownAction {
		t.Errorf("expected UNKNOWN_ACTION code, got %v", CodeOf(wrapped))
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != 0 {
		t.Error("plain errors have no kind")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
}

func TestErrorsIs_MatchesOnKindAndCode(t *testing.T) {
	err := Unavailable(CodeRetryExhausted, "gave up", errors.New("boom"))

	if !errors.Is(err, &Error{Kind: KindModelUnavailable}) {
		t.Error("should match on kind alone")
	}
	if !errors.Is(err, &Error{Code: CodeRetryExhausted}) {
		t.Error("should match on code alone")
	}
	if errors.Is(err, &Error{Code: CodeCircuitOpen}) {
		t.Error("should not match a different code")
	}
	if errors.Is(err, &Error{Kind: KindBrowser}) {
		t.Error("should not match a different kind")
	}
}

func TestUnwrap_ExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(CodeRetryExhausted, "gave up", cause)

	if !errors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}
}

func TestWithIteration(t *testing.T) {
	err := Protocol(CodeMissingPayload, "no payload")

	annotated := WithIteration(err, 5)
	var e *Error
	if !errors.As(annotated, &e) {
		t.Fatal("expected *Error")
	}
	if e.Iteration != 5 {
		t.Errorf("expected iteration 5, got %d", e.Iteration)
	}

	// The original is untouched.
	if err.Iteration != 0 {
		t.Error("WithIteration must not mutate the original error")
	}

	// An existing iteration is preserved.
	again := WithIteration(annotated, 9)
	errors.As(again, &e)
	if e.Iteration != 5 {
		t.Errorf("existing iteration overwritten: %d", e.Iteration)
	}

	// Plain errors pass through unchanged.
	plain := errors.New("plain")
	if WithIteration(plain, 2) != plain {
		t.Error("plain errors must pass through")
	}
}
