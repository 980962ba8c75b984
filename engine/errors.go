package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies an EngineError into the caller-facing categories of
// spec §6/§7.
type ErrorKind string

const (
	KindInvalidParameters ErrorKind = "InvalidParameters"
	KindNoKeys            ErrorKind = "NoKeys"
	KindUnknownName       ErrorKind = "UnknownName"
	KindRingMismatch      ErrorKind = "RingMismatch"
	KindOperationBlocked  ErrorKind = "OperationBlocked"
	KindRelinFailure      ErrorKind = "RelinFailure"
	KindDecryptFailure    ErrorKind = "DecryptFailure"
)

// BlockReason further qualifies a KindOperationBlocked error.
type BlockReason string

const (
	ReasonCriticalPre  BlockReason = "critical_pre"
	ReasonCriticalPost BlockReason = "critical_post"
	ReasonSwitchFailed BlockReason = "switch_failed"
)

// EngineError is the structured error surfaced by every Engine entry
// point. Kind identifies the caller-facing category; Reason is only set
// for KindOperationBlocked. The underlying cause (if any) is wrapped with
// github.com/pkg/errors so callers can still inspect the original
// arithmetic or policy failure via errors.Cause.
type EngineError struct {
	Kind   ErrorKind
	Reason BlockReason
	cause  error
}

func (e *EngineError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("engine: %s[%s]: %v", e.Kind, e.Reason, e.cause)
	}
	if e.cause != nil {
		return fmt.Sprintf("engine: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("engine: %s", e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *EngineError) Unwrap() error { return e.cause }

// Cause exposes the wrapped cause to github.com/pkg/errors' errors.Cause.
func (e *EngineError) Cause() error { return e.cause }

func newError(kind ErrorKind, msg string) *EngineError {
	return &EngineError{Kind: kind, cause: errors.New(msg)}
}

func wrapError(kind ErrorKind, msg string, cause error) *EngineError {
	return &EngineError{Kind: kind, cause: errors.Wrap(cause, msg)}
}

func blockedError(reason BlockReason, msg string) *EngineError {
	return &EngineError{Kind: KindOperationBlocked, Reason: reason, cause: errors.New(msg)}
}
