// Package bmlerr defines the error taxonomy shared by every layer of bml:
// the bit-stream codec core, the EBML engine, and the Matroska schema.
//
// Five kinds, per the error-handling design: EndOfStream, MalformedWire,
// InconsistentData, LogicError, and Warning. Warning never leaves a package
// boundary as an error value — it is reported through ReadOptions.WarnFunc
// instead — but the Kind constant exists so internal helpers can classify
// uniformly.
package bmlerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// EndOfStream: the underlying source was exhausted mid-read, or the
	// sink refused a byte mid-write.
	EndOfStream Kind = iota
	// MalformedWire: ID mismatch, bad VINT, wrong fixed-size field.
	MalformedWire
	// InconsistentData: CRC-32 mismatch.
	InconsistentData
	// LogicError: caller misuse (e.g. reading more than 64 bits at once).
	LogicError
	// Warning: an unknown but tolerated condition. Never returned as an
	// error; reserved for WarnFunc callers that want to classify a message.
	Warning
)

func (k Kind) String() string {
	switch k {
	case EndOfStream:
		return "end of stream"
	case MalformedWire:
		return "malformed wire data"
	case InconsistentData:
		return "inconsistent data"
	case LogicError:
		return "logic error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every bml package.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Sentinels usable with errors.Is for the conditions spec §6 calls out by
// name.
var (
	ErrEndOfStream      = &Error{Kind: EndOfStream, Msg: "end of stream"}
	ErrChecksumMismatch = &Error{Kind: InconsistentData, Msg: "checksum mismatch"}
	ErrOutOfRange       = &Error{Kind: LogicError, Msg: "out of range"}
)

// Is implements the errors.Is contract by comparing Kind, so a caller can
// match any EndOfStream-classified error against ErrEndOfStream regardless
// of its specific message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether err (or any error it wraps) is a *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
