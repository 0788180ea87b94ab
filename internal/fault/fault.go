// Package fault is the dictation error taxonomy: a coded error that carries
// the failure kind and an optional machine reason through wrapping.
package fault

import (
	stderrs "errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind uint8

const (
	// Unknown is for unclassified errors
	Unknown Kind = iota

	// CaptureError covers no input device, unsupported format and empty recordings
	CaptureError

	// ModelUnavailable is for a model that could not be resolved or loaded
	ModelUnavailable

	// TranscriptionError is for a failed ASR call
	TranscriptionError

	// QualityRejected is a deliberate drop: too short, silent, empty or degenerate
	QualityRejected

	// RefinementFallback is recovered locally; the raw transcript is used
	RefinementFallback

	// InjectionError means every injection strategy was exhausted
	InjectionError
)

var kindNames = map[Kind]string{
	Unknown:            "unknown",
	CaptureError:       "capture_error",
	ModelUnavailable:   "model_unavailable",
	TranscriptionError: "transcription_error",
	QualityRejected:    "quality_rejected",
	RefinementFallback: "refinement_fallback",
	InjectionError:     "injection_error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Terminal reports whether the kind ends the cycle with a user-visible error
func (k Kind) Terminal() bool {
	switch k {
	case CaptureError, ModelUnavailable, TranscriptionError, InjectionError, Unknown:
		return true
	default:
		return false
	}
}

// Reasons attached to QualityRejected and RefinementFallback errors
const (
	ReasonTooShort   = "too_short"
	ReasonSilence    = "silence"
	ReasonEmpty      = "empty"
	ReasonDegenerate = "degenerate"
	ReasonNoModel    = "no_model"
	ReasonLoadFailed = "load_failed"
)

// Error is the structured pipeline error
// msg is developer facing, reason is a stable machine tag, op names the stage
type Error struct {
	orig   error
	msg    string
	kind   Kind
	reason string
	op     string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Kind returns the failure kind
func (e *Error) Kind() Kind { return e.kind }

// Reason returns the machine reason, if set
func (e *Error) Reason() string { return e.reason }

// Op returns the stage label, if set
func (e *Error) Op() string { return e.op }

// New returns a new *Error with the given kind and message
func New(kind Kind, msg string) error { return &Error{kind: kind, msg: msg} }

// Newf returns a new *Error with kind and formatted message
func Newf(kind Kind, format string, a ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with kind and message
func Wrap(orig error, kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with kind and formatted message
func Wrapf(orig error, kind Kind, format string, a ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Rejected returns a QualityRejected error with the given reason
func Rejected(reason, msg string) error {
	return &Error{kind: QualityRejected, msg: msg, reason: reason}
}

// WithReason attaches a reason (copy-on-write). Foreign errors are returned unchanged
func WithReason(err error, reason string) error {
	if e, ok := As(err); ok {
		c := *e
		c.reason = reason
		return &c
	}
	return err
}

// WithOp attaches a stage label (copy-on-write). Foreign errors are returned unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf extracts the Kind from any error, defaulting to Unknown
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}
	return Unknown
}

// Is reports whether err has the given kind
func Is(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

// ReasonOf extracts the reason from any error
func ReasonOf(err error) string {
	if e, ok := As(err); ok {
		return e.reason
	}
	return ""
}
