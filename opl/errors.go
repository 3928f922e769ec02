package opl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies runtime failures. Every ErrorKind is itself an error
// so callers can test a RuntimeError with errors.Is.
type ErrorKind string

const (
	UndefinedName           ErrorKind = "UndefinedName"
	DoubleDefinition        ErrorKind = "DoubleDefinition"
	OperatorNotSupported    ErrorKind = "OperatorNotSupported"
	TypeMismatch            ErrorKind = "TypeMismatch"
	ArityMismatch           ErrorKind = "ArityMismatch"
	MemberAccessOnNonObject ErrorKind = "MemberAccessOnNonObject"
	IndexNotInteger         ErrorKind = "IndexNotInteger"
	UnknownNode             ErrorKind = "UnknownNode"
	IndexOutOfRange         ErrorKind = "IndexOutOfRange"
	DivisionByZero          ErrorKind = "DivisionByZero"
	InvalidNumber           ErrorKind = "InvalidNumber"
	StackOverflow           ErrorKind = "StackOverflow"
	StepQuotaExceeded       ErrorKind = "StepQuotaExceeded"
	HostError               ErrorKind = "HostError"
)

func (k ErrorKind) Error() string { return string(k) }

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is the single error type produced by evaluation. Evaluation
// stops at the first one.
type RuntimeError struct {
	Kind      ErrorKind
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", re.Kind, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Unwrap exposes the kind, so errors.Is(err, opl.ArityMismatch) matches.
func (re *RuntimeError) Unwrap() error {
	return re.Kind
}

// kindError is a classified failure raised below the evaluator (value
// operators, scopes, builtins) before a source position is known.
type kindError struct {
	kind ErrorKind
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind ErrorKind, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func errUnsupported(op string, kind ValueKind) error {
	return newKindError(OperatorNotSupported, "operator '%s' is not supported for %s", op, kind)
}

func errTypeMismatch(format string, args ...any) error {
	return newKindError(TypeMismatch, format, args...)
}

func classifyError(err error) (ErrorKind, string) {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind, ke.msg
	}
	return HostError, err.Error()
}
