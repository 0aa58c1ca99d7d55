package terse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a fatal error. Every kind aborts the run.
type ErrorKind string

const (
	ErrLex     ErrorKind = "LexError"
	ErrParse   ErrorKind = "ParseError"
	ErrArity   ErrorKind = "ArityError"
	ErrName    ErrorKind = "NameError"
	ErrLabel   ErrorKind = "LabelError"
	ErrAssign  ErrorKind = "AssignError"
	ErrExec    ErrorKind = "ExecError"
	ErrLimit   ErrorKind = "LimitError"
	ErrRuntime ErrorKind = "RuntimeError"
)

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

type StackFrame struct {
	Function string
	Pos      Position
}

// Error is the single fatal error type produced by compilation and
// execution.
type Error struct {
	Kind      ErrorKind
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, "%s at %d:%d: %s", e.Kind.label(), e.Pos.Line, e.Pos.Column, e.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", e.Kind.label(), e.Message)
	}
	if e.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(e.CodeFrame)
	}

	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range e.Frames[:errorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Unwrap exposes host errors such as context cancellation.
func (e *Error) Unwrap() error {
	return e.cause
}

func (k ErrorKind) label() string {
	switch k {
	case ErrLex:
		return "lex error"
	case ErrParse:
		return "parse error"
	case ErrArity:
		return "arity error"
	case ErrName:
		return "name error"
	case ErrLabel:
		return "label error"
	case ErrAssign:
		return "assignment error"
	case ErrExec:
		return "exec error"
	case ErrLimit:
		return "limit error"
	default:
		return "runtime error"
	}
}

func newSyntaxError(kind ErrorKind, pos Position, msg string, source string) *Error {
	return &Error{Kind: kind, Message: msg, Pos: pos, CodeFrame: formatCodeFrame(source, pos)}
}

func (exec *Execution) errorAt(kind ErrorKind, pos Position, format string, args ...any) error {
	return exec.newError(kind, fmt.Sprintf(format, args...), pos, nil)
}

func (exec *Execution) newError(kind ErrorKind, message string, pos Position, cause error) *Error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(exec.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}
	return &Error{
		Kind:      kind,
		Message:   message,
		Pos:       pos,
		CodeFrame: formatCodeFrame(exec.source, pos),
		Frames:    frames,
		cause:     cause,
	}
}

// wrapError attaches position and stack to errors raised by builtins and
// host collaborators. A positioned *Error passes through; an unpositioned
// one keeps its kind and gains the call site.
func (exec *Execution) wrapError(kind ErrorKind, err error, pos Position) error {
	if err == nil {
		return nil
	}
	var scriptErr *Error
	if errors.As(err, &scriptErr) {
		if scriptErr.Pos.Line > 0 {
			return err
		}
		return exec.newError(scriptErr.Kind, scriptErr.Message, pos, scriptErr.cause)
	}
	return exec.newError(kind, err.Error(), pos, err)
}

// builtinError is how builtins report a failure of a specific kind. The
// call site fills in the position.
func builtinError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}
