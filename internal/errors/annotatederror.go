// Package errors extends the standard library errors with annotated errors that remember where they were
// wrapped and carry [slog.Attr] for structured logging.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Re-exports so that callers only need to import this package.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

// New returns a new error with a source location of the caller.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:   msg,
		err:   nil,
		attrs: attrs,
		pc:    callerPC(3),
	}
}

// NewSentinel returns a plain error meant to be declared as a package level variable and compared with [Is].
func NewSentinel(msg string) error {
	return stderrors.New(msg) //nolint:err113 // sentinel constructor
}

// Wrap annotates err with msg, the caller source location and the given attributes.
// Wrap returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		pc:    callerPC(3),
	}
}

// DecoratePanic turns a recovered value into an error pointing at the line that panicked.
// It returns nil when nothing was recovered.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	var pc uintptr
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			pc = frame.PC
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	var err error
	if e, ok := recovered.(error); ok {
		err = e
	}
	return &annotatedError{
		msg:   fmt.Sprintf("panic: %v", recovered),
		err:   err,
		attrs: nil,
		pc:    pc,
		panic: true,
	}
}

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
	panic bool
}

func (e *annotatedError) Error() string {
	if e.err == nil || e.panic {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

func (e *annotatedError) source() string {
	if e.pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{e.pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return frame.File + ":" + strconv.Itoa(frame.Line)
}

// SlogError returns an "error" group attribute holding the message, the annotations collected from the whole
// chain, and the source location of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	var (
		annotations []any
		source      string
	)
	collect(err, &annotations, &source)

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

func collect(err error, annotations *[]any, source *string) {
	if err == nil {
		return
	}
	var ae *annotatedError
	switch e := err.(type) { //nolint:errorlint // walking the chain manually
	case *annotatedError:
		ae = e
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collect(inner, annotations, source)
		}
		return
	default:
		collect(stderrors.Unwrap(err), annotations, source)
		return
	}
	for _, a := range ae.attrs {
		*annotations = append(*annotations, a)
	}
	if s := ae.source(); s != "" {
		*source = s
	}
	collect(ae.err, annotations, source)
}

func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	if runtime.Callers(skip, pcs[:]) == 0 {
		return 0
	}
	return pcs[0]
}
