package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct {
	h ErrorHandler
}

var current atomic.Pointer[handlerSlot]

func init() {
	SetHandler(nil)
}

// SetHandler installs the process-wide error handler. Pass nil to restore
// a LogHandler with default settings. Reports from concurrent scenario
// runs may race with SetHandler; each report sees either handler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerSlot{h: h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report hands a rejected edit to the installed handler. Non-empty scope
// entries are appended to err.Scope, so a caller can say where the edit came from
// (Report(err, "remove.yaml", "steps[1]")). A zero Timestamp is set to now.
func Report(err *TreeError, scope ...string) {
	if err == nil {
		return
	}
	for _, s := range scope {
		if s != "" {
			err.Scope = append(err.Scope, s)
		}
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	Handler().HandlePanic(err)
}

// ReportReaction hands a failed lifecycle callback to the installed handler.
func ReportReaction(err *ReactionError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleReactionError(err)
}

// RecoverAs recovers a panic in the deferring function, reports it as a
// PanicError for op and passes that error to onPanic:
//
//	defer errors.RecoverAs("scenario a.yaml", func(p *errors.PanicError) { err = p })
func RecoverAs(op string, onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	p := &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
	ReportPanic(p)
	if onPanic != nil {
		onPanic(p)
	}
}

// CaptureStack renders the stack of its caller's caller, one
// "function\n\tfile:line" entry per frame. Runtime frames (including the
// panic machinery between a recover and the panicking code) are left out.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
