// Package errors provides structured error handling for nodesync.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of a TreeError.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHierarchyRequest indicates an edit that would produce an illegal tree shape.
	KindHierarchyRequest
	// KindInvalidArgument indicates an argument the tree cannot materialize.
	KindInvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindHierarchyRequest:
		return "hierarchy-request"
	case KindInvalidArgument:
		return "invalid-argument"
	default:
		return "unknown"
	}
}

// TreeError represents a rejected structural edit.
type TreeError struct {
	// Op is the operation that failed (e.g., "dom.Before").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Node describes the node the operation was invoked against, if any.
	Node string
	// NodeID is the diagnostic ID of that node.
	NodeID string
	// Scope names where the edit was issued from, outermost first
	// (e.g., a scenario and one of its steps). Filled in by Report.
	Scope []string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *TreeError) Error() string {
	var sb strings.Builder
	if len(e.Scope) > 0 {
		sb.WriteString(strings.Join(e.Scope, ": "))
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "%s [%s]", e.Op, e.Kind)
	if e.Node != "" {
		fmt.Fprintf(&sb, " node=%s", e.Node)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	return sb.String()
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a TreeError of the same kind, so callers can
// match with errors.Is(err, &TreeError{Kind: KindHierarchyRequest}).
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "scenario testdata/a.yaml").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ReactionError represents a lifecycle callback that panicked while a
// dispatcher was delivering it.
type ReactionError struct {
	// Reaction is the callback name ("connected" or "disconnected").
	Reaction string
	// Node describes the element the reaction was delivered to.
	Node string
	// NodeID is the diagnostic ID of that element.
	NodeID string
	// Recovered is the panic value.
	Recovered any
	// Err is Recovered when the callback panicked with an error, so
	// errors.Is and errors.As see through the panic.
	Err error
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic was recovered.
	Timestamp time.Time
}

// NewReactionError builds a ReactionError for a recovered callback panic,
// capturing the caller's stack.
func NewReactionError(reaction, node, nodeID string, recovered any) *ReactionError {
	err := &ReactionError{
		Reaction:   reaction,
		Node:       node,
		NodeID:     nodeID,
		Recovered:  recovered,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
	if cause, ok := recovered.(error); ok {
		err.Err = cause
	}
	return err
}

func (e *ReactionError) Error() string {
	return fmt.Sprintf("panic in %s callback of %s: %v", e.Reaction, e.Node, e.Recovered)
}

func (e *ReactionError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by nodesync.
type ErrorHandler interface {
	// HandleError is called when a rejected edit is reported.
	HandleError(err *TreeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleReactionError is called when a lifecycle callback panics.
	HandleReactionError(err *ReactionError)
}
