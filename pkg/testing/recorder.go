package testing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/nodesync/pkg/lifecycle"
)

// FakeNode is a named stand-in for a tree node. Identity is the pointer.
type FakeNode struct {
	Name    string
	element bool
}

func (n *FakeNode) String() string {
	return n.Name
}

// Recorder is a fake lifecycle.Host and lifecycle.Dispatcher.
//
// It is not safe for concurrent use; like the code under test it expects a
// single logical thread.
type Recorder struct {
	connected map[*FakeNode]bool
	log       []string

	// OnConnect, when set, runs after a connect call is logged. Tests use it
	// to reenter a Synchronizer from inside a reaction.
	OnConnect func(n *FakeNode)
	// OnDisconnect is the disconnect counterpart of OnConnect.
	OnDisconnect func(n *FakeNode)

	// FailWith, when set, makes every primitive return it without changing
	// connectivity.
	FailWith error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{connected: make(map[*FakeNode]bool)}
}

// Element creates a disconnected lifecycle-capable fake node.
func (r *Recorder) Element(name string) *FakeNode {
	return &FakeNode{Name: name, element: true}
}

// Node creates a disconnected fake node without lifecycle capability, such
// as a text node or fragment.
func (r *Recorder) Node(name string) *FakeNode {
	return &FakeNode{Name: name}
}

// Connected creates a lifecycle-capable fake node with the given
// connectivity.
func (r *Recorder) Connected(name string, connected bool) *FakeNode {
	n := r.Element(name)
	r.SetConnected(n, connected)
	return n
}

// SetConnected overrides what IsConnected reports for n.
func (r *Recorder) SetConnected(n *FakeNode, connected bool) {
	if connected {
		r.connected[n] = true
	} else {
		delete(r.connected, n)
	}
}

// IsConnected implements lifecycle.Host.
func (r *Recorder) IsConnected(n *FakeNode) bool {
	return r.connected[n]
}

// IsElement implements lifecycle.Host.
func (r *Recorder) IsElement(n *FakeNode) bool {
	return n != nil && n.element
}

// ConnectTree implements lifecycle.Dispatcher.
func (r *Recorder) ConnectTree(n *FakeNode) {
	r.log = append(r.log, "connect "+n.Name)
	if r.OnConnect != nil {
		r.OnConnect(n)
	}
}

// DisconnectTree implements lifecycle.Dispatcher.
func (r *Recorder) DisconnectTree(n *FakeNode) {
	r.log = append(r.log, "disconnect "+n.Name)
	if r.OnDisconnect != nil {
		r.OnDisconnect(n)
	}
}

// Log returns a copy of everything recorded so far.
func (r *Recorder) Log() []string {
	return slices.Clone(r.log)
}

// Calls returns only the connect and disconnect entries.
func (r *Recorder) Calls() []string {
	var calls []string
	for _, entry := range r.log {
		if strings.HasPrefix(entry, "edit ") {
			continue
		}
		calls = append(calls, entry)
	}
	return calls
}

// Count returns how many times entry was recorded, e.g. Count("connect A").
func (r *Recorder) Count(entry string) int {
	n := 0
	for _, e := range r.log {
		if e == entry {
			n++
		}
	}
	return n
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.log = nil
}

// Primitives returns edits that model connectivity the way a real tree
// would: inserted nodes take on the connectivity of their new position, a
// replaced target leaves the tree unless it is among its own replacements,
// and a removed target is disconnected. Each edit is logged as
// "edit <op> <target>".
func (r *Recorder) Primitives() lifecycle.Primitives[*FakeNode] {
	sibling := func(op string) lifecycle.EditFunc[*FakeNode] {
		return func(target *FakeNode, items []lifecycle.Item[*FakeNode]) error {
			if err := r.edit(op, target, items); err != nil {
				return err
			}
			r.place(items, r.IsConnected(target))
			return nil
		}
	}
	return lifecycle.Primitives[*FakeNode]{
		Before:  sibling("before"),
		After:   sibling("after"),
		Append:  sibling("append"),
		Prepend: sibling("prepend"),
		ReplaceWith: func(target *FakeNode, items []lifecycle.Item[*FakeNode]) error {
			if err := r.edit("replaceWith", target, items); err != nil {
				return err
			}
			live := r.IsConnected(target)
			r.SetConnected(target, false)
			r.place(items, live)
			return nil
		},
		Remove: func(target *FakeNode) error {
			if err := r.edit("remove", target, nil); err != nil {
				return err
			}
			r.SetConnected(target, false)
			return nil
		},
	}
}

func (r *Recorder) edit(op string, target *FakeNode, items []lifecycle.Item[*FakeNode]) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	for i, it := range items {
		if it.IsZero() {
			return fmt.Errorf("empty item at index %d", i)
		}
	}
	r.log = append(r.log, fmt.Sprintf("edit %s %s", op, target.Name))
	return nil
}

func (r *Recorder) place(items []lifecycle.Item[*FakeNode], connected bool) {
	for _, it := range items {
		if n, ok := it.Node(); ok {
			r.SetConnected(n, connected)
		}
	}
}
