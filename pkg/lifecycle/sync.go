package lifecycle

import "errors"

// ErrUnsupported is returned by an operation whose primitive was not
// supplied. The tree is not touched and no reactions are issued.
var ErrUnsupported = errors.New("lifecycle: operation not supported by host")

// Host answers structural questions about nodes.
type Host[N any] interface {
	// IsConnected reports whether n is part of a tree rooted at a live root.
	// It must not have side effects.
	IsConnected(n N) bool
	// IsElement reports whether n can receive lifecycle reactions.
	IsElement(n N) bool
}

// Dispatcher delivers lifecycle reactions for whole subtrees.
//
// Implementations walk the subtree in document order and deduplicate
// reactions themselves. They may run user callbacks synchronously, and those
// callbacks may call back into a Synchronizer.
type Dispatcher[N any] interface {
	ConnectTree(n N)
	DisconnectTree(n N)
}

// EditFunc is a lifecycle-unaware edit that places items relative to target.
type EditFunc[N any] func(target N, items []Item[N]) error

// Primitives holds the raw tree edits a Synchronizer wraps. A nil field
// makes the matching operation return ErrUnsupported.
type Primitives[N any] struct {
	Before      EditFunc[N]
	After       EditFunc[N]
	ReplaceWith EditFunc[N]
	Remove      func(target N) error
	Append      EditFunc[N]
	Prepend     EditFunc[N]
}

// Synchronizer runs tree edits and issues the connect/disconnect calls the
// edits imply. It is immutable after New and safe to reenter from
// dispatcher callbacks.
type Synchronizer[N any] struct {
	host       Host[N]
	dispatcher Dispatcher[N]
	edits      Primitives[N]
}

// New creates a Synchronizer over the given collaborators.
func New[N any](host Host[N], dispatcher Dispatcher[N], edits Primitives[N]) *Synchronizer[N] {
	return &Synchronizer[N]{
		host:       host,
		dispatcher: dispatcher,
		edits:      edits,
	}
}

// Snapshot returns the node arguments that host reports connected, in
// argument order. Leaves and empty items are skipped. Containers such as
// fragments are not expanded; they are never connected themselves.
func Snapshot[N any](host Host[N], items []Item[N]) []N {
	var connected []N
	for _, it := range items {
		if n, ok := it.Node(); ok && host.IsConnected(n) {
			connected = append(connected, n)
		}
	}
	return connected
}

// Before inserts items as previous siblings of target.
func (s *Synchronizer[N]) Before(target N, items ...Item[N]) error {
	return s.insert(s.edits.Before, target, items)
}

// After inserts items as next siblings of target.
func (s *Synchronizer[N]) After(target N, items ...Item[N]) error {
	return s.insert(s.edits.After, target, items)
}

// Append inserts items as the last children of parent.
func (s *Synchronizer[N]) Append(parent N, items ...Item[N]) error {
	return s.insert(s.edits.Append, parent, items)
}

// Prepend inserts items as the first children of parent.
func (s *Synchronizer[N]) Prepend(parent N, items ...Item[N]) error {
	return s.insert(s.edits.Prepend, parent, items)
}

// insert is shared by every operation that leaves target in place. The
// connect pass depends on where target is after the edit.
func (s *Synchronizer[N]) insert(edit EditFunc[N], target N, items []Item[N]) error {
	if edit == nil {
		return ErrUnsupported
	}
	connectedBefore := Snapshot(s.host, items)

	if err := edit(target, items); err != nil {
		return err
	}

	s.disconnectAll(connectedBefore)
	if s.host.IsConnected(target) {
		s.connectElements(items)
	}
	return nil
}

// ReplaceWith replaces target with items. Target may itself be one of the
// items.
func (s *Synchronizer[N]) ReplaceWith(target N, items ...Item[N]) error {
	if s.edits.ReplaceWith == nil {
		return ErrUnsupported
	}
	connectedBefore := Snapshot(s.host, items)
	wasConnected := s.host.IsConnected(target)

	if err := s.edits.ReplaceWith(target, items); err != nil {
		return err
	}

	s.disconnectAll(connectedBefore)
	if wasConnected {
		// target no longer holds a position; the items took its place in
		// the tree target used to be connected to.
		s.dispatcher.DisconnectTree(target)
		s.connectElements(items)
	}
	return nil
}

// Remove detaches target from its parent.
func (s *Synchronizer[N]) Remove(target N) error {
	if s.edits.Remove == nil {
		return ErrUnsupported
	}
	wasConnected := s.host.IsConnected(target)

	if err := s.edits.Remove(target); err != nil {
		return err
	}

	if wasConnected {
		s.dispatcher.DisconnectTree(target)
	}
	return nil
}

func (s *Synchronizer[N]) disconnectAll(nodes []N) {
	for _, n := range nodes {
		s.dispatcher.DisconnectTree(n)
	}
}

func (s *Synchronizer[N]) connectElements(items []Item[N]) {
	for _, it := range items {
		if n, ok := it.Node(); ok && s.host.IsElement(n) {
			s.dispatcher.ConnectTree(n)
		}
	}
}
