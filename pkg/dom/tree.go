package dom

import (
	"fmt"
	"slices"

	"github.com/go-drift/nodesync/pkg/errors"
	"github.com/go-drift/nodesync/pkg/lifecycle"
)

// Item is an argument to a tree operation: a node or a leaf string that
// becomes a new text node.
type Item = lifecycle.Item[*Node]

// Arg wraps a node as an operation argument.
func Arg(n *Node) Item { return lifecycle.NodeItem(n) }

// Args wraps nodes as operation arguments.
func Args(ns ...*Node) []Item { return lifecycle.Nodes(ns...) }

// Leaf wraps a string as an operation argument.
func Leaf(s string) Item { return lifecycle.LeafItem[*Node](s) }

// Primitives returns the raw, lifecycle-unaware tree edits.
//
// Every edit validates its arguments before touching the tree, so a failed
// edit leaves the tree exactly as it was. Before, After and ReplaceWith do
// nothing when the target has no parent; Remove does nothing for a
// parentless node.
func Primitives() lifecycle.Primitives[*Node] {
	return lifecycle.Primitives[*Node]{
		Before:      insertBefore,
		After:       insertAfter,
		ReplaceWith: replaceWith,
		Remove:      remove,
		Append:      appendItems,
		Prepend:     prependItems,
	}
}

func insertBefore(target *Node, items []Item) error {
	parent := target.parent
	if parent == nil {
		return nil
	}
	nodes, err := materialize("dom.Before", target, items)
	if err != nil {
		return err
	}
	moving := nodeSet(nodes)
	viablePrev := target.PreviousSibling()
	for viablePrev != nil && moving[viablePrev] {
		viablePrev = viablePrev.PreviousSibling()
	}
	if err := validate("dom.Before", target, parent, nil, nodes); err != nil {
		return err
	}

	detachAll(nodes)
	index := 0
	if viablePrev != nil {
		index = parent.indexOf(viablePrev) + 1
	}
	insertAt(parent, index, nodes)
	return nil
}

func insertAfter(target *Node, items []Item) error {
	parent := target.parent
	if parent == nil {
		return nil
	}
	nodes, err := materialize("dom.After", target, items)
	if err != nil {
		return err
	}
	viableNext := nextOutside(target, nodeSet(nodes))
	if err := validate("dom.After", target, parent, nil, nodes); err != nil {
		return err
	}

	detachAll(nodes)
	insertAt(parent, indexOrEnd(parent, viableNext), nodes)
	return nil
}

func replaceWith(target *Node, items []Item) error {
	parent := target.parent
	if parent == nil {
		return nil
	}
	nodes, err := materialize("dom.ReplaceWith", target, items)
	if err != nil {
		return err
	}
	viableNext := nextOutside(target, nodeSet(nodes))
	if err := validate("dom.ReplaceWith", target, parent, target, nodes); err != nil {
		return err
	}

	detachAll(nodes)
	// target is already detached when it is one of its own replacements
	target.detach()
	insertAt(parent, indexOrEnd(parent, viableNext), nodes)
	return nil
}

func remove(target *Node) error {
	target.detach()
	return nil
}

func appendItems(parent *Node, items []Item) error {
	nodes, err := materialize("dom.Append", parent, items)
	if err != nil {
		return err
	}
	if err := validate("dom.Append", parent, parent, nil, nodes); err != nil {
		return err
	}
	detachAll(nodes)
	insertAt(parent, len(parent.children), nodes)
	return nil
}

func prependItems(parent *Node, items []Item) error {
	nodes, err := materialize("dom.Prepend", parent, items)
	if err != nil {
		return err
	}
	if err := validate("dom.Prepend", parent, parent, nil, nodes); err != nil {
		return err
	}
	detachAll(nodes)
	insertAt(parent, 0, nodes)
	return nil
}

// materialize turns items into the ordered list of nodes that will be
// inserted: leaves become new text nodes and fragments contribute their
// children. A node listed more than once keeps its last position.
func materialize(op string, target *Node, items []Item) ([]*Node, error) {
	nodes := make([]*Node, 0, len(items))
	for i, it := range items {
		if n, ok := it.Node(); ok {
			switch {
			case n == nil:
				return nil, treeError(op, errors.KindInvalidArgument, target, "nil node at index %d", i)
			case n.kind == DocumentNode:
				return nil, treeError(op, errors.KindHierarchyRequest, target, "cannot insert a document")
			case n.kind == FragmentNode:
				if n.IsInclusiveAncestorOf(target) {
					return nil, treeError(op, errors.KindHierarchyRequest, target, "%s contains %s", n, target)
				}
				nodes = append(nodes, n.children...)
			default:
				nodes = append(nodes, n)
			}
			continue
		}
		if s, ok := it.Leaf(); ok {
			nodes = append(nodes, NewText(s))
			continue
		}
		return nil, treeError(op, errors.KindInvalidArgument, target, "empty item at index %d", i)
	}
	return keepLast(nodes), nil
}

// validate checks that inserting nodes into parent (replacing replaced, if
// non-nil) yields a legal tree.
func validate(op string, target, parent, replaced *Node, nodes []*Node) error {
	if !parent.canHaveChildren() {
		return treeError(op, errors.KindHierarchyRequest, target, "%s cannot have children", parent)
	}
	for _, n := range nodes {
		if n.IsInclusiveAncestorOf(parent) {
			return treeError(op, errors.KindHierarchyRequest, target, "%s is an inclusive ancestor of %s", n, parent)
		}
	}
	if parent.kind != DocumentNode {
		return nil
	}

	moving := nodeSet(nodes)
	elements := 0
	for _, child := range parent.children {
		if child == replaced || moving[child] {
			continue
		}
		if child.kind == ElementNode {
			elements++
		}
	}
	for _, n := range nodes {
		switch n.kind {
		case TextNode:
			return treeError(op, errors.KindHierarchyRequest, target, "text cannot be a child of a document")
		case ElementNode:
			elements++
		}
	}
	if elements > 1 {
		return treeError(op, errors.KindHierarchyRequest, target, "a document can have only one element child")
	}
	return nil
}

func treeError(op string, kind errors.ErrorKind, target *Node, format string, args ...any) error {
	return &errors.TreeError{
		Op:     op,
		Kind:   kind,
		Node:   target.String(),
		NodeID: target.ID(),
		Err:    fmt.Errorf(format, args...),
	}
}

func keepLast(nodes []*Node) []*Node {
	seen := make(map[*Node]bool, len(nodes))
	out := make([]*Node, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		if seen[nodes[i]] {
			continue
		}
		seen[nodes[i]] = true
		out = append(out, nodes[i])
	}
	slices.Reverse(out)
	return out
}

func nodeSet(nodes []*Node) map[*Node]bool {
	set := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	return set
}

func nextOutside(target *Node, moving map[*Node]bool) *Node {
	next := target.NextSibling()
	for next != nil && moving[next] {
		next = next.NextSibling()
	}
	return next
}

func indexOrEnd(parent, child *Node) int {
	if child == nil {
		return len(parent.children)
	}
	return parent.indexOf(child)
}

func detachAll(nodes []*Node) {
	for _, n := range nodes {
		n.detach()
	}
}

func insertAt(parent *Node, index int, nodes []*Node) {
	for _, n := range nodes {
		n.parent = parent
	}
	parent.children = slices.Insert(parent.children, index, nodes...)
}
