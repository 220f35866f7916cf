package dom

import "github.com/go-drift/nodesync/pkg/errors"

// Oracle answers connectivity and capability questions for the lifecycle
// package. It holds no state.
type Oracle struct{}

// IsConnected reports whether n's root is a document.
func (Oracle) IsConnected(n *Node) bool { return n.IsConnected() }

// IsElement reports whether n is an element.
func (Oracle) IsElement(n *Node) bool { return n.IsElement() }

// Internals delivers connected and disconnected callbacks for subtrees.
//
// Each element remembers the last reaction it was given, so an element only
// hears about net transitions: connect is delivered to connected elements
// that have not already been told they are connected, and disconnect to
// elements that were told they are connected and no longer are. An element
// moved from one connected position to another hears nothing. A panicking
// callback is reported through errors.ReportReaction and the walk continues
// with the next element.
type Internals struct{}

// NewInternals creates a dispatcher.
func NewInternals() *Internals {
	return &Internals{}
}

// ConnectTree delivers connected callbacks to root and its descendant
// elements in document order.
func (in *Internals) ConnectTree(root *Node) {
	for _, el := range elementsOf(root) {
		if el.reaction == reactionConnected || !el.IsConnected() {
			continue
		}
		el.reaction = reactionConnected
		in.invoke("connected", el, el.callbacks.Connected)
	}
}

// DisconnectTree delivers disconnected callbacks to root and its descendant
// elements in document order. Elements still under a document are skipped.
func (in *Internals) DisconnectTree(root *Node) {
	for _, el := range elementsOf(root) {
		if el.reaction != reactionConnected || el.IsConnected() {
			continue
		}
		el.reaction = reactionDisconnected
		in.invoke("disconnected", el, el.callbacks.Disconnected)
	}
}

// IsReactedConnected reports whether el's last delivered reaction was
// connected.
func (in *Internals) IsReactedConnected(el *Node) bool {
	return el.reaction == reactionConnected
}

func (in *Internals) invoke(reaction string, el *Node, callback func(*Node)) {
	if callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			errors.ReportReaction(errors.NewReactionError(reaction, el.String(), el.ID(), r))
		}
	}()
	callback(el)
}

// elementsOf snapshots the elements of the subtree so callbacks that edit
// the tree cannot disturb the walk.
func elementsOf(root *Node) []*Node {
	var elements []*Node
	root.Walk(func(n *Node) bool {
		if n.kind == ElementNode {
			elements = append(elements, n)
		}
		return true
	})
	return elements
}
