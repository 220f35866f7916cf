package dom

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// NodeType identifies what a Node is.
type NodeType int

const (
	// DocumentNode is a live root. Everything under a document is connected.
	DocumentNode NodeType = iota + 1
	// ElementNode can hold children and receive lifecycle reactions.
	ElementNode
	// TextNode is a leaf holding character data.
	TextNode
	// FragmentNode is a parentless container whose children move out of it
	// when it is inserted.
	FragmentNode
)

// Callbacks are the lifecycle reactions of an element.
type Callbacks struct {
	Connected    func(el *Node)
	Disconnected func(el *Node)
}

type reactionState uint8

const (
	reactionNone reactionState = iota
	reactionConnected
	reactionDisconnected
)

// Node is a document, element, text or fragment node. Nodes are compared by
// pointer.
type Node struct {
	kind     NodeType
	id       string
	tag      string
	data     string
	label    string
	parent   *Node
	children []*Node

	callbacks Callbacks
	// last reaction delivered by Internals
	reaction reactionState
}

func newNode(kind NodeType) *Node {
	return &Node{kind: kind, id: uuid.NewString()}
}

// NewDocument creates an empty live root.
func NewDocument() *Node {
	return newNode(DocumentNode)
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	n := newNode(ElementNode)
	n.tag = tag
	return n
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	n := newNode(TextNode)
	n.data = data
	return n
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return newNode(FragmentNode)
}

// ID returns a unique diagnostic identifier, carried by the errors this
// package reports about the node.
func (n *Node) ID() string { return n.id }

// Tag returns the element tag, or "" for other node types.
func (n *Node) Tag() string { return n.tag }

// Label returns the label set with SetLabel.
func (n *Node) Label() string { return n.label }

// SetLabel attaches a human-readable name used by String.
func (n *Node) SetLabel(label string) *Node {
	n.label = label
	return n
}

// IsElement reports whether n can receive lifecycle reactions.
func (n *Node) IsElement() bool { return n != nil && n.kind == ElementNode }

// SetCallbacks installs the element's lifecycle reactions.
func (n *Node) SetCallbacks(cb Callbacks) *Node {
	n.callbacks = cb
	return n
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// PreviousSibling returns the sibling before n, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// NextSibling returns the sibling after n, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// Root returns the topmost ancestor of n (n itself when parentless).
func (n *Node) Root() *Node {
	current := n
	for current.parent != nil {
		current = current.parent
	}
	return current
}

// IsConnected reports whether n's root is a document.
func (n *Node) IsConnected() bool {
	return n != nil && n.Root().kind == DocumentNode
}

// IsInclusiveAncestorOf reports whether n is other or one of its ancestors.
func (n *Node) IsInclusiveAncestorOf(other *Node) bool {
	for current := other; current != nil; current = current.parent {
		if current == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order. Returning false from
// visitor skips the visited node's children.
func (n *Node) Walk(visitor func(*Node) bool) {
	if !visitor(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(visitor)
	}
}

// AppendChild adds child as the last child of n. It is a raw structural
// edit: no lifecycle reactions are delivered. Use Host.Append for the
// lifecycle-aware form.
func (n *Node) AppendChild(child *Node) error {
	return appendItems(n, []Item{Arg(child)})
}

// String renders n for logs and error messages.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.kind {
	case ElementNode:
		if n.label != "" {
			return fmt.Sprintf("<%s#%s>", n.tag, n.label)
		}
		return fmt.Sprintf("<%s>", n.tag)
	case TextNode:
		return fmt.Sprintf("#text(%q)", n.data)
	case DocumentNode:
		return "#document"
	case FragmentNode:
		if n.label != "" {
			return "#fragment#" + n.label
		}
		return "#fragment"
	default:
		return "#unknown"
	}
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) canHaveChildren() bool {
	return n.kind == DocumentNode || n.kind == ElementNode || n.kind == FragmentNode
}

// detach removes n from its parent, if any.
func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}
