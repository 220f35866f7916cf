package lifecycle

type itemKind uint8

const (
	itemNone itemKind = iota
	itemNode
	itemLeaf
)

// Item is one entry of a mutation argument list: either a node or a leaf
// value. The zero Item is neither; primitives are expected to reject it.
type Item[N any] struct {
	kind itemKind
	node N
	leaf string
}

// NodeItem wraps a node as an argument.
func NodeItem[N any](n N) Item[N] {
	return Item[N]{kind: itemNode, node: n}
}

// LeafItem wraps a leaf value as an argument.
func LeafItem[N any](s string) Item[N] {
	return Item[N]{kind: itemLeaf, leaf: s}
}

// Nodes wraps each node as an argument, preserving order.
func Nodes[N any](ns ...N) []Item[N] {
	items := make([]Item[N], len(ns))
	for i, n := range ns {
		items[i] = NodeItem(n)
	}
	return items
}

// Node returns the wrapped node and true, or the zero node and false for a
// leaf or empty item.
func (it Item[N]) Node() (N, bool) {
	return it.node, it.kind == itemNode
}

// Leaf returns the wrapped leaf value and true, or "" and false for a node
// or empty item.
func (it Item[N]) Leaf() (string, bool) {
	return it.leaf, it.kind == itemLeaf
}

// IsZero reports whether the item wraps nothing.
func (it Item[N]) IsZero() bool {
	return it.kind == itemNone
}
