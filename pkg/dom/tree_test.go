package dom

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/nodesync/pkg/errors"
)

// labels renders the children of n as a comma-separated list.
func labels(n *Node) string {
	var parts []string
	for _, c := range n.children {
		switch {
		case c.kind == TextNode:
			parts = append(parts, "'"+c.data+"'")
		case c.label != "":
			parts = append(parts, c.label)
		default:
			parts = append(parts, c.tag)
		}
	}
	return strings.Join(parts, ",")
}

func el(label string) *Node {
	return NewElement("x-" + label).SetLabel(label)
}

// row builds <div> with the given labelled element children under a
// document.
func row(t *testing.T, names ...string) (*Node, *Node, map[string]*Node) {
	t.Helper()
	doc := NewDocument()
	div := el("div")
	require.NoError(t, doc.AppendChild(div))
	nodes := map[string]*Node{}
	for _, name := range names {
		n := el(name)
		nodes[name] = n
		require.NoError(t, div.AppendChild(n))
	}
	return doc, div, nodes
}

func TestBefore_Placement(t *testing.T) {
	_, div, n := row(t, "a", "b", "c")
	x := el("x")

	require.NoError(t, insertBefore(n["b"], Args(x, n["c"])))
	assert.Equal(t, "a,x,c,b", labels(div))
}

func TestBefore_ViablePreviousSiblingSkipsMovedNodes(t *testing.T) {
	_, div, n := row(t, "a", "b", "c")

	// a precedes c but is itself being moved.
	require.NoError(t, insertBefore(n["c"], []Item{Arg(n["a"]), Leaf("t"), Arg(n["b"])}))
	assert.Equal(t, "a,'t',b,c", labels(div))
}

func TestAfter_Placement(t *testing.T) {
	_, div, n := row(t, "a", "b", "c")

	require.NoError(t, insertAfter(n["a"], Args(n["c"], n["b"])))
	assert.Equal(t, "a,c,b", labels(div))

	require.NoError(t, insertAfter(n["b"], []Item{Leaf("end")}))
	assert.Equal(t, "a,c,b,'end'", labels(div))
}

func TestReplaceWith_Placement(t *testing.T) {
	_, div, n := row(t, "a", "b", "c")
	x := el("x")

	require.NoError(t, replaceWith(n["b"], []Item{Arg(x), Leaf("t")}))
	assert.Equal(t, "a,x,'t',c", labels(div))
	assert.Nil(t, n["b"].Parent())
}

func TestReplaceWith_SelfAmongReplacements(t *testing.T) {
	_, div, n := row(t, "a", "b", "c")
	x := el("x")

	require.NoError(t, replaceWith(n["b"], Args(x, n["b"])))
	assert.Equal(t, "a,x,b,c", labels(div))
	assert.Same(t, div, n["b"].Parent())

	require.NoError(t, replaceWith(n["b"], Args(n["b"])))
	assert.Equal(t, "a,x,b,c", labels(div))
}

func TestReplaceWith_NextSiblingAmongReplacements(t *testing.T) {
	_, div, n := row(t, "a", "b", "c")

	require.NoError(t, replaceWith(n["a"], Args(n["c"], n["b"])))
	assert.Equal(t, "c,b", labels(div))
}

func TestRemove(t *testing.T) {
	_, div, n := row(t, "a", "b")

	require.NoError(t, remove(n["a"]))
	assert.Equal(t, "b", labels(div))
	assert.Nil(t, n["a"].Parent())

	// removing a parentless node is a no-op
	require.NoError(t, remove(n["a"]))
}

func TestParentlessTargetIsNoOp(t *testing.T) {
	orphan := el("orphan")
	x := el("x")

	require.NoError(t, insertBefore(orphan, Args(x)))
	require.NoError(t, insertAfter(orphan, Args(x)))
	require.NoError(t, replaceWith(orphan, Args(x)))
	assert.Nil(t, x.Parent())
}

func TestAppendPrepend(t *testing.T) {
	_, div, n := row(t, "a")
	x, y := el("x"), el("y")

	require.NoError(t, appendItems(div, []Item{Arg(x), Leaf("t")}))
	require.NoError(t, prependItems(div, Args(y)))
	assert.Equal(t, "y,a,x,'t'", labels(div))

	require.NoError(t, prependItems(div, Args(n["a"])))
	assert.Equal(t, "a,y,x,'t'", labels(div))
}

func TestFragmentArgumentIsExpanded(t *testing.T) {
	_, div, n := row(t, "a")
	frag := NewFragment()
	f1, f2 := el("f1"), el("f2")
	require.NoError(t, frag.AppendChild(f1))
	require.NoError(t, frag.AppendChild(f2))

	require.NoError(t, insertAfter(n["a"], Args(frag)))
	assert.Equal(t, "a,f1,f2", labels(div))
	assert.Empty(t, frag.Children())
	assert.Nil(t, frag.Parent())
}

func TestDuplicateArgumentKeepsLastPosition(t *testing.T) {
	_, div, n := row(t, "a")
	x, y := el("x"), el("y")

	require.NoError(t, insertAfter(n["a"], Args(x, y, x)))
	assert.Equal(t, "a,y,x", labels(div))
}

func TestStructuralErrorsLeaveTreeUnchanged(t *testing.T) {
	tests := []struct {
		name string
		edit func(doc, div *Node, n map[string]*Node) error
		kind errors.ErrorKind
	}{
		{
			name: "insert parent before its child",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return insertBefore(n["a"], Args(el("x"), div))
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "append into self",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return appendItems(n["a"], Args(n["a"]))
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "insert document",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return insertAfter(n["a"], Args(NewDocument()))
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "second document element",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return insertAfter(div, Args(n["b"]))
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "text under document",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return replaceWith(div, []Item{Leaf("t")})
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "append to text",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return appendItems(NewText("t"), Args(n["a"]))
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "append fragment into itself",
			edit: func(doc, div *Node, n map[string]*Node) error {
				frag := NewFragment()
				return appendItems(frag, Args(frag))
			},
			kind: errors.KindHierarchyRequest,
		},
		{
			name: "empty item",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return prependItems(div, []Item{Arg(n["b"]), {}})
			},
			kind: errors.KindInvalidArgument,
		},
		{
			name: "nil node",
			edit: func(doc, div *Node, n map[string]*Node) error {
				return insertBefore(n["b"], Args(nil))
			},
			kind: errors.KindInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, div, n := row(t, "a", "b")

			err := tt.edit(doc, div, n)
			require.Error(t, err)
			var treeErr *errors.TreeError
			require.True(t, stderrors.As(err, &treeErr), "want *errors.TreeError, got %T", err)
			assert.Equal(t, tt.kind, treeErr.Kind)
			assert.NotEmpty(t, treeErr.NodeID)

			assert.Equal(t, "a,b", labels(div))
			assert.Equal(t, []*Node{div}, doc.Children())
		})
	}
}

func TestReplaceDocumentElement(t *testing.T) {
	doc := NewDocument()
	html := el("html")
	require.NoError(t, doc.AppendChild(html))

	next := el("next")
	require.NoError(t, replaceWith(html, Args(next)))
	assert.Equal(t, []*Node{next}, doc.Children())
}
