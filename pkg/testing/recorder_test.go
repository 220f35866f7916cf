package testing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/nodesync/pkg/lifecycle"
)

func TestRecorder_Connectivity(t *testing.T) {
	rec := NewRecorder()
	a := rec.Connected("A", true)
	b := rec.Element("B")
	txt := rec.Node("#text")

	assert.True(t, rec.IsConnected(a))
	assert.False(t, rec.IsConnected(b))
	assert.True(t, rec.IsElement(a))
	assert.False(t, rec.IsElement(txt))

	rec.SetConnected(a, false)
	assert.False(t, rec.IsConnected(a))
}

func TestRecorder_PrimitivesModelConnectivity(t *testing.T) {
	rec := NewRecorder()
	p := rec.Primitives()
	target := rec.Connected("T", true)
	a := rec.Element("A")

	require.NoError(t, p.Before(target, lifecycle.Nodes(a)))
	assert.True(t, rec.IsConnected(a))

	require.NoError(t, p.ReplaceWith(target, lifecycle.Nodes(a)))
	assert.False(t, rec.IsConnected(target))
	assert.True(t, rec.IsConnected(a))

	require.NoError(t, p.Remove(a))
	assert.False(t, rec.IsConnected(a))

	assert.Equal(t, []string{"edit before T", "edit replaceWith T", "edit remove A"}, rec.Log())
	assert.Empty(t, rec.Calls())
}

func TestRecorder_FailWith(t *testing.T) {
	rec := NewRecorder()
	rec.FailWith = fmt.Errorf("nope")
	target := rec.Connected("T", true)

	err := rec.Primitives().Remove(target)
	assert.EqualError(t, err, "nope")
	assert.True(t, rec.IsConnected(target))
	assert.Empty(t, rec.Log())
}

func TestRecorder_RejectsZeroItem(t *testing.T) {
	rec := NewRecorder()
	target := rec.Connected("T", true)

	err := rec.Primitives().After(target, []lifecycle.Item[*FakeNode]{{}})
	assert.Error(t, err)
}

func TestRecorder_CountAndReset(t *testing.T) {
	rec := NewRecorder()
	a := rec.Element("A")
	rec.ConnectTree(a)
	rec.ConnectTree(a)
	rec.DisconnectTree(a)

	assert.Equal(t, 2, rec.Count("connect A"))
	assert.Equal(t, 1, rec.Count("disconnect A"))

	rec.Reset()
	assert.Empty(t, rec.Log())
}
