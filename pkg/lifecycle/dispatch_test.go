package lifecycle_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-drift/nodesync/pkg/lifecycle"
	nodesynctest "github.com/go-drift/nodesync/pkg/testing"
)

func TestLoggingDispatcher(t *testing.T) {
	rec := nodesynctest.NewRecorder()
	core, logs := observer.New(zap.DebugLevel)
	d := lifecycle.NewLoggingDispatcher[*fake](rec, zap.New(core))

	target := rec.Connected("T", true)
	a := rec.Element("A")
	s := lifecycle.New[*fake](rec, d, rec.Primitives())
	require.NoError(t, s.ReplaceWith(target, node(a)))

	assert.Equal(t, []string{"disconnect T", "connect A"}, rec.Calls())

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "disconnect tree", entries[0].Message)
	assert.Equal(t, "T", entries[0].ContextMap()["node"])
	assert.Equal(t, "connect tree", entries[1].Message)
	assert.Equal(t, "A", entries[1].ContextMap()["node"])
}

func TestLoggingDispatcher_NilLogger(t *testing.T) {
	rec := nodesynctest.NewRecorder()
	d := lifecycle.NewLoggingDispatcher[*fake](rec, nil)
	d.ConnectTree(rec.Element("A"))
	assert.Equal(t, []string{"connect A"}, rec.Calls())
}

func TestInstrumentedDispatcher(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := nodesynctest.NewRecorder()
	d, err := lifecycle.NewInstrumentedDispatcher[*fake](rec, reg)
	require.NoError(t, err)

	target := rec.Connected("T", true)
	a := rec.Connected("A", true)
	b := rec.Element("B")
	s := lifecycle.New[*fake](rec, d, rec.Primitives())
	require.NoError(t, s.After(target, node(a), node(b)))
	require.NoError(t, s.Remove(target))

	assert.Equal(t, 2.0, testutil.ToFloat64(d.ConnectCounter()))
	assert.Equal(t, 2.0, testutil.ToFloat64(d.DisconnectCounter()))

	// A second dispatcher on the same registry shares the counters.
	d2, err := lifecycle.NewInstrumentedDispatcher[*fake](rec, reg)
	require.NoError(t, err)
	d2.ConnectTree(b)
	assert.Equal(t, 3.0, testutil.ToFloat64(d.ConnectCounter()))
}

func TestInstrumentedDispatcher_NilRegistry(t *testing.T) {
	rec := nodesynctest.NewRecorder()
	d, err := lifecycle.NewInstrumentedDispatcher[*fake](rec, nil)
	require.NoError(t, err)
	d.DisconnectTree(rec.Element("A"))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.DisconnectCounter()))
}
