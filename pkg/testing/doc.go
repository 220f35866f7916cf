// Package testing provides test doubles and golden files for code built on
// the lifecycle package.
//
// # Recorder
//
// Recorder is a fake Host and Dispatcher over FakeNode values. It tracks
// which fake nodes are connected without modelling tree structure, and logs
// every edit and subtree call in order:
//
//	rec := nodesynctest.NewRecorder()
//	t1 := rec.Connected("T", true)
//	a := rec.Element("A")
//	sync := lifecycle.New[*nodesynctest.FakeNode](rec, rec, rec.Primitives())
//	_ = sync.Before(t1, lifecycle.NodeItem(a))
//	// rec.Log() == []string{"edit before T", "connect A"}
//
// # Golden Reaction Logs
//
// ReactionLog compares a list of log lines against a golden file:
//
//	nodesynctest.ReactionLog(rec.Log()).MatchesFile(t, "testdata/before.golden.json")
//
// Update golden files with:
//
//	NODESYNC_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import nodesynctest "github.com/go-drift/nodesync/pkg/testing"
package testing
