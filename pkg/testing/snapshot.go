package testing

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// ReactionLog is an ordered list of recorded tree events.
type ReactionLog []string

type reactionFile struct {
	Reactions []string `json:"reactions"`
}

// MatchesFile compares this log against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// NODESYNC_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (l ReactionLog) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("NODESYNC_UPDATE_SNAPSHOTS") == "1" {
		if err := l.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := LoadReactionLog(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: NODESYNC_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := l.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got)\n%s\n\nTo update: NODESYNC_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this log to the given path, creating directories as
// needed.
func (l ReactionLog) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(reactionFile{Reactions: l}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Diff returns a diff between want and this log, or "" if they are equal.
// A nil log and an empty log are equal.
func (l ReactionLog) Diff(want ReactionLog) string {
	return cmp.Diff([]string(want), []string(l), cmpopts.EquateEmpty())
}

// LoadReactionLog reads a golden file written by UpdateFile.
func LoadReactionLog(path string) (ReactionLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f reactionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return ReactionLog(f.Reactions), nil
}
