package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../internal/scenario/testdata"

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute_Help(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, execute(nil))
	assert.Contains(t, out.String(), "Commands:")
	for _, name := range []string{"run", "check", "version"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestExecute_CommandHelp(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, execute([]string{"run", "--help"}))
	assert.Contains(t, out.String(), "nodesync run [--metrics]")
}

func TestExecute_Version(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, execute([]string{"--version"}))
	assert.Contains(t, out.String(), "nodesync version "+Version)
}

func TestExecute_UnknownCommand(t *testing.T) {
	captureOutput(t)

	err := execute([]string{"bogus"})
	assert.EqualError(t, err, "unknown command: bogus")
}

func TestParseRunArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		files   []string
		opts    runOptions
		wantErr bool
	}{
		{name: "files only", args: []string{"a.yaml", "b.yaml"}, files: []string{"a.yaml", "b.yaml"}},
		{name: "flags", args: []string{"--metrics", "a.yaml", "--verbose"}, files: []string{"a.yaml"}, opts: runOptions{metrics: true, verbose: true}},
		{name: "parallel separate", args: []string{"--parallel", "2", "a.yaml"}, files: []string{"a.yaml"}, opts: runOptions{parallel: 2}},
		{name: "parallel inline", args: []string{"--parallel=4", "a.yaml"}, files: []string{"a.yaml"}, opts: runOptions{parallel: 4}},
		{name: "parallel missing", args: []string{"--parallel"}, wantErr: true},
		{name: "parallel zero", args: []string{"--parallel=0"}, wantErr: true},
		{name: "parallel not a number", args: []string{"--parallel", "many"}, wantErr: true},
		{name: "unknown flag", args: []string{"--fast"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, opts, err := parseRunArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.files, files)
			assert.Equal(t, tt.opts, opts)
		})
	}
}

func TestRun_Testdata(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(testdata, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	out := captureOutput(t)

	args := append([]string{"run", "--parallel", "2"}, paths...)
	require.NoError(t, execute(args))
	assert.NotContains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "ok   insert a new element and a leaf before a connected target")
}

func TestRun_Metrics(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, execute([]string{"run", "--metrics", filepath.Join(testdata, "insert_before.yaml")}))
	assert.Contains(t, out.String(), `nodesync_tree_calls_total{kind="connect"} 1`)
	assert.Contains(t, out.String(), `nodesync_tree_calls_total{kind="disconnect"} 0`)
}

func TestRun_Mismatch(t *testing.T) {
	path := writeScenario(t, `
version: v1
tree: {tag: html, id: root, children: [{tag: x-t, id: t}]}
steps:
  - {op: remove, target: t}
expect: [connected t]
`)
	out := captureOutput(t)

	err := execute([]string{"run", path})
	assert.EqualError(t, err, "1 of 1 scenarios failed")
	assert.Contains(t, out.String(), "FAIL scenario")
	assert.Contains(t, out.String(), "disconnected t")
}

func TestRun_StepError(t *testing.T) {
	path := writeScenario(t, `
version: v1
tree: {tag: html, id: root}
steps:
  - {op: append, target: root, items: [{ref: root}]}
`)
	captureOutput(t)

	err := execute([]string{"run", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append root: scenario: steps[0]: dom.Append")
}

func TestRun_RequiresFiles(t *testing.T) {
	captureOutput(t)
	assert.Error(t, execute([]string{"run", "--metrics"}))
}

func TestCheck(t *testing.T) {
	bad := writeScenario(t, "version: v9\n")
	out := captureOutput(t)

	err := execute([]string{"check", filepath.Join(testdata, "remove.yaml"), bad})
	assert.EqualError(t, err, "1 of 2 scenario files are invalid")
	assert.Contains(t, out.String(), "ok   "+filepath.Join(testdata, "remove.yaml"))
	assert.Contains(t, out.String(), "unsupported scenario version")
}
