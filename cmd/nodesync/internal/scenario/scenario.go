// Package scenario loads and runs YAML files that describe a document, a
// list of tree operations and the reactions they should produce.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the only scenario format major version understood.
const SupportedMajor = "v1"

// DocumentID is the reserved step target naming the document itself.
const DocumentID = "document"

// File is a parsed scenario.
type File struct {
	Version  string     `yaml:"version"`
	Name     string     `yaml:"name,omitempty"`
	Tree     *NodeSpec  `yaml:"tree,omitempty"`
	Detached []NodeSpec `yaml:"detached,omitempty"`
	Steps    []Step     `yaml:"steps"`
	Expect   []string   `yaml:"expect,omitempty"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// NodeSpec describes one node. Exactly one of Tag, Text or Fragment is set.
type NodeSpec struct {
	Tag      string     `yaml:"tag,omitempty"`
	Text     *string    `yaml:"text,omitempty"`
	Fragment bool       `yaml:"fragment,omitempty"`
	ID       string     `yaml:"id,omitempty"`
	Children []NodeSpec `yaml:"children,omitempty"`
}

// Step is one tree operation.
type Step struct {
	Op     string     `yaml:"op"`
	Target string     `yaml:"target"`
	Items  []ItemSpec `yaml:"items,omitempty"`
	// ExpectError names the error kind (e.g. "hierarchy-request") the step
	// must fail with.
	ExpectError string `yaml:"expectError,omitempty"`
}

// ItemSpec is one operation argument: a reference to a node by id or a
// text leaf.
type ItemSpec struct {
	Ref  string  `yaml:"ref,omitempty"`
	Text *string `yaml:"text,omitempty"`
}

var ops = map[string]bool{
	"before":      true,
	"after":       true,
	"replaceWith": true,
	"remove":      true,
	"append":      true,
	"prepend":     true,
}

// Load reads and validates a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Parse decodes and validates scenario YAML. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the version, node specs, ids and step references.
func (f *File) Validate() error {
	if !semver.IsValid(f.Version) {
		return fmt.Errorf("version %q is not a semantic version (e.g. v1)", f.Version)
	}
	if major := semver.Major(f.Version); major != SupportedMajor {
		return fmt.Errorf("unsupported scenario version %s (want %s.x)", f.Version, SupportedMajor)
	}

	ids := make(map[string]bool)
	var checkNode func(path string, n *NodeSpec) error
	checkNode = func(path string, n *NodeSpec) error {
		kinds := 0
		if n.Tag != "" {
			kinds++
		}
		if n.Text != nil {
			kinds++
		}
		if n.Fragment {
			kinds++
		}
		if kinds != 1 {
			return fmt.Errorf("%s: exactly one of tag, text or fragment must be set", path)
		}
		if n.Text != nil && len(n.Children) > 0 {
			return fmt.Errorf("%s: text nodes cannot have children", path)
		}
		if n.ID == DocumentID {
			return fmt.Errorf("%s: id %q is reserved", path, DocumentID)
		}
		if n.ID != "" {
			if ids[n.ID] {
				return fmt.Errorf("%s: duplicate id %q", path, n.ID)
			}
			ids[n.ID] = true
		}
		for i := range n.Children {
			if err := checkNode(fmt.Sprintf("%s.children[%d]", path, i), &n.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if f.Tree != nil {
		if f.Tree.Tag == "" {
			return fmt.Errorf("tree: the document element must have a tag")
		}
		if err := checkNode("tree", f.Tree); err != nil {
			return err
		}
	}
	for i := range f.Detached {
		if err := checkNode(fmt.Sprintf("detached[%d]", i), &f.Detached[i]); err != nil {
			return err
		}
	}

	for i, step := range f.Steps {
		where := fmt.Sprintf("steps[%d]", i)
		if !ops[step.Op] {
			return fmt.Errorf("%s: unknown op %q", where, step.Op)
		}
		if step.Target != DocumentID && !ids[step.Target] {
			return fmt.Errorf("%s: unknown target %q", where, step.Target)
		}
		if step.Op == "remove" && len(step.Items) > 0 {
			return fmt.Errorf("%s: remove takes no items", where)
		}
		for j, it := range step.Items {
			switch {
			case it.Ref != "" && it.Text != nil:
				return fmt.Errorf("%s.items[%d]: only one of ref or text may be set", where, j)
			case it.Ref != "":
				if !ids[it.Ref] {
					return fmt.Errorf("%s.items[%d]: unknown ref %q", where, j, it.Ref)
				}
			case it.Text == nil:
				return fmt.Errorf("%s.items[%d]: one of ref or text must be set", where, j)
			}
		}
	}
	return nil
}
