package scenario

import (
	stderrors "errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-drift/nodesync/pkg/dom"
	"github.com/go-drift/nodesync/pkg/errors"
)

// Result is the outcome of running one scenario.
type Result struct {
	Name string
	Path string
	// Reactions lists "connected <id>", "disconnected <id>" and
	// "error <kind>" entries in the order they happened.
	Reactions []string
	// Diff is non-empty when the scenario has an expect list that the
	// reactions do not match.
	Diff string
}

// Failed reports whether the reactions did not match the expectation.
func (r *Result) Failed() bool {
	return r.Diff != ""
}

type runner struct {
	name  string
	host  *dom.Host
	nodes map[string]*dom.Node
	log   []string
}

// Run executes f against a fresh document. The initial tree is connected
// before the first step; reactions from that are not recorded.
func Run(f *File, opts ...dom.HostOption) (*Result, error) {
	host, err := dom.NewHost(opts...)
	if err != nil {
		return nil, err
	}
	r := &runner{
		name:  f.Name,
		host:  host,
		nodes: map[string]*dom.Node{DocumentID: host.Document()},
	}

	if f.Tree != nil {
		root, err := r.build(f.Tree)
		if err != nil {
			return nil, err
		}
		if err := host.Document().AppendChild(root); err != nil {
			return nil, err
		}
	}
	for i := range f.Detached {
		if _, err := r.build(&f.Detached[i]); err != nil {
			return nil, err
		}
	}
	host.Internals().ConnectTree(host.Document())
	r.log = nil

	for i, step := range f.Steps {
		if err := r.apply(i, step); err != nil {
			return nil, err
		}
	}

	result := &Result{Name: f.Name, Path: f.Path, Reactions: r.log}
	if f.Expect != nil {
		result.Diff = cmp.Diff(f.Expect, r.log, cmpopts.EquateEmpty())
	}
	return result, nil
}

func (r *runner) build(spec *NodeSpec) (*dom.Node, error) {
	var n *dom.Node
	switch {
	case spec.Text != nil:
		n = dom.NewText(*spec.Text)
	case spec.Fragment:
		n = dom.NewFragment()
	default:
		n = dom.NewElement(spec.Tag)
		n.SetCallbacks(dom.Callbacks{
			Connected:    func(el *dom.Node) { r.record("connected", el) },
			Disconnected: func(el *dom.Node) { r.record("disconnected", el) },
		})
	}
	if spec.ID != "" {
		n.SetLabel(spec.ID)
		r.nodes[spec.ID] = n
	}
	for i := range spec.Children {
		child, err := r.build(&spec.Children[i])
		if err != nil {
			return nil, err
		}
		if err := n.AppendChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (r *runner) record(reaction string, el *dom.Node) {
	name := el.Label()
	if name == "" {
		name = el.Tag()
	}
	r.log = append(r.log, reaction+" "+name)
}

func (r *runner) apply(index int, step Step) error {
	target := r.nodes[step.Target]
	items := make([]dom.Item, 0, len(step.Items))
	for _, it := range step.Items {
		if it.Text != nil {
			items = append(items, dom.Leaf(*it.Text))
		} else {
			items = append(items, dom.Arg(r.nodes[it.Ref]))
		}
	}

	var err error
	switch step.Op {
	case "before":
		err = r.host.Before(target, items...)
	case "after":
		err = r.host.After(target, items...)
	case "replaceWith":
		err = r.host.ReplaceWith(target, items...)
	case "remove":
		err = r.host.Remove(target)
	case "append":
		err = r.host.Append(target, items...)
	case "prepend":
		err = r.host.Prepend(target, items...)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	if err == nil {
		if step.ExpectError != "" {
			return fmt.Errorf("steps[%d] %s %s: expected %s error", index, step.Op, step.Target, step.ExpectError)
		}
		return nil
	}
	var treeErr *errors.TreeError
	if !stderrors.As(err, &treeErr) {
		return fmt.Errorf("steps[%d] %s %s: %w", index, step.Op, step.Target, err)
	}
	if step.ExpectError != "" && treeErr.Kind.String() == step.ExpectError {
		r.log = append(r.log, "error "+step.ExpectError)
		return nil
	}
	errors.Report(treeErr, r.name, fmt.Sprintf("steps[%d]", index))
	return fmt.Errorf("%s %s: %w", step.Op, step.Target, err)
}
