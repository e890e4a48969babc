package graph

import (
	"github.com/specialistvlad/sagegrid/internal/model"
)

// ambiguousSlot is the slot name SoleOutput hands out for a node that does
// not have exactly one output. It matches the placeholder pattern so that Add
// can report the misuse.
const ambiguousSlot = "__ambiguous__"

// Argument is a bound input in its serialized form.
type Argument struct {
	Name  string
	Value string
	// Defaulted is set when the value came from the component's default
	// rather than from the caller.
	Defaulted bool
}

// Node is one operation in the pipeline.
type Node struct {
	// Name is unique within the graph and safe to use as a Kubernetes name.
	Name      string
	Component *model.Component
	Kind      model.Kind
	// Arguments follow the component's input declaration order. Optional
	// inputs that were left unbound are absent.
	Arguments []Argument
	// Refs lists every placeholder found in Arguments, in order of first
	// appearance.
	Refs []PipelineParam
}

// Output refers to one of the node's output slots.
func (n *Node) Output(slot string) PipelineParam {
	return PipelineParam{Op: n.Name, Name: slot}
}

// SoleOutput refers to the node's only output. Binding it when the node
// does not have exactly one output makes Add fail.
func (n *Node) SoleOutput() PipelineParam {
	if len(n.Component.Outputs) != 1 {
		return PipelineParam{Op: n.Name, Name: ambiguousSlot}
	}
	return n.Output(n.Component.Outputs[0].Name)
}

// Argument returns the bound argument for input name.
func (n *Node) Argument(name string) (Argument, bool) {
	for _, a := range n.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// Upstream returns the names of the nodes this node reads outputs from, in
// order of first reference.
func (n *Node) Upstream() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, ref := range n.Refs {
		if ref.IsParam() {
			continue
		}
		if _, ok := seen[ref.Op]; ok {
			continue
		}
		seen[ref.Op] = struct{}{}
		names = append(names, ref.Op)
	}
	return names
}
