package graph

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/dag"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/specialistvlad/sagegrid/internal/nodeid"
)

// ComponentSource resolves component names. *registry.Registry implements it.
type ComponentSource interface {
	Lookup(name string) (*model.Component, bool)
}

// Args binds component inputs by name. Values may be strings, numbers,
// bools, PipelineParams, or anything encoding/json can marshal. A nil value,
// including a nil pointer, leaves the input unbound.
type Args map[string]any

// Graph is a pipeline under construction.
type Graph struct {
	name   string
	source ComponentSource
	params []string

	nodes  []*Node
	byName map[string]*Node
	dag    *dag.Graph
	names  *nodeid.Allocator
}

// New creates an empty graph whose nodes are resolved against source. params
// declares the pipeline parameters the nodes may reference.
func New(name string, source ComponentSource, params ...string) *Graph {
	return &Graph{
		name:   name,
		source: source,
		params: slices.Clone(params),
		byName: make(map[string]*Node),
		dag:    dag.New(),
		names:  nodeid.NewAllocator(),
	}
}

// Name returns the pipeline name the graph was created with.
func (g *Graph) Name() string { return g.name }

// Params returns the declared pipeline parameters in declaration order.
func (g *Graph) Params() []string { return slices.Clone(g.params) }

// Param refers to a declared pipeline parameter. Undeclared names are
// reported when the placeholder is bound.
func (g *Graph) Param(name string) PipelineParam {
	return PipelineParam{Name: name}
}

// Add appends a node running component with the given arguments. Every
// argument is serialized and checked before the node is added; on error the
// graph is unchanged.
func (g *Graph) Add(ctx context.Context, component string, args Args) (*Node, error) {
	logger := ctxlog.FromContext(ctx)

	comp, ok := g.source.Lookup(component)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, component)
	}

	var unknown []string
	for name := range args {
		if _, ok := comp.Input(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("%w: component '%s' does not declare %s", ErrUnknownInput, comp.Name, strings.Join(unknown, ", "))
	}

	arguments, err := bindArguments(comp, args)
	if err != nil {
		return nil, err
	}

	var refs []PipelineParam
	seen := make(map[PipelineParam]struct{})
	for _, arg := range arguments {
		for _, ref := range Placeholders(arg.Value) {
			if _, ok := seen[ref]; ok {
				continue
			}
			if err := g.checkRef(ref); err != nil {
				return nil, fmt.Errorf("component '%s', input '%s': %w", comp.Name, arg.Name, err)
			}
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
	}

	name, err := g.names.Next(comp.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("naming node for component '%s': %w", comp.Name, err)
	}

	n := &Node{
		Name:      name,
		Component: comp,
		Kind:      comp.Kind,
		Arguments: arguments,
		Refs:      refs,
	}

	g.dag.AddNode(name)
	for _, upstream := range n.Upstream() {
		if err := g.dag.AddEdge(upstream, name); err != nil {
			return nil, err
		}
	}
	g.nodes = append(g.nodes, n)
	g.byName[name] = n

	logger.Debug("Added node to pipeline graph.", "pipeline", g.name, "node", name, "component", comp.Name, "upstream", n.Upstream())
	return n, nil
}

// bindArguments serializes args in the component's input order, filling
// defaults and checking literal values against the declared types.
func bindArguments(comp *model.Component, args Args) ([]Argument, error) {
	var missing []string
	arguments := make([]Argument, 0, len(comp.Inputs))

	for _, in := range comp.Inputs {
		v, bound := args[in.Name]
		if bound && !isNil(v) {
			s, val, err := serialize(v)
			if err != nil {
				return nil, fmt.Errorf("component '%s', input '%s': %w", comp.Name, in.Name, err)
			}
			if err := model.Conforms(val, in.Type); err != nil {
				return nil, fmt.Errorf("%w: component '%s', input '%s': %v", ErrTypeMismatch, comp.Name, in.Name, err)
			}
			arguments = append(arguments, Argument{Name: in.Name, Value: s})
			continue
		}

		switch {
		case in.Default != nil:
			s, err := model.Stringify(*in.Default)
			if err != nil {
				return nil, fmt.Errorf("component '%s', default of input '%s': %w", comp.Name, in.Name, err)
			}
			arguments = append(arguments, Argument{Name: in.Name, Value: s, Defaulted: true})
		case in.Optional:
		default:
			missing = append(missing, in.Name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: component '%s' needs %s", ErrMissingInput, comp.Name, strings.Join(missing, ", "))
	}
	return arguments, nil
}

func (g *Graph) checkRef(ref PipelineParam) error {
	if ref.IsParam() {
		if !slices.Contains(g.params, ref.Name) {
			return fmt.Errorf("%w: '%s' (declared: %v)", ErrUnknownParam, ref.Name, g.params)
		}
		return nil
	}

	upstream, ok := g.byName[ref.Op]
	if !ok {
		return fmt.Errorf("%w: node '%s' does not exist yet", ErrUnknownReference, ref.Op)
	}
	if ref.Name == ambiguousSlot {
		return fmt.Errorf("%w: node '%s' has %d outputs, name the one to use", ErrUnknownReference, ref.Op, len(upstream.Component.Outputs))
	}
	if _, ok := upstream.Component.Output(ref.Name); !ok {
		return fmt.Errorf("%w: node '%s' has no output '%s'", ErrUnknownReference, ref.Op, ref.Name)
	}
	return nil
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Nodes returns all nodes in construction order.
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// NodesOfKind returns the nodes of kind k in construction order.
func (g *Graph) NodesOfKind(k model.Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// Dependencies returns the nodes the named node reads outputs from.
func (g *Graph) Dependencies(name string) ([]*Node, error) {
	ids, err := g.dag.Dependencies(name)
	if err != nil {
		return nil, err
	}
	return g.lookupAll(ids), nil
}

// Dependents returns the nodes that read outputs of the named node.
func (g *Graph) Dependents(name string) ([]*Node, error) {
	ids, err := g.dag.Dependents(name)
	if err != nil {
		return nil, err
	}
	return g.lookupAll(ids), nil
}

// TopologicalOrder returns the nodes so that each follows its dependencies.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	ids, err := g.dag.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	return g.lookupAll(ids), nil
}

// Roots returns the nodes that read no other node's outputs, in
// construction order.
func (g *Graph) Roots() []*Node {
	return g.lookupAll(g.dag.Roots())
}

// Leaves returns the nodes whose outputs no other node reads, in
// construction order.
func (g *Graph) Leaves() []*Node {
	return g.lookupAll(g.dag.Leaves())
}

// Validate checks that the graph is non-empty and acyclic.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return fmt.Errorf("pipeline '%s' has no nodes", g.name)
	}
	if err := g.dag.DetectCycles(); err != nil {
		return fmt.Errorf("pipeline '%s': %w", g.name, err)
	}
	return nil
}

func (g *Graph) lookupAll(ids []string) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.byName[id])
	}
	return out
}
