package compiler

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/nodeid"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/internal/yamler"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	workflowAPIVersion     = "argoproj.io/v1alpha1"
	workflowKind           = "Workflow"
	pipelineSpecAnnotation = "pipelines.kubeflow.org/pipeline_spec"
	serviceAccountName     = "pipeline-runner"
	containerName          = "main"
)

type pipelineSpec struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Inputs      []pipelineSpecInput `json:"inputs"`
}

type pipelineSpecInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Default  string `json:"default"`
	Optional bool   `json:"optional"`
}

// Render produces the workflow document for g, recording the parameter
// defaults of def.
func Render(def *pipeline.Definition, g *graph.Graph) ([]byte, error) {
	entrypoint := nodeid.Sanitize(def.DisplayName)
	if entrypoint == "" {
		entrypoint = nodeid.Sanitize(def.Name)
	}
	if _, clash := g.Node(entrypoint); clash {
		entrypoint += "-pipeline"
	}

	metadata, err := renderMetadata(def, entrypoint)
	if err != nil {
		return nil, err
	}

	templates := []*yaml.Node{renderDAG(def, g, entrypoint)}
	for _, n := range g.Nodes() {
		tmpl, err := renderContainerTemplate(n)
		if err != nil {
			return nil, fmt.Errorf("node '%s': %w", n.Name, err)
		}
		templates = append(templates, tmpl)
	}

	arguments := make([]*yaml.Node, 0, len(def.Parameters))
	for _, p := range def.Parameters {
		arguments = append(arguments, yamler.Map(
			yamler.Field("name", yamler.Text(p.Name)),
			yamler.Field("value", yamler.Text(p.Default)),
		))
	}

	doc := yamler.Map(
		yamler.Field("apiVersion", yamler.Text(workflowAPIVersion)),
		yamler.Field("kind", yamler.Text(workflowKind)),
		yamler.Field("metadata", metadata),
		yamler.Field("spec", yamler.Map(
			yamler.Field("entrypoint", yamler.Text(entrypoint)),
			yamler.Field("templates", yamler.Seq(templates...)),
			yamler.Field("arguments", yamler.Map(
				yamler.Field("parameters", yamler.Seq(arguments...)),
			)),
			yamler.Field("serviceAccountName", yamler.Text(serviceAccountName)),
		)),
	)
	return yamler.Encode(doc)
}

func renderMetadata(def *pipeline.Definition, entrypoint string) (*yaml.Node, error) {
	spec := pipelineSpec{
		Name:        def.DisplayName,
		Description: def.Description,
		Inputs:      make([]pipelineSpecInput, 0, len(def.Parameters)),
	}
	for _, p := range def.Parameters {
		spec.Inputs = append(spec.Inputs, pipelineSpecInput{Name: p.Name, Type: "String", Default: p.Default, Optional: true})
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}

	meta := metav1.ObjectMeta{
		GenerateName: entrypoint + "-",
		Annotations:  map[string]string{pipelineSpecAnnotation: string(specJSON)},
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return yamler.FromJSON(b)
}

// inputName is the name under which a placeholder is passed to a template.
func inputName(p graph.PipelineParam) string {
	return p.FullName()
}

func renderDAG(def *pipeline.Definition, g *graph.Graph, entrypoint string) *yaml.Node {
	params := def.ParamNames()
	slices.Sort(params)
	inputs := make([]*yaml.Node, 0, len(params))
	for _, p := range params {
		inputs = append(inputs, yamler.Map(yamler.Field("name", yamler.Text(p))))
	}

	tasks := make([]*yaml.Node, 0, len(g.Nodes()))
	for _, n := range g.Nodes() {
		task := yamler.Map(
			yamler.Field("name", yamler.Text(n.Name)),
			yamler.Field("template", yamler.Text(n.Name)),
		)

		if upstream := n.Upstream(); len(upstream) > 0 {
			slices.Sort(upstream)
			deps := make([]*yaml.Node, len(upstream))
			for i, u := range upstream {
				deps[i] = yamler.Text(u)
			}
			yamler.Append(task, yamler.Field("dependencies", yamler.Seq(deps...)))
		}

		if refs := sortedRefs(n); len(refs) > 0 {
			args := make([]*yaml.Node, 0, len(refs))
			for _, ref := range refs {
				var value string
				if ref.IsParam() {
					value = fmt.Sprintf("{{inputs.parameters.%s}}", ref.Name)
				} else {
					value = fmt.Sprintf("{{tasks.%s.outputs.parameters.%s}}", ref.Op, ref.FullName())
				}
				args = append(args, yamler.Map(
					yamler.Field("name", yamler.Text(inputName(ref))),
					yamler.Field("value", yamler.Text(value)),
				))
			}
			yamler.Append(task, yamler.Field("arguments", yamler.Map(
				yamler.Field("parameters", yamler.Seq(args...)),
			)))
		}

		tasks = append(tasks, task)
	}

	tmpl := yamler.Map(yamler.Field("name", yamler.Text(entrypoint)))
	if len(inputs) > 0 {
		yamler.Append(tmpl, yamler.Field("inputs", yamler.Map(
			yamler.Field("parameters", yamler.Seq(inputs...)),
		)))
	}
	return yamler.Append(tmpl, yamler.Field("dag", yamler.Map(
		yamler.Field("tasks", yamler.Seq(tasks...)),
	)))
}

func renderContainerTemplate(n *graph.Node) (*yaml.Node, error) {
	comp := n.Component
	args, err := renderArgs(n)
	if err != nil {
		return nil, err
	}

	container := corev1.Container{
		Name:    containerName,
		Image:   comp.Implementation.Image,
		Command: comp.Implementation.Command,
		Args:    args,
	}
	b, err := json.Marshal(container)
	if err != nil {
		return nil, err
	}
	containerNode, err := yamler.FromJSON(b)
	if err != nil {
		return nil, err
	}

	tmpl := yamler.Map(
		yamler.Field("name", yamler.Text(n.Name)),
		yamler.Field("container", containerNode),
	)

	if refs := sortedRefs(n); len(refs) > 0 {
		inputs := make([]*yaml.Node, 0, len(refs))
		for _, ref := range refs {
			inputs = append(inputs, yamler.Map(yamler.Field("name", yamler.Text(inputName(ref)))))
		}
		yamler.Append(tmpl, yamler.Field("inputs", yamler.Map(
			yamler.Field("parameters", yamler.Seq(inputs...)),
		)))
	}

	if len(comp.Outputs) > 0 {
		outputs := make([]*yaml.Node, 0, len(comp.Outputs))
		for _, out := range comp.Outputs {
			outputs = append(outputs, yamler.Map(
				yamler.Field("name", yamler.Text(n.Output(out.Name).FullName())),
				yamler.Field("valueFrom", yamler.Map(
					yamler.Field("path", yamler.Text(out.Path)),
				)),
			))
		}
		yamler.Append(tmpl, yamler.Field("outputs", yamler.Map(
			yamler.Field("parameters", yamler.Seq(outputs...)),
		)))
	}

	return tmpl, nil
}

// renderArgs expands the component's argument template for n. Placeholders
// become template input references. An unbound optional input drops its
// value together with the flag right before it.
func renderArgs(n *graph.Node) ([]string, error) {
	var out []string
	for _, spec := range n.Component.Implementation.Args {
		switch {
		case spec.InputRef != "":
			arg, ok := n.Argument(spec.InputRef)
			if !ok {
				if in, declared := n.Component.Input(spec.InputRef); declared && in.Optional {
					if len(out) > 0 && strings.HasPrefix(out[len(out)-1], "-") {
						out = out[:len(out)-1]
					}
					continue
				}
				return nil, fmt.Errorf("argument template refers to unbound input '%s'", spec.InputRef)
			}
			out = append(out, graph.Replace(arg.Value, func(p graph.PipelineParam) string {
				return fmt.Sprintf("{{inputs.parameters.%s}}", inputName(p))
			}))
		case spec.OutputRef != "":
			o, ok := n.Component.Output(spec.OutputRef)
			if !ok {
				return nil, fmt.Errorf("argument template refers to undeclared output '%s'", spec.OutputRef)
			}
			out = append(out, o.Path)
		default:
			out = append(out, spec.Literal)
		}
	}
	return out, nil
}

// sortedRefs returns the placeholders n consumes, ordered by their
// template input name.
func sortedRefs(n *graph.Node) []graph.PipelineParam {
	refs := slices.Clone(n.Refs)
	slices.SortFunc(refs, func(a, b graph.PipelineParam) int {
		return strings.Compare(inputName(a), inputName(b))
	})
	return refs
}
