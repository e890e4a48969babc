package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/graph"
)

// Names of the components every SageMaker pipeline is built from.
const (
	ComponentTrain  = "sagemaker_train"
	ComponentModel  = "sagemaker_model"
	ComponentDeploy = "sagemaker_deploy"
)

// Names of the run-time parameters every pipeline exposes.
const (
	ParamRoleARN    = "role_arn"
	ParamBucketName = "bucket_name"
)

// Parameter is a run-time pipeline parameter and the default recorded for
// it in the compiled archive.
type Parameter struct {
	Name    string
	Default string
}

// AssembleFunc adds a pipeline's nodes to g.
type AssembleFunc func(ctx context.Context, g *graph.Graph) error

// Definition describes one compilable pipeline.
type Definition struct {
	// Name is the catalog key used on the command line.
	Name string
	// DisplayName and Description are recorded in the compiled workflow.
	DisplayName string
	Description string
	// Source is the Go file that declares the pipeline. The archive is
	// named after it.
	Source     string
	Parameters []Parameter
	Assemble   AssembleFunc
}

// ParamNames returns the parameter names in declaration order.
func (d *Definition) ParamNames() []string {
	names := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		names[i] = p.Name
	}
	return names
}

// Defaults returns the parameter defaults keyed by name.
func (d *Definition) Defaults() map[string]string {
	out := make(map[string]string, len(d.Parameters))
	for _, p := range d.Parameters {
		out[p.Name] = p.Default
	}
	return out
}

// WithDefaults returns a copy of d whose parameter defaults are replaced by
// overrides. Overriding an undeclared parameter is an error.
func (d *Definition) WithDefaults(overrides map[string]string) (*Definition, error) {
	out := *d
	out.Parameters = slices.Clone(d.Parameters)

	for name, value := range overrides {
		i := slices.IndexFunc(out.Parameters, func(p Parameter) bool { return p.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("pipeline '%s' has no parameter '%s'", d.Name, name)
		}
		out.Parameters[i].Default = value
	}
	return &out, nil
}

// ArchiveName is the file name of the compiled archive: the base name of
// the declaring source file with ".zip" appended.
func (d *Definition) ArchiveName() string {
	base := filepath.Base(d.Source)
	if d.Source == "" || base == "." || base == string(filepath.Separator) {
		base = d.Name
	}
	return base + ".zip"
}

// Build assembles the pipeline against source and validates the result.
func (d *Definition) Build(ctx context.Context, source graph.ComponentSource) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Assembling pipeline graph...", "pipeline", d.Name)

	if d.Assemble == nil {
		return nil, fmt.Errorf("pipeline '%s' has no assemble function", d.Name)
	}

	g := graph.New(d.DisplayName, source, d.ParamNames()...)
	if err := d.Assemble(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to assemble pipeline '%s': %w", d.Name, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Pipeline graph assembled.", "pipeline", d.Name, "node_count", len(g.Nodes()))
	return g, nil
}
