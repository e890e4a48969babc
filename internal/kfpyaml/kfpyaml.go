package kfpyaml

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// KindAnnotation names the metadata annotation carrying the component kind.
const KindAnnotation = "sagegrid.io/kind"

type document struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Metadata    metadata     `yaml:"metadata"`
	Inputs      []inputSpec  `yaml:"inputs"`
	Outputs     []outputSpec `yaml:"outputs"`
	Impl        struct {
		Container *containerSpec `yaml:"container"`
	} `yaml:"implementation"`
}

type metadata struct {
	Annotations map[string]string `yaml:"annotations"`
}

type inputSpec struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Description string  `yaml:"description"`
	Default     *string `yaml:"default"`
	Optional    bool    `yaml:"optional"`
}

type outputSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

type containerSpec struct {
	Image       string            `yaml:"image"`
	Command     []yaml.Node       `yaml:"command"`
	Args        []yaml.Node       `yaml:"args"`
	FileOutputs map[string]string `yaml:"fileOutputs"`
}

// Parse decodes a component.yaml document. filePath is recorded on the
// component and, when the document has no usable key of its own, used to
// derive the component name.
func Parse(ctx context.Context, src []byte, filePath string) (*model.Component, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing component.yaml", "file_path", filePath)

	var doc document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filePath, err)
	}
	if doc.Impl.Container == nil {
		return nil, fmt.Errorf("%s: implementation.container is required", filePath)
	}
	if doc.Impl.Container.Image == "" {
		return nil, fmt.Errorf("%s: implementation.container.image is required", filePath)
	}

	kind, err := kindOf(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	c := &model.Component{
		Name:          ComponentKey(filePath),
		DisplayName:   doc.Name,
		Description:   doc.Description,
		Kind:          kind,
		FSInformation: model.NewFSInfo(filePath),
	}
	if c.DisplayName == "" {
		c.DisplayName = c.Name
	}

	var errs []error
	seen := make(map[string]struct{})
	for _, in := range doc.Inputs {
		if _, dup := seen[in.Name]; dup {
			errs = append(errs, fmt.Errorf("input %q is declared twice", in.Name))
			continue
		}
		seen[in.Name] = struct{}{}

		input, err := convertInput(in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.Inputs = append(c.Inputs, input)
	}

	clear(seen)
	for _, out := range doc.Outputs {
		if _, dup := seen[out.Name]; dup {
			errs = append(errs, fmt.Errorf("output %q is declared twice", out.Name))
			continue
		}
		seen[out.Name] = struct{}{}

		typ, err := TypeOf(out.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("output %q: %w", out.Name, err))
			continue
		}
		p := doc.Impl.Container.FileOutputs[out.Name]
		if p == "" {
			p = model.DefaultOutputPath(out.Name)
		}
		c.Outputs = append(c.Outputs, model.Output{
			Name:        out.Name,
			Type:        typ,
			Description: out.Description,
			Path:        p,
		})
	}

	c.Implementation.Image = doc.Impl.Container.Image
	for i := range doc.Impl.Container.Command {
		var s string
		if err := doc.Impl.Container.Command[i].Decode(&s); err != nil {
			errs = append(errs, fmt.Errorf("command[%d] must be a string: %w", i, err))
			continue
		}
		c.Implementation.Command = append(c.Implementation.Command, s)
	}
	for i := range doc.Impl.Container.Args {
		arg, err := convertArg(&doc.Impl.Container.Args[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("args[%d]: %w", i, err))
			continue
		}
		c.Implementation.Args = append(c.Implementation.Args, arg)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to decode component in %s: %w", filePath, err)
	}

	logger.Debug("Successfully parsed component.yaml", "component", c.Name, "inputs", len(c.Inputs), "outputs", len(c.Outputs))
	return c, nil
}

// kindOf reads the kind annotation. Upstream manifests carry none; their kind
// follows from the outputs they declare.
func kindOf(doc document) (model.Kind, error) {
	if annotated, ok := doc.Metadata.Annotations[KindAnnotation]; ok {
		kind, err := model.ParseKind(annotated)
		if err != nil {
			return model.KindUnknown, fmt.Errorf("annotation %s: %w", KindAnnotation, err)
		}
		return kind, nil
	}

	declared := make(map[string]bool, len(doc.Outputs))
	for _, out := range doc.Outputs {
		declared[out.Name] = true
	}
	switch {
	case declared["job_name"] || declared["training_image"]:
		return model.KindTrain, nil
	case declared["endpoint_name"]:
		return model.KindDeploy, nil
	case declared["model_name"]:
		return model.KindCreateModel, nil
	}
	return model.KindUnknown, fmt.Errorf("cannot infer the component kind from its outputs; set the %s annotation", KindAnnotation)
}

// ComponentKey derives a registry key from a manifest path: the file stem,
// or the directory name for files called component.yaml.
func ComponentKey(filePath string) string {
	base := path.Base(filePath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "component" {
		if dir := path.Base(path.Dir(filePath)); dir != "." && dir != "/" {
			stem = dir
		}
	}
	return strings.ReplaceAll(stem, "-", "_")
}

// TypeOf maps a KFP type name to the cty type inputs are checked against.
// An empty type name means "anything".
func TypeOf(kfpType string) (cty.Type, error) {
	switch kfpType {
	case "":
		return cty.DynamicPseudoType, nil
	case "String", "GCSPath", "S3Path":
		return cty.String, nil
	case "Integer", "Float":
		return cty.Number, nil
	case "Bool":
		return cty.Bool, nil
	case "JsonObject":
		return cty.Map(cty.DynamicPseudoType), nil
	case "JsonArray":
		return cty.List(cty.DynamicPseudoType), nil
	}
	return cty.NilType, fmt.Errorf("unsupported type %q", kfpType)
}

func convertInput(in inputSpec) (model.Input, error) {
	typ, err := TypeOf(in.Type)
	if err != nil {
		return model.Input{}, fmt.Errorf("input %q: %w", in.Name, err)
	}
	input := model.Input{
		Name:        in.Name,
		Type:        typ,
		Description: in.Description,
		Optional:    in.Optional,
	}
	if in.Default == nil {
		return input, nil
	}

	val, err := defaultValue(*in.Default, typ)
	if err != nil {
		return model.Input{}, fmt.Errorf("input %q: invalid default: %w", in.Name, err)
	}
	if err := model.Conforms(val, typ); err != nil {
		return model.Input{}, fmt.Errorf("input %q: invalid default: %w", in.Name, err)
	}
	input.Default = &val
	return input, nil
}

// defaultValue interprets a KFP string default. Structured types carry their
// default as JSON text.
func defaultValue(raw string, typ cty.Type) (cty.Value, error) {
	switch {
	case typ.Equals(cty.String) || typ.Equals(cty.DynamicPseudoType):
		return cty.StringVal(raw), nil
	case raw == "":
		return cty.NullVal(typ), nil
	case typ.Equals(cty.Bool):
		// Python-written manifests spell booleans 'True' and 'False'.
		return cty.StringVal(strings.ToLower(raw)), nil
	case typ.IsPrimitiveType():
		return cty.StringVal(raw), nil
	}
	b := []byte(raw)
	implied, err := ctyjson.ImpliedType(b)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(b, implied)
}

func convertArg(node *yaml.Node) (model.ArgSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return model.Literal(node.Value), nil
	case yaml.MappingNode:
		var placeholder map[string]string
		if err := node.Decode(&placeholder); err != nil {
			return model.ArgSpec{}, err
		}
		if len(placeholder) != 1 {
			return model.ArgSpec{}, fmt.Errorf("placeholder must have exactly one key, got %d", len(placeholder))
		}
		if name, ok := placeholder["inputValue"]; ok {
			return model.InputValue(name), nil
		}
		if name, ok := placeholder["outputPath"]; ok {
			return model.OutputPath(name), nil
		}
		for k := range placeholder {
			return model.ArgSpec{}, fmt.Errorf("unsupported placeholder %q", k)
		}
	}
	return model.ArgSpec{}, fmt.Errorf("line %d: expected a string or a placeholder", node.Line)
}
