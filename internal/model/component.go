// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Component, the reusable descriptor of one remote
// operation, and the decoding of `component` blocks from HCL manifests.
//
// Inputs and outputs are kept as ordered slices rather than maps: the order
// they are declared in is the order their arguments are rendered in, and the
// rendered workflow must not change between two compiles of the same pipeline.
package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/sagegrid/internal/ctxlog"
)

// Component is the format-agnostic representation of a component manifest.
type Component struct {
	Name           string
	DisplayName    string
	Description    string
	Kind           Kind
	FSInformation  *FSInfo
	Implementation Implementation
	Inputs         []Input
	Outputs        []Output
}

// Input returns the declared input with the given name.
func (c *Component) Input(name string) (Input, bool) {
	for _, in := range c.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Output returns the declared output with the given name.
func (c *Component) Output(name string) (Output, bool) {
	for _, out := range c.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return Output{}, false
}

// componentRootSchema defines the top-level structure of a manifest file,
// expecting one or more 'component' blocks.
type componentRootSchema struct {
	Components []*hclComponent `hcl:"component,block"`
}

// hclComponent represents a single 'component' block for decoding purposes.
type hclComponent struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var componentBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "display_name"},
		{Name: "description"},
		{Name: "kind", Required: true},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "implementation"},
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

// ParseComponentSource parses raw HCL bytes and decodes every component in it.
func ParseComponentSource(ctx context.Context, src []byte, filePath string) ([]*Component, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	components, diags := ParseComponentFile(ctx, hclFile, filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode components in %s: %w", filePath, diags)
	}
	return components, nil
}

// ParseComponentFile decodes an HCL file that contains one or more 'component' blocks.
func ParseComponentFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Component, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing component definitions from file", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	schema := &componentRootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, schema)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	components := make([]*Component, 0, len(schema.Components))
	for _, parsed := range schema.Components {
		bodyContent, contentDiags := parsed.Body.Content(componentBodySchema)
		allDiags = append(allDiags, contentDiags...)
		if contentDiags.HasErrors() {
			continue // Skip this component but keep collecting diagnostics for others.
		}

		component := &Component{
			Name:          parsed.Name,
			DisplayName:   parsed.Name,
			FSInformation: NewFSInfo(filePath),
		}

		if attr, exists := bodyContent.Attributes["display_name"]; exists {
			allDiags = append(allDiags, gohcl.DecodeExpression(attr.Expr, nil, &component.DisplayName)...)
		}
		if attr, exists := bodyContent.Attributes["description"]; exists {
			allDiags = append(allDiags, gohcl.DecodeExpression(attr.Expr, nil, &component.Description)...)
		}

		var kindStr string
		kindAttr := bodyContent.Attributes["kind"]
		kindDiags := gohcl.DecodeExpression(kindAttr.Expr, nil, &kindStr)
		allDiags = append(allDiags, kindDiags...)
		if !kindDiags.HasErrors() {
			kind, err := ParseKind(kindStr)
			if err != nil {
				allDiags = append(allDiags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid component kind",
					Detail:   err.Error(),
					Subject:  kindAttr.Expr.Range().Ptr(),
				})
			}
			component.Kind = kind
		}

		var inputDiags hcl.Diagnostics
		component.Inputs, inputDiags = parseComponentInputs(bodyContent.Blocks)
		allDiags = append(allDiags, inputDiags...)

		var outputDiags hcl.Diagnostics
		component.Outputs, outputDiags = parseComponentOutputs(bodyContent.Blocks)
		allDiags = append(allDiags, outputDiags...)

		var implDiags hcl.Diagnostics
		component.Implementation, implDiags = parseImplementation(bodyContent.Blocks, parsed.Body.MissingItemRange())
		allDiags = append(allDiags, implDiags...)

		components = append(components, component)
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed component definitions", "count", len(components))
	return components, allDiags
}
