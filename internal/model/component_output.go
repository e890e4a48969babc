// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines a component's output slots and their decoding from HCL.
//
// Outputs are the only thing one node can hand to another. When a graph node
// references `job_name` on a training node, the graph checks that the
// training component declares that output; the compiled workflow then reads
// the value from the output's Path once the container has finished.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
)

// Output defines a single output slot of a component.
type Output struct {
	Name        string
	Type        cty.Type
	Description string
	// Path is the file inside the container that holds the output value.
	Path string
}

// DefaultOutputPath is the file an output is read from when the manifest
// does not name one.
func DefaultOutputPath(name string) string {
	return fmt.Sprintf("/tmp/outputs/%s/data", name)
}

var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "description"},
		{Name: "path"},
	},
}

// parseComponentOutputs finds and decodes all 'output' blocks, keeping their
// declaration order. Outputs default to type string.
func parseComponentOutputs(blocks hcl.Blocks) ([]Output, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var outputs []Output
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("output") {
		outputName := block.Labels[0]

		if _, exists := seen[outputName]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate output definition",
				Detail:   fmt.Sprintf("An output named '%s' has already been defined.", outputName),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[outputName] = struct{}{}

		bodyContent, contentDiags := block.Body.Content(outputBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		output := Output{
			Name: outputName,
			Type: cty.String,
			Path: DefaultOutputPath(outputName),
		}

		if typeAttr, exists := bodyContent.Attributes["type"]; exists {
			ctyType, typeDiags := typeexpr.TypeConstraint(typeAttr.Expr)
			diags = append(diags, typeDiags...)
			if typeDiags.HasErrors() {
				continue
			}
			output.Type = ctyType
		}
		if descAttr, exists := bodyContent.Attributes["description"]; exists {
			diags = append(diags, gohcl.DecodeExpression(descAttr.Expr, nil, &output.Description)...)
		}
		if pathAttr, exists := bodyContent.Attributes["path"]; exists {
			diags = append(diags, gohcl.DecodeExpression(pathAttr.Expr, nil, &output.Path)...)
		}

		outputs = append(outputs, output)
	}

	return outputs, diags
}
