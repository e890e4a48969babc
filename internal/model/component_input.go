// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines a component's input slots and their decoding from HCL.
//
// An input's type is a full HCL type constraint (`string`, `number`, `bool`,
// `any`, `list(any)`, `map(string)`, ...). The graph uses it to reject a
// literal argument of the wrong shape at assembly time. Whatever the declared
// type, the value handed to the remote operation is always a string: scalars
// are converted, structured values are JSON-encoded.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
)

// Input defines a single input slot of a component.
type Input struct {
	// Name is taken from the block label: in `input "region" {}` it is "region".
	Name string

	// Type is the value type this input is expected to have.
	Type cty.Type

	// Description is an optional human-readable explanation.
	Description string

	// Default is used when the caller does not bind the input. Inputs with a
	// nil Default that are not Optional are required.
	Default *cty.Value

	// Optional inputs without a default are left out of the rendered
	// invocation when unbound.
	Optional bool
}

// Required reports whether a caller must bind this input.
func (i Input) Required() bool {
	return i.Default == nil && !i.Optional
}

var inputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually
		// to provide a better error message.
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
		{Name: "optional"},
	},
}

// parseComponentInputs finds and decodes all 'input' blocks, keeping their
// declaration order.
func parseComponentInputs(blocks hcl.Blocks) ([]Input, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var inputs []Input
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("input") {
		inputName := block.Labels[0]

		if _, exists := seen[inputName]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate input definition",
				Detail:   fmt.Sprintf("An input named '%s' has already been defined.", inputName),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[inputName] = struct{}{}

		bodyContent, contentDiags := block.Body.Content(inputBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		typeAttr, exists := bodyContent.Attributes["type"]
		if !exists {
			missingItemRange := block.Body.MissingItemRange()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'type' attribute",
				Detail:   "The 'type' attribute is required for all input blocks.",
				Subject:  &missingItemRange,
			})
			continue
		}

		ctyType, typeDiags := typeexpr.TypeConstraint(typeAttr.Expr)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			continue
		}

		input := Input{Name: inputName, Type: ctyType}

		if descAttr, exists := bodyContent.Attributes["description"]; exists {
			diags = append(diags, gohcl.DecodeExpression(descAttr.Expr, nil, &input.Description)...)
		}
		if optAttr, exists := bodyContent.Attributes["optional"]; exists {
			diags = append(diags, gohcl.DecodeExpression(optAttr.Expr, nil, &input.Optional)...)
		}

		if defaultAttr, exists := bodyContent.Attributes["default"]; exists {
			// Defaults must be literal values, so there is no evaluation context.
			val, valDiags := defaultAttr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			if err := Conforms(val, ctyType); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid default value type",
					Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its type: %s.", inputName, err),
					Subject:  defaultAttr.Expr.Range().Ptr(),
				})
				continue
			}
			input.Default = &val
		}

		inputs = append(inputs, input)
	}

	return inputs, diags
}
