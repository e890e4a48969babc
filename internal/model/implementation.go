// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the container invocation of a component and the argument
// template that turns bound inputs into command-line arguments.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/sagegrid/internal/sghcl"
)

// Implementation is the container the orchestration engine runs for a node.
type Implementation struct {
	Image   string
	Command []string
	Args    []ArgSpec
}

// ArgSpec is one element of an argument template. Exactly one field is set.
type ArgSpec struct {
	Literal   string
	InputRef  string
	OutputRef string
}

// Literal returns a literal ArgSpec.
func Literal(s string) ArgSpec { return ArgSpec{Literal: s} }

// InputValue returns an ArgSpec that expands to the value bound to input name.
func InputValue(name string) ArgSpec { return ArgSpec{InputRef: name} }

// OutputPath returns an ArgSpec that expands to the file path of output name.
func OutputPath(name string) ArgSpec { return ArgSpec{OutputRef: name} }

// String renders the argument the way it is written in a manifest.
func (a ArgSpec) String() string {
	switch {
	case a.InputRef != "":
		return "input." + a.InputRef
	case a.OutputRef != "":
		return "output." + a.OutputRef
	default:
		return fmt.Sprintf("%q", a.Literal)
	}
}

var implementationBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "image", Required: true},
		{Name: "command"},
		{Name: "args"},
	},
}

// parseImplementation decodes the single required 'implementation' block.
func parseImplementation(blocks hcl.Blocks, missing hcl.Range) (Implementation, hcl.Diagnostics) {
	var impl Implementation

	block, diags := sghcl.FindUniqueBlock(blocks, "implementation")
	if diags.HasErrors() {
		return impl, diags
	}
	if block == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing implementation block",
			Detail:   "Every component needs an 'implementation' block naming its container image.",
			Subject:  &missing,
		})
		return impl, diags
	}

	content, contentDiags := block.Body.Content(implementationBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return impl, diags
	}

	diags = append(diags, gohcl.DecodeExpression(content.Attributes["image"].Expr, nil, &impl.Image)...)
	if attr, ok := content.Attributes["command"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &impl.Command)...)
	}
	if attr, ok := content.Attributes["args"]; ok {
		var argDiags hcl.Diagnostics
		impl.Args, argDiags = parseArgTemplate(attr.Expr)
		diags = append(diags, argDiags...)
	}

	return impl, diags
}

// parseArgTemplate decodes a tuple whose elements are string literals or
// `input.<name>` / `output.<name>` references.
func parseArgTemplate(expr hcl.Expression) ([]ArgSpec, hcl.Diagnostics) {
	elems, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	args := make([]ArgSpec, 0, len(elems))
	for _, elem := range elems {
		root, name, isRef, refDiags := sghcl.SplitReference(elem, "input", "output")
		diags = append(diags, refDiags...)
		if isRef {
			switch root {
			case "input":
				args = append(args, InputValue(name))
			case "output":
				args = append(args, OutputPath(name))
			}
			continue
		}

		var literal string
		litDiags := gohcl.DecodeExpression(elem, nil, &literal)
		diags = append(diags, litDiags...)
		if !litDiags.HasErrors() {
			args = append(args, Literal(literal))
		}
	}

	return args, diags
}
