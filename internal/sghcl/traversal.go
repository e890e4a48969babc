package sghcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string for an hcl.Traversal,
// e.g. `input.region`. It is used in diagnostics.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// SplitReference interprets expr as a two-part reference `<root>.<name>`
// whose root is one of roots. ok is false when expr is not a traversal at
// all, so callers can fall back to evaluating it as a literal.
func SplitReference(expr hcl.Expression, roots ...string) (root, name string, ok bool, diags hcl.Diagnostics) {
	traversal, travDiags := hcl.AbsTraversalForExpr(expr)
	if travDiags.HasErrors() {
		return "", "", false, nil
	}

	subject := expr.Range().Ptr()
	root = traversal.RootName()
	known := false
	for _, r := range roots {
		if r == root {
			known = true
			break
		}
	}
	if !known {
		return "", "", true, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported reference",
			Detail:   fmt.Sprintf("The reference %s must start with one of %v.", TraversalKey(traversal), roots),
			Subject:  subject,
		}}
	}

	if len(traversal) != 2 {
		return "", "", true, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   fmt.Sprintf("The reference %s must have the form %s.<name>.", TraversalKey(traversal), root),
			Subject:  subject,
		}}
	}

	attr, isAttr := traversal[1].(hcl.TraverseAttr)
	if !isAttr {
		return "", "", true, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   fmt.Sprintf("The reference %s must use attribute access, not an index.", TraversalKey(traversal)),
			Subject:  subject,
		}}
	}

	return root, attr.Name, true, nil
}
