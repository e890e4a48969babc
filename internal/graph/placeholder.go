package graph

import (
	"fmt"
	"regexp"
)

// PipelineParam is a value that is only known when the pipeline runs: either
// a pipeline parameter (Op is empty) or an output slot of node Op.
type PipelineParam struct {
	Op   string
	Name string
}

var placeholderPattern = regexp.MustCompile(`\{\{pipelineparam:op=([\w\s_-]*);name=([\w\s_-]+)\}\}`)

// String renders the placeholder.
func (p PipelineParam) String() string {
	return fmt.Sprintf("{{pipelineparam:op=%s;name=%s}}", p.Op, p.Name)
}

// IsParam reports whether p refers to a pipeline parameter rather than a
// node output.
func (p PipelineParam) IsParam() bool {
	return p.Op == ""
}

// FullName is the name of the workflow-level parameter p is rendered as:
// the bare name for pipeline parameters, `<op>-<name>` for node outputs.
func (p PipelineParam) FullName() string {
	if p.IsParam() {
		return p.Name
	}
	return p.Op + "-" + p.Name
}

// Placeholders returns every distinct placeholder embedded in s, in order of
// first appearance.
func Placeholders(s string) []PipelineParam {
	matches := placeholderPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[PipelineParam]struct{}, len(matches))
	params := make([]PipelineParam, 0, len(matches))
	for _, m := range matches {
		p := PipelineParam{Op: m[1], Name: m[2]}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		params = append(params, p)
	}
	return params
}

// Replace rewrites every placeholder in s with whatever fn returns for it.
func Replace(s string, fn func(PipelineParam) string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := placeholderPattern.FindStringSubmatch(match)
		return fn(PipelineParam{Op: m[1], Name: m[2]})
	})
}

// Substitute replaces pipeline-parameter placeholders with the given
// concrete values. Node-output placeholders and parameters missing from
// values are left in place.
func Substitute(s string, values map[string]string) string {
	return Replace(s, func(p PipelineParam) string {
		if v, ok := values[p.Name]; ok && p.IsParam() {
			return v
		}
		return p.String()
	})
}

func isSolePlaceholder(s string) bool {
	loc := placeholderPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
