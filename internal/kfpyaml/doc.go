// Package kfpyaml decodes component descriptions written in the Kubeflow
// Pipelines component.yaml format into model.Component values.
//
// Only the subset used by container components is supported: name,
// description, typed inputs with string defaults, outputs, and an
// implementation.container block whose args mix literals with
// {inputValue: x} and {outputPath: y} placeholders. The operation kind is
// read from the `sagegrid.io/kind` annotation, or inferred from the declared
// outputs when the manifest has none.
package kfpyaml
