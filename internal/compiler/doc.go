// Package compiler turns an assembled pipeline into a workflow archive the
// orchestration engine can import.
//
// The workflow is an Argo Workflow document in the shape the Kubeflow
// Pipelines v1 backend accepts: one DAG template wiring the nodes together
// and one container template per node. It is stored as pipeline.yaml inside
// a zip archive. Rendering and archiving are deterministic, so compiling the
// same pipeline twice yields byte-identical archives.
package compiler
