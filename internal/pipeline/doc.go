// Package pipeline defines what a compilable pipeline is and the catalog the
// CLI picks pipelines from.
//
// A Definition pairs the pipeline's metadata and run-time parameters with an
// Assemble function that adds nodes to a graph.Graph. Pipelines live in their
// own packages under pipelines/ and contribute themselves to the catalog
// through the Module interface, the same way every pipeline compiled into
// the binary is listed in one place in internal/app.
package pipeline
