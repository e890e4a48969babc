// Package registry stores the component manifests a pipeline is assembled
// from.
//
// Components are keyed by name (the HCL block label, or the file stem of a
// component.yaml). The registry is populated once at startup, either from
// the manifests embedded in the binary or from a directory given on the
// command line, and then validated so that a broken manifest fails the run
// before any pipeline is assembled.
package registry
