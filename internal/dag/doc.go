// Package dag is a small, generic directed acyclic graph keyed by string IDs.
// The pipeline graph records one node per operation and one edge per output
// reference here, and relies on it for cycle detection and for a stable
// topological order. Node and edge insertion order is remembered so that
// every traversal is deterministic.
package dag
