// Package components embeds the manifests of the SageMaker operations the
// pipelines are assembled from. They describe the interface of externally
// hosted containers; nothing in this repository implements them.
package components

import "embed"

// FS holds every *.hcl manifest in this directory.
//
//go:embed *.hcl
var FS embed.FS
