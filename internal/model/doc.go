// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of a component manifest: the
// locally stored interface descriptor of one remote operation (train,
// create-model, deploy) that a pipeline graph can instantiate.
//
// # Core Concepts
//
//   - Component: the reusable contract of an operation. It declares the named
//     inputs it accepts, the named outputs it produces, and the container
//     invocation (image, command, argument template) the orchestration engine
//     runs for it.
//
//   - Input / Output: typed slots. Input types are cty types so that literal
//     arguments can be checked before anything is serialized; outputs carry the
//     file path the container writes the value to.
//
//   - ArgSpec: one element of the argument template. It is either a literal
//     string or a reference to an input value or an output path.
//
//   - FSInfo: links every Component back to the manifest it was read from.
//
// Why local manifests?
//
// Operation definitions used to be fetched over the network at import time.
// Keeping them as files that are parsed and validated once at startup makes
// the pipeline definitions testable offline, lets tests inject a fixture
// registry, and pins the exact interface a compiled archive was built against.
//
// Manifests are written in HCL:
//
//	component "sagemaker_train" {
//	  display_name = "SageMaker - Training Job"
//	  kind         = "train"
//
//	  implementation {
//	    image   = "amazon/aws-sagemaker-kfp-components:0.3.1"
//	    command = ["python"]
//	    args    = ["train.py", "--region", input.region]
//	  }
//
//	  input "region" {
//	    type = string
//	  }
//
//	  output "job_name" {
//	    type = string
//	    path = "/tmp/job_name.txt"
//	  }
//	}
package model
