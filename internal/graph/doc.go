// Package graph assembles a pipeline: a DAG of operation nodes whose inputs
// are bound to literal values, pipeline parameters, or outputs of upstream
// nodes.
//
// # Placeholders
//
// Anything that is not known until the pipeline runs is represented by a
// PipelineParam, which renders as a placeholder string:
//
//	{{pipelineparam:op=sagemaker-training-job;name=job_name}}
//	{{pipelineparam:op=;name=bucket_name}}
//
// An empty op denotes a pipeline parameter. Because placeholders are plain
// strings they can be embedded anywhere in a value, for instance inside an
// S3 URI inside a channel list that is later JSON-encoded:
//
//	uri := fmt.Sprintf("s3://%s/train", g.Param("bucket_name"))
//
// When a node is added, every argument is serialized to its final string
// form and scanned for placeholders. Each placeholder naming a node becomes
// a DAG edge; each one naming a pipeline parameter is checked against the
// declared parameters.
//
// # Ordering
//
// Nodes can only reference nodes added before them, so a graph is acyclic by
// construction. Nodes, arguments, and dependency lists are all reported in
// construction order, which keeps the compiled output stable.
package graph
