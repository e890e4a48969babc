/*
Package nodeid turns human-readable component display names into node names
that are safe to use as workflow template and task names.

A node name must be a DNS-1123 label: lowercase alphanumerics and '-', at most
63 characters, starting and ending with an alphanumeric. Display names such as
"SageMaker - Training Job" are sanitized into "sagemaker-training-job", and an
Allocator hands out unique names within one graph by appending "-2", "-3", and
so on to repeated bases.
*/
package nodeid
