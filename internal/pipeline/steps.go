package pipeline

import (
	"context"

	"github.com/specialistvlad/sagegrid/internal/graph"
)

// CreateModelFromTraining adds a create-model node that packages the
// artifact of train as a SageMaker model named after the training job.
func CreateModelFromTraining(ctx context.Context, g *graph.Graph, region string, train *graph.Node, role graph.PipelineParam) (*graph.Node, error) {
	return g.Add(ctx, ComponentModel, graph.Args{
		"region":             region,
		"model_name":         train.Output("job_name"),
		"image":              train.Output("training_image"),
		"model_artifact_url": train.Output("model_artifact_url"),
		"role":               role,
	})
}
