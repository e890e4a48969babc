// Package caltech is the Caltech-256 image classification pipeline. It
// trains two variants of the built-in image classification algorithm,
// packages each as a model, and deploys them twice: once as a two-variant
// endpoint with Elastic Inference accelerators, and once as a single-model
// endpoint.
package caltech

import (
	"context"
	"fmt"
	"runtime"

	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/internal/sagemaker"
)

const (
	Name        = "caltech"
	DisplayName = "CALTECH-EI-MMV-pipeline"
	Description = "CALTECH Elastic Inference and Multi-Model Variant image classification pipeline in SageMaker"
)

// Config holds the fixed settings of the pipeline.
type Config struct {
	Region            string
	InstanceType      string
	TrainImage        string
	VolumeSize        int
	MaxRunTime        int
	TrainingInputMode string
	AcceleratorType   string
	// DataPrefix is the key prefix under the bucket holding the train and
	// validation sets and receiving the model artifacts.
	DataPrefix string
}

// DefaultConfig returns the settings the pipeline is published with.
func DefaultConfig() Config {
	return Config{
		Region:            "us-west-2",
		InstanceType:      "ml.p3.2xlarge",
		TrainImage:        "433757028032.dkr.ecr.us-west-2.amazonaws.com/image-classification:latest",
		VolumeSize:        50,
		MaxRunTime:        360000,
		TrainingInputMode: "File",
		AcceleratorType:   "ml.eia1.medium",
		DataPrefix:        "caltech_example",
	}
}

// Hyperparameters of the image classification algorithm.
type Hyperparameters struct {
	NumLayers          int     `hp:"num_layers"`
	ImageShape         string  `hp:"image_shape"`
	NumClasses         int     `hp:"num_classes"`
	NumTrainingSamples int     `hp:"num_training_samples"`
	MiniBatchSize      int     `hp:"mini_batch_size"`
	Epochs             int     `hp:"epochs"`
	LearningRate       float64 `hp:"learning_rate"`
	TopK               int     `hp:"top_k"`
}

// Variants returns the hyperparameters of the two trained models. They
// differ only in epochs and learning rate.
func Variants() [2]Hyperparameters {
	first := Hyperparameters{
		NumLayers:          18,
		ImageShape:         "3,224,224",
		NumClasses:         257,
		NumTrainingSamples: 15420,
		MiniBatchSize:      256,
		Epochs:             10,
		LearningRate:       0.1,
		TopK:               2,
	}
	second := first
	second.Epochs = 15
	second.LearningRate = 0.05
	return [2]Hyperparameters{first, second}
}

// Module registers the pipeline in the catalog.
type Module struct{}

// Register implements pipeline.Module.
func (m *Module) Register(c *pipeline.Catalog) {
	c.Register(New(DefaultConfig()))
}

// New returns the pipeline definition for cfg.
func New(cfg Config) *pipeline.Definition {
	_, source, _, _ := runtime.Caller(0)
	return &pipeline.Definition{
		Name:        Name,
		DisplayName: DisplayName,
		Description: Description,
		Source:      source,
		Parameters: []pipeline.Parameter{
			{Name: pipeline.ParamRoleARN, Default: ""},
			{Name: pipeline.ParamBucketName, Default: ""},
		},
		Assemble: func(ctx context.Context, g *graph.Graph) error {
			return assemble(ctx, g, cfg)
		},
	}
}

func assemble(ctx context.Context, g *graph.Graph, cfg Config) error {
	role := g.Param(pipeline.ParamRoleARN)
	bucket := g.Param(pipeline.ParamBucketName)

	channels := []sagemaker.Channel{
		sagemaker.RecordIOTrainingInput("train", sagemaker.S3URI(bucket, cfg.DataPrefix+"/train")),
		sagemaker.RecordIOTrainingInput("validation", sagemaker.S3URI(bucket, cfg.DataPrefix+"/validation")),
	}
	outputLocation := sagemaker.S3URI(bucket, cfg.DataPrefix+"/output")

	var models [2]*graph.Node
	for i, hp := range Variants() {
		hyperparameters, err := sagemaker.EncodeHyperparameters(hp)
		if err != nil {
			return err
		}

		training, err := g.Add(ctx, pipeline.ComponentTrain, graph.Args{
			"region":              cfg.Region,
			"image":               cfg.TrainImage,
			"volume_size":         cfg.VolumeSize,
			"max_run_time":        cfg.MaxRunTime,
			"training_input_mode": cfg.TrainingInputMode,
			"hyperparameters":     hyperparameters,
			"channels":            channels,
			"instance_type":       cfg.InstanceType,
			"model_artifact_path": outputLocation,
			"role":                role,
		})
		if err != nil {
			return fmt.Errorf("training %d: %w", i+1, err)
		}

		models[i], err = pipeline.CreateModelFromTraining(ctx, g, cfg.Region, training, role)
		if err != nil {
			return fmt.Errorf("model %d: %w", i+1, err)
		}
	}

	if _, err := g.Add(ctx, pipeline.ComponentDeploy, graph.Args{
		"region":             cfg.Region,
		"model_name_1":       models[0].SoleOutput(),
		"model_name_2":       models[1].SoleOutput(),
		"accelerator_type_1": cfg.AcceleratorType,
		"accelerator_type_2": cfg.AcceleratorType,
	}); err != nil {
		return fmt.Errorf("multi-variant deploy: %w", err)
	}

	if _, err := g.Add(ctx, pipeline.ComponentDeploy, graph.Args{
		"region":       cfg.Region,
		"model_name_1": models[0].SoleOutput(),
	}); err != nil {
		return fmt.Errorf("single-variant deploy: %w", err)
	}

	return nil
}
