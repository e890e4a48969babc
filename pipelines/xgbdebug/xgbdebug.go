// Package xgbdebug trains XGBoost with deliberately poor hyperparameters
// under SageMaker Debugger, so that the configured rules fire, then packages
// and deploys the resulting model.
package xgbdebug

import (
	"context"
	"fmt"
	"runtime"

	"github.com/iancoleman/orderedmap"
	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/internal/sagemaker"
)

const (
	Name        = "xgbdebug"
	DisplayName = "XGBoost Training Pipeline with bad hyperparameters"
	Description = "SageMaker training job test with debugger"
)

// Config holds the fixed settings of the pipeline.
type Config struct {
	Region       string
	TrainImage   string
	InstanceType string
	// DataPrefix is the key prefix under the bucket for input data, model
	// artifacts and debugger output.
	DataPrefix string
}

// DefaultConfig returns the settings the pipeline is published with.
func DefaultConfig() Config {
	return Config{
		Region:       "us-west-2",
		TrainImage:   "246618743249.dkr.ecr.us-west-2.amazonaws.com/sagemaker-xgboost:0.90-2-cpu-py3",
		InstanceType: "ml.m5.2xlarge",
		DataPrefix:   "mnist_kmeans_example",
	}
}

// Hyperparameters of the XGBoost algorithm.
type Hyperparameters struct {
	MaxDepth       int     `hp:"max_depth"`
	Eta            float64 `hp:"eta"`
	Gamma          float64 `hp:"gamma"`
	MinChildWeight float64 `hp:"min_child_weight"`
	Silent         int     `hp:"silent"`
	Subsample      float64 `hp:"subsample"`
	NumRound       int     `hp:"num_round"`
}

// BadHyperparameters returns a setting with a zero learning rate, so the
// loss never decreases.
func BadHyperparameters() Hyperparameters {
	return Hyperparameters{
		MaxDepth:       5,
		Eta:            0,
		Gamma:          4,
		MinChildWeight: 6,
		Silent:         0,
		Subsample:      0.7,
		NumRound:       50,
	}
}

// DebugCollections returns the tensor collections the hook saves and their
// save intervals.
func DebugCollections() *orderedmap.OrderedMap {
	return sagemaker.Collections(
		sagemaker.Collection("feature_importance", [2]string{"save_interval", "5"}),
		sagemaker.Collection("losses", [2]string{"save_interval", "10"}),
		sagemaker.Collection("average_shap", [2]string{"save_interval", "5"}),
		sagemaker.Collection("metrics", [2]string{"save_interval", "3"}),
	)
}

// DebugRules returns the rules evaluated during training.
func DebugRules() []sagemaker.DebugRuleConfig {
	return []sagemaker.DebugRuleConfig{
		sagemaker.DebugRule("LossNotDecreasing", sagemaker.StringMap(
			[2]string{"rule_to_invoke", "LossNotDecreasing"},
			[2]string{"tensor_regex", ".*"},
		)),
		sagemaker.DebugRule("Overtraining", sagemaker.StringMap(
			[2]string{"rule_to_invoke", "Overtraining"},
			[2]string{"patience_train", "10"},
			[2]string{"patience_validation", "20"},
		)),
	}
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
			{Name: pipeline.ParamBucketName, Default: "my-bucket"},
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
		sagemaker.TrainingInput("train", sagemaker.S3URI(bucket, cfg.DataPrefix+"/input/valid-data.csv"), sagemaker.ContentTypeCSV),
	}

	hyperparameters, err := sagemaker.EncodeHyperparameters(BadHyperparameters())
	if err != nil {
		return err
	}

	training, err := g.Add(ctx, pipeline.ComponentTrain, graph.Args{
		"region":              cfg.Region,
		"image":               cfg.TrainImage,
		"hyperparameters":     hyperparameters,
		"channels":            channels,
		"instance_type":       cfg.InstanceType,
		"model_artifact_path": sagemaker.S3URI(bucket, cfg.DataPrefix+"/output/model"),
		"debug_hook_config":   sagemaker.DebugHook(sagemaker.S3URI(bucket, cfg.DataPrefix+"/hook_config"), DebugCollections()),
		"debug_rule_config":   DebugRules(),
		"role":                role,
	})
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	model, err := pipeline.CreateModelFromTraining(ctx, g, cfg.Region, training, role)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}

	if _, err := g.Add(ctx, pipeline.ComponentDeploy, graph.Args{
		"region":       cfg.Region,
		"model_name_1": model.SoleOutput(),
	}); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}
	return nil
}
