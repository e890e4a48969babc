package lint_test

import (
	"testing"

	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/lint"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/specialistvlad/sagegrid/internal/testutil"
	"github.com/specialistvlad/sagegrid/pipelines/xgbdebug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestCheck_CleanPipeline(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := testutil.Build(t, xgbdebug.New(xgbdebug.DefaultConfig()))

	findings := lint.Check(ctx, g, map[string]string{
		"role_arn":    "arn:aws:iam::123456789012:role/SageMakerRole",
		"bucket_name": "my-bucket",
	})
	assert.Empty(t, findings)
}

func TestCheck_ReportsBadParameters(t *testing.T) {
	ctx, logs := testutil.Context(t)
	g := testutil.Build(t, xgbdebug.New(xgbdebug.DefaultConfig()))

	findings := lint.Check(ctx, g, map[string]string{
		"role_arn":    "arn:aws:s3:::not-a-role",
		"bucket_name": "Bad_Bucket",
	})
	require.NotEmpty(t, findings)

	var messages []string
	for _, f := range findings {
		messages = append(messages, f.String())
	}
	assert.Contains(t, messages, `sagemaker-training-job.role: ARN "arn:aws:s3:::not-a-role" does not name an IAM role`)
	assert.Contains(t, messages, `sagemaker-create-model.role: ARN "arn:aws:s3:::not-a-role" does not name an IAM role`)
	assert.Contains(t, logs.String(), "Pipeline wiring check failed.")

	bucketFindings := 0
	for _, f := range findings {
		if f.Input == "model_artifact_path" {
			bucketFindings++
			assert.Contains(t, f.Message, `S3 bucket "Bad_Bucket" is not a valid bucket name`)
		}
	}
	assert.Equal(t, 1, bucketFindings)
}

func TestCheck_EmptyBucketAndNonARNRole(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := testutil.Build(t, xgbdebug.New(xgbdebug.DefaultConfig()))

	findings := lint.Check(ctx, g, map[string]string{"role_arn": "admin", "bucket_name": ""})

	var haveEmptyBucket, haveRole bool
	for _, f := range findings {
		haveEmptyBucket = haveEmptyBucket || f.Message == "S3 URI has an empty bucket name"
		haveRole = haveRole || f.Message == `role "admin" is not an ARN`
	}
	assert.True(t, haveEmptyBucket)
	assert.True(t, haveRole)
}

func TestCheck_UnresolvedParametersAreSkipped(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := testutil.Build(t, xgbdebug.New(xgbdebug.DefaultConfig()))
	assert.Empty(t, lint.Check(ctx, g, nil))
}

func TestCheck_Images(t *testing.T) {
	ctx, _ := testutil.Context(t)
	src := mapSource{"train": {
		Name:        "train",
		DisplayName: "Train",
		Kind:        model.KindTrain,
		Inputs: []model.Input{
			{Name: "image", Type: cty.String},
			{Name: "debug_rule_config", Type: cty.List(cty.DynamicPseudoType)},
		},
	}}
	g := graph.New("p", src)
	_, err := g.Add(ctx, "train", graph.Args{
		"image":             "Not A Valid Image!",
		"debug_rule_config": []map[string]string{{"RuleEvaluatorImage": "UPPER/case"}},
	})
	require.NoError(t, err)

	findings := lint.Check(ctx, g, nil)
	require.Len(t, findings, 2)
	assert.Equal(t, "image", findings[0].Input)
	assert.Contains(t, findings[0].Message, "invalid image reference")
	assert.Equal(t, "debug_rule_config", findings[1].Input)
	assert.Contains(t, findings[1].Message, "invalid rule evaluator image")
}

func TestCheck_UndeployedModel(t *testing.T) {
	src := mapSource{
		"train": {
			Name:        "train",
			DisplayName: "Train",
			Kind:        model.KindTrain,
			Outputs:     []model.Output{{Name: "job_name", Type: cty.String}},
		},
		"model": {
			Name:        "model",
			DisplayName: "Create Model",
			Kind:        model.KindCreateModel,
			Inputs:      []model.Input{{Name: "job_name", Type: cty.String}},
			Outputs:     []model.Output{{Name: "model_name", Type: cty.String}},
		},
		"deploy": {
			Name:        "deploy",
			DisplayName: "Deploy",
			Kind:        model.KindDeploy,
			Inputs:      []model.Input{{Name: "model_name", Type: cty.String}},
		},
	}

	for _, tc := range []struct {
		name   string
		deploy bool
		want   []lint.Finding
	}{
		{
			name: "model without a deploy step",
			want: []lint.Finding{{Node: "create-model", Message: "model is created but no step deploys it"}},
		},
		{
			name:   "deployed model",
			deploy: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			g := graph.New("p", src)
			train, err := g.Add(ctx, "train", nil)
			require.NoError(t, err)
			m, err := g.Add(ctx, "model", graph.Args{"job_name": train.SoleOutput()})
			require.NoError(t, err)
			if tc.deploy {
				_, err = g.Add(ctx, "deploy", graph.Args{"model_name": m.SoleOutput()})
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, lint.Check(ctx, g, nil))
		})
	}
}

type mapSource map[string]*model.Component

func (m mapSource) Lookup(name string) (*model.Component, bool) {
	c, ok := m[name]
	return c, ok
}
