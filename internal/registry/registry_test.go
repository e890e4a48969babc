package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoHCL = `
component "echo" {
  kind = "deploy"
  implementation {
    image = "busybox:1.36"
    args  = ["--message", input.message]
  }
  input "message" {
    type = string
  }
}
`

const echoYAML = `
name: Echo YAML
metadata:
  annotations:
    sagegrid.io/kind: train
inputs:
- {name: message, type: String}
outputs:
- {name: out}
implementation:
  container:
    image: busybox:1.36
    args: [--message, {inputValue: message}, --out, {outputPath: out}]
`

func TestDefault_LoadsEmbeddedComponents(t *testing.T) {
	r, err := Default(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"sagemaker_deploy", "sagemaker_model", "sagemaker_train"}, r.Names())

	train, ok := r.Lookup("sagemaker_train")
	require.True(t, ok)
	assert.Equal(t, model.KindTrain, train.Kind)
	assert.Equal(t, "SageMaker - Training Job", train.DisplayName)
	for _, out := range []string{"model_artifact_url", "job_name", "training_image"} {
		_, ok := train.Output(out)
		assert.True(t, ok, out)
	}

	createModel, ok := r.Lookup("sagemaker_model")
	require.True(t, ok)
	assert.Equal(t, model.KindCreateModel, createModel.Kind)
	_, ok = createModel.Output("model_name")
	assert.True(t, ok)

	deploy, ok := r.Lookup("sagemaker_deploy")
	require.True(t, ok)
	assert.Equal(t, model.KindDeploy, deploy.Kind)
	_, ok = deploy.Output("endpoint_name")
	assert.True(t, ok)
	for _, in := range []string{"model_name_1", "model_name_2", "accelerator_type_1", "endpoint_config_tags"} {
		_, ok := deploy.Input(in)
		assert.True(t, ok, in)
	}
}

func TestLoadFS_MixedFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"echo.hcl":                      {Data: []byte(echoHCL)},
		"yaml/echo_yaml/component.yaml": {Data: []byte(echoYAML)},
		"README.md":                     {Data: []byte("ignored")},
	}

	r := New()
	require.NoError(t, r.LoadFS(context.Background(), fsys))
	require.NoError(t, r.Validate(context.Background()))
	assert.Equal(t, []string{"echo", "echo_yaml"}, r.Names())

	c, ok := r.Lookup("echo_yaml")
	require.True(t, ok)
	assert.Equal(t, "Echo YAML", c.DisplayName)
	assert.Equal(t, "yaml/echo_yaml/component.yaml", c.FSInformation.String())
}

func TestLoadFS_Empty(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadFS(context.Background(), fstest.MapFS{}))
	assert.Equal(t, 0, r.Len())
}

func TestLoadFS_DuplicateName(t *testing.T) {
	fsys := fstest.MapFS{
		"a.hcl": {Data: []byte(echoHCL)},
		"b.hcl": {Data: []byte(echoHCL)},
	}
	err := New().LoadFS(context.Background(), fsys)
	require.Error(t, err)
	assert.ErrorContains(t, err, "component 'echo' defined in b.hcl is already registered from a.hcl")
}

func TestLoadFS_ParseError(t *testing.T) {
	fsys := fstest.MapFS{"bad.hcl": {Data: []byte(`component "x" {`)}}
	err := New().LoadFS(context.Background(), fsys)
	require.Error(t, err)
	assert.ErrorContains(t, err, "bad.hcl")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "echo.hcl"), []byte(echoHCL), 0o644))

	r := New()
	require.NoError(t, r.LoadDir(context.Background(), dir))
	_, ok := r.Lookup("echo")
	assert.True(t, ok)

	assert.Error(t, New().LoadDir(context.Background(), filepath.Join(dir, "missing")))
	assert.ErrorContains(t, New().LoadDir(context.Background(), filepath.Join(dir, "echo.hcl")), "is not a directory")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		component   *model.Component
		errContains string
	}{
		{
			name: "valid",
			component: &model.Component{
				Name:           "ok",
				Kind:           model.KindTrain,
				Implementation: model.Implementation{Image: "amazon/aws-sagemaker-kfp-components:0.3.1"},
			},
		},
		{
			name: "unknown kind",
			component: &model.Component{
				Name:           "nokind",
				Implementation: model.Implementation{Image: "busybox"},
			},
			errContains: "component 'nokind' (<unknown>): kind is not set",
		},
		{
			name: "bad image",
			component: &model.Component{
				Name:           "badimage",
				Kind:           model.KindDeploy,
				Implementation: model.Implementation{Image: "Not A Valid Image!"},
			},
			errContains: "invalid image",
		},
		{
			name: "undeclared input",
			component: &model.Component{
				Name: "undeclared",
				Kind: model.KindDeploy,
				Implementation: model.Implementation{
					Image: "busybox",
					Args:  []model.ArgSpec{model.InputValue("missing")},
				},
			},
			errContains: "argument input.missing refers to an undeclared input",
		},
		{
			name: "undeclared output",
			component: &model.Component{
				Name: "undeclared",
				Kind: model.KindDeploy,
				Implementation: model.Implementation{
					Image: "busybox",
					Args:  []model.ArgSpec{model.OutputPath("missing")},
				},
			},
			errContains: "argument output.missing refers to an undeclared output",
		},
		{
			name: "output without path",
			component: &model.Component{
				Name:           "nopath",
				Kind:           model.KindDeploy,
				Implementation: model.Implementation{Image: "busybox"},
				Outputs:        []model.Output{{Name: "x"}},
			},
			errContains: "output 'x' has no path",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			require.NoError(t, r.Register(tc.component))
			err := r.Validate(context.Background())
			if tc.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, "registry validation failed")
			assert.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestLoadDir_UpstreamManifests(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadDir(context.Background(), filepath.Join("..", "kfpyaml", "testdata")))
	require.NoError(t, r.Validate(context.Background()))

	train, ok := r.Lookup("upstream_train")
	require.True(t, ok)
	assert.Equal(t, model.KindTrain, train.Kind)

	deploy, ok := r.Lookup("upstream_deploy")
	require.True(t, ok)
	assert.Equal(t, model.KindDeploy, deploy.Kind)
}
