package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type mapSource map[string]*model.Component

func (m mapSource) Lookup(name string) (*model.Component, bool) {
	c, ok := m[name]
	return c, ok
}

func ptr(v cty.Value) *cty.Value { return &v }

func testSource() mapSource {
	return mapSource{
		"train": {
			Name:        "train",
			DisplayName: "Train Step",
			Kind:        model.KindTrain,
			Inputs: []model.Input{
				{Name: "region", Type: cty.String},
				{Name: "channels", Type: cty.List(cty.DynamicPseudoType)},
				{Name: "epochs", Type: cty.Number, Default: ptr(cty.NumberIntVal(1))},
				{Name: "spot", Type: cty.Bool, Default: ptr(cty.False)},
				{Name: "tags", Type: cty.Map(cty.String), Optional: true},
			},
			Outputs: []model.Output{
				{Name: "job_name", Type: cty.String},
				{Name: "artifact", Type: cty.String},
			},
		},
		"model": {
			Name:        "model",
			DisplayName: "Create Model",
			Kind:        model.KindCreateModel,
			Inputs: []model.Input{
				{Name: "job_name", Type: cty.String},
				{Name: "artifact", Type: cty.String, Default: ptr(cty.StringVal(""))},
			},
			Outputs: []model.Output{{Name: "model_name", Type: cty.String}},
		},
		"deploy": {
			Name:        "deploy",
			DisplayName: "Deploy",
			Kind:        model.KindDeploy,
			Inputs: []model.Input{
				{Name: "model_name_1", Type: cty.String},
				{Name: "model_name_2", Type: cty.String, Default: ptr(cty.StringVal(""))},
			},
			Outputs: []model.Output{{Name: "endpoint_name", Type: cty.String}},
		},
	}
}

func trainArgs(g *Graph) Args {
	return Args{
		"region":   "us-west-2",
		"channels": []string{fmt.Sprintf("s3://%s/train", g.Param("bucket"))},
	}
}

func TestAdd_SerializesArgumentsInDeclarationOrder(t *testing.T) {
	g := New("p", testSource(), "bucket")
	n, err := g.Add(context.Background(), "train", Args{
		"region":   "us-west-2",
		"channels": []string{"s3://b/train"},
		"epochs":   15,
	})
	require.NoError(t, err)

	assert.Equal(t, "train-step", n.Name)
	assert.Equal(t, model.KindTrain, n.Kind)
	assert.Equal(t, []Argument{
		{Name: "region", Value: "us-west-2"},
		{Name: "channels", Value: `["s3://b/train"]`},
		{Name: "epochs", Value: "15"},
		{Name: "spot", Value: "false", Defaulted: true},
	}, n.Arguments)

	_, ok := n.Argument("tags")
	assert.False(t, ok, "unbound optional inputs are left out")
}

func TestAdd_ScalarConversion(t *testing.T) {
	testCases := []struct {
		value any
		want  string
	}{
		{value: 50, want: "50"},
		{value: int64(360000), want: "360000"},
		{value: 0.7, want: "0.7"},
		{value: 0.05, want: "0.05"},
		{value: 0.0, want: "0"},
		{value: true, want: "true"},
		{value: "12", want: "12"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			g := New("p", testSource())
			n, err := g.Add(context.Background(), "train", Args{
				"region":   "r",
				"channels": []string{},
				"epochs":   tc.value,
			})
			if tc.value == true {
				require.ErrorIs(t, err, ErrTypeMismatch)
				return
			}
			require.NoError(t, err)
			arg, ok := n.Argument("epochs")
			require.True(t, ok)
			assert.Equal(t, tc.want, arg.Value)
		})
	}
}

func TestAdd_OrderedMapKeepsInsertionOrder(t *testing.T) {
	tags := orderedmap.New()
	tags.Set("zeta", "1")
	tags.Set("alpha", "2")

	g := New("p", testSource())
	n, err := g.Add(context.Background(), "train", Args{"region": "r", "channels": []string{}, "tags": tags})
	require.NoError(t, err)

	arg, ok := n.Argument("tags")
	require.True(t, ok)
	assert.Equal(t, `{"zeta":"1","alpha":"2"}`, arg.Value)
}

func TestAdd_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		component string
		args      func(g *Graph, train *Node) Args
		wantErr   error
		contains  string
	}{
		{
			name:      "unknown component",
			component: "evaluate",
			args:      func(*Graph, *Node) Args { return nil },
			wantErr:   ErrUnknownComponent,
		},
		{
			name:      "unknown input",
			component: "model",
			args: func(_ *Graph, train *Node) Args {
				return Args{"job_name": train.Output("job_name"), "colour": "red"}
			},
			wantErr:  ErrUnknownInput,
			contains: "colour",
		},
		{
			name:      "missing input",
			component: "model",
			args:      func(*Graph, *Node) Args { return Args{} },
			wantErr:   ErrMissingInput,
			contains:  "job_name",
		},
		{
			name:      "nil counts as unbound",
			component: "model",
			args:      func(*Graph, *Node) Args { return Args{"job_name": nil} },
			wantErr:   ErrMissingInput,
		},
		{
			name:      "nil parameter pointer counts as unbound",
			component: "model",
			args:      func(*Graph, *Node) Args { return Args{"job_name": (*PipelineParam)(nil)} },
			wantErr:   ErrMissingInput,
			contains:  "job_name",
		},
		{
			name:      "type mismatch",
			component: "train",
			args: func(*Graph, *Node) Args {
				return Args{"region": "r", "channels": "not a list"}
			},
			wantErr:  ErrTypeMismatch,
			contains: "channels",
		},
		{
			name:      "reference to a node that does not exist",
			component: "model",
			args: func(*Graph, *Node) Args {
				return Args{"job_name": PipelineParam{Op: "later", Name: "job_name"}}
			},
			wantErr:  ErrUnknownReference,
			contains: "does not exist yet",
		},
		{
			name:      "reference to an undeclared output",
			component: "model",
			args: func(_ *Graph, train *Node) Args {
				return Args{"job_name": train.Output("nope")}
			},
			wantErr:  ErrUnknownReference,
			contains: "has no output 'nope'",
		},
		{
			name:      "ambiguous sole output",
			component: "model",
			args: func(_ *Graph, train *Node) Args {
				return Args{"job_name": train.SoleOutput()}
			},
			wantErr:  ErrUnknownReference,
			contains: "has 2 outputs",
		},
		{
			name:      "undeclared pipeline parameter",
			component: "model",
			args: func(g *Graph, _ *Node) Args {
				return Args{"job_name": fmt.Sprintf("prefix-%s", g.Param("role"))}
			},
			wantErr:  ErrUnknownParam,
			contains: "'role'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New("p", testSource(), "bucket")
			train, err := g.Add(context.Background(), "train", trainArgs(g))
			require.NoError(t, err)

			_, err = g.Add(context.Background(), tc.component, tc.args(g, train))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.contains != "" {
				assert.ErrorContains(t, err, tc.contains)
			}
			assert.Len(t, g.Nodes(), 1, "a failed Add leaves the graph unchanged")
		})
	}
}

func TestAdd_NilPointersFallBackToDefaults(t *testing.T) {
	var noParam *PipelineParam
	var noTags *map[string]string

	g := New("p", testSource(), "bucket")
	n, err := g.Add(context.Background(), "train", Args{
		"region":   "us-west-2",
		"channels": []string{},
		"epochs":   noParam,
		"tags":     noTags,
	})
	require.NoError(t, err)

	epochs, ok := n.Argument("epochs")
	require.True(t, ok)
	assert.Equal(t, Argument{Name: "epochs", Value: "1", Defaulted: true}, epochs)

	_, ok = n.Argument("tags")
	assert.False(t, ok, "an optional input bound to a nil pointer is left out")
	assert.Empty(t, n.Refs)
}

func TestAdd_WiresDependencies(t *testing.T) {
	ctx := context.Background()
	g := New("p", testSource(), "bucket")

	train1, err := g.Add(ctx, "train", trainArgs(g))
	require.NoError(t, err)
	train2, err := g.Add(ctx, "train", trainArgs(g))
	require.NoError(t, err)
	assert.Equal(t, "train-step", train1.Name)
	assert.Equal(t, "train-step-2", train2.Name)
	assert.Equal(t, []PipelineParam{{Name: "bucket"}}, train1.Refs)

	model1, err := g.Add(ctx, "model", Args{"job_name": train1.Output("job_name"), "artifact": train1.Output("artifact")})
	require.NoError(t, err)
	model2, err := g.Add(ctx, "model", Args{"job_name": train2.Output("job_name")})
	require.NoError(t, err)

	deploy1, err := g.Add(ctx, "deploy", Args{"model_name_1": model1.SoleOutput(), "model_name_2": model2.SoleOutput()})
	require.NoError(t, err)
	deploy2, err := g.Add(ctx, "deploy", Args{"model_name_1": model1.SoleOutput()})
	require.NoError(t, err)

	arg, _ := deploy1.Argument("model_name_1")
	assert.Equal(t, "{{pipelineparam:op=create-model;name=model_name}}", arg.Value)
	assert.Equal(t, []string{"create-model"}, deploy2.Upstream())

	deps, err := g.Dependencies(deploy1.Name)
	require.NoError(t, err)
	assert.Equal(t, []*Node{model1, model2}, deps)

	deps, err = g.Dependencies(deploy2.Name)
	require.NoError(t, err)
	assert.Equal(t, []*Node{model1}, deps)

	dependents, err := g.Dependents(model1.Name)
	require.NoError(t, err)
	assert.Equal(t, []*Node{deploy1, deploy2}, dependents)

	_, err = g.Dependencies("missing")
	assert.Error(t, err)

	assert.Equal(t, []*Node{deploy1, deploy2}, g.NodesOfKind(model.KindDeploy))
	assert.Len(t, g.NodesOfKind(model.KindTrain), 2)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), order)

	got, ok := g.Node("deploy-2")
	require.True(t, ok)
	assert.Same(t, deploy2, got)

	assert.Equal(t, []*Node{train1, train2}, g.Roots())
	assert.Equal(t, []*Node{deploy1, deploy2}, g.Leaves())

	assert.NoError(t, g.Validate())
	assert.Equal(t, []string{"bucket"}, g.Params())
	assert.Equal(t, "p", g.Name())
}

func TestAdd_EmbeddedPlaceholderInStructuredValue(t *testing.T) {
	ctx := context.Background()
	g := New("p", testSource(), "bucket")
	train, err := g.Add(ctx, "train", trainArgs(g))
	require.NoError(t, err)

	type channel struct {
		Name string `json:"ChannelName"`
		URI  string `json:"S3Uri"`
	}
	n, err := g.Add(ctx, "train", Args{
		"region":   "r",
		"channels": []channel{{Name: "train", URI: fmt.Sprintf("%s/more", train.Output("artifact"))}},
	})
	require.NoError(t, err)

	arg, _ := n.Argument("channels")
	assert.Equal(t, `[{"ChannelName":"train","S3Uri":"{{pipelineparam:op=train-step;name=artifact}}/more"}]`, arg.Value)
	assert.Equal(t, []string{"train-step"}, n.Upstream())
}

func TestValidate_Empty(t *testing.T) {
	assert.ErrorContains(t, New("empty", testSource()).Validate(), "has no nodes")
}

func TestPlaceholders(t *testing.T) {
	s := "s3://{{pipelineparam:op=;name=bucket_name}}/a/{{pipelineparam:op=train;name=job_name}}/{{pipelineparam:op=;name=bucket_name}}"
	assert.Equal(t, []PipelineParam{
		{Name: "bucket_name"},
		{Op: "train", Name: "job_name"},
	}, Placeholders(s))
	assert.Nil(t, Placeholders("plain"))
}

func TestSubstitute(t *testing.T) {
	s := "s3://{{pipelineparam:op=;name=bucket_name}}/x/{{pipelineparam:op=train;name=bucket_name}}/{{pipelineparam:op=;name=role_arn}}"
	got := Substitute(s, map[string]string{"bucket_name": "my-bucket"})
	assert.Equal(t, "s3://my-bucket/x/{{pipelineparam:op=train;name=bucket_name}}/{{pipelineparam:op=;name=role_arn}}", got)
}

func TestPipelineParam(t *testing.T) {
	p := PipelineParam{Name: "role_arn"}
	assert.True(t, p.IsParam())
	assert.Equal(t, "role_arn", p.FullName())
	assert.Equal(t, "{{pipelineparam:op=;name=role_arn}}", p.String())

	out := PipelineParam{Op: "train", Name: "job_name"}
	assert.False(t, out.IsParam())
	assert.Equal(t, "train-job_name", out.FullName())

	assert.True(t, isSolePlaceholder(out.String()))
	assert.False(t, isSolePlaceholder("x"+out.String()))
}
