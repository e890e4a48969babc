package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/internal/registry"
	"github.com/stretchr/testify/require"
)

// Context returns a context carrying a debug-level logger that writes to
// the returned buffer.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// Registry returns the validated registry of embedded components.
func Registry(t *testing.T) *registry.Registry {
	t.Helper()
	ctx, _ := Context(t)
	reg, err := registry.Default(ctx)
	require.NoError(t, err)
	return reg
}

// Build assembles def against the embedded components.
func Build(t *testing.T, def *pipeline.Definition) *graph.Graph {
	t.Helper()
	ctx, _ := Context(t)
	g, err := def.Build(ctx, Registry(t))
	require.NoError(t, err)
	return g
}

// Arguments returns the serialized arguments of n keyed by input name.
func Arguments(n *graph.Node) map[string]string {
	out := make(map[string]string, len(n.Arguments))
	for _, a := range n.Arguments {
		out[a.Name] = a.Value
	}
	return out
}

// Names returns the names of nodes in order.
func Names(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
