package compiler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/lint"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
)

// ErrLint is returned in strict mode when wiring checks report findings.
var ErrLint = errors.New("wiring checks failed")

// Options control a single compilation.
type Options struct {
	// OutDir receives the archive when Output is empty.
	OutDir string
	// Output is an explicit archive path.
	Output string
	// Defaults override the parameter defaults recorded in the archive.
	Defaults map[string]string
	// Strict turns wiring-check findings into a compile error.
	Strict bool
}

// ArchivePath returns where the archive of def is written.
func (o Options) ArchivePath(def *pipeline.Definition) string {
	if o.Output != "" {
		return o.Output
	}
	dir := o.OutDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, def.ArchiveName())
}

// Compile assembles def against source, checks it, and writes its archive.
// It returns the archive path.
func Compile(ctx context.Context, def *pipeline.Definition, source graph.ComponentSource, opts Options) (string, error) {
	logger := ctxlog.FromContext(ctx).With("pipeline", def.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Compiling pipeline...")

	def, err := def.WithDefaults(opts.Defaults)
	if err != nil {
		return "", err
	}

	g, err := def.Build(ctx, source)
	if err != nil {
		return "", err
	}

	if findings := lint.Check(ctx, g, def.Defaults()); len(findings) > 0 && opts.Strict {
		msgs := make([]string, len(findings))
		for i, f := range findings {
			msgs[i] = f.String()
		}
		return "", fmt.Errorf("pipeline '%s': %w:\n- %s", def.Name, ErrLint, strings.Join(msgs, "\n- "))
	}

	workflow, err := Render(def, g)
	if err != nil {
		return "", fmt.Errorf("failed to render pipeline '%s': %w", def.Name, err)
	}
	logger.Debug("Workflow rendered.", "bytes", len(workflow), "node_count", len(g.Nodes()),
		"entry_steps", nodeNames(g.Roots()), "final_steps", nodeNames(g.Leaves()))

	path := opts.ArchivePath(def)
	if err := WriteArchive(path, workflow); err != nil {
		return "", fmt.Errorf("failed to write archive for pipeline '%s': %w", def.Name, err)
	}

	logger.Info("Pipeline compiled.", "archive", path)
	return path, nil
}

func nodeNames(nodes []*graph.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}
