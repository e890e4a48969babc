package registry

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/specialistvlad/sagegrid/components"
	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/fsutil"
	"github.com/specialistvlad/sagegrid/internal/kfpyaml"
	"github.com/specialistvlad/sagegrid/internal/model"
)

// LoadFS parses every .hcl, .yaml and .yml manifest below the root of fsys
// and registers the components they define.
func (r *Registry) LoadFS(ctx context.Context, fsys fs.FS) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading component manifests...")

	filePaths, err := fsutil.FindFilesByExtension(fsys, ".", ".hcl", ".yaml", ".yml")
	if err != nil {
		logger.Error("Failed to walk components directory", "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No component manifests found")
		return nil
	}

	logger.Debug("Found manifests to load", "files", filePaths)

	for _, filePath := range filePaths {
		src, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("failed to read manifest %s: %w", filePath, err)
		}

		var parsed []*model.Component
		switch path.Ext(filePath) {
		case ".hcl":
			parsed, err = model.ParseComponentSource(ctx, src, filePath)
		default:
			var c *model.Component
			c, err = kfpyaml.Parse(ctx, src, filePath)
			parsed = []*model.Component{c}
		}
		if err != nil {
			return err
		}

		for _, c := range parsed {
			if err := r.Register(c); err != nil {
				return err
			}
		}
		logger.Debug("Successfully loaded components from manifest", "file", filePath, "count", len(parsed))
	}

	logger.Info("Registry loaded successfully.", "components_loaded", r.Len())
	return nil
}

// LoadDir is LoadFS over a directory on disk.
func (r *Registry) LoadDir(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("components directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("components directory: %s is not a directory", dir)
	}
	return r.LoadFS(ctx, os.DirFS(dir))
}

// Default returns a validated registry holding the manifests embedded in the
// binary.
func Default(ctx context.Context) (*Registry, error) {
	r := New()
	if err := r.LoadFS(ctx, components.FS); err != nil {
		return nil, fmt.Errorf("loading embedded components: %w", err)
	}
	if err := r.Validate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
