package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/specialistvlad/sagegrid/internal/compiler"
	"github.com/specialistvlad/sagegrid/internal/ctxlog"
)

// Run executes the main application logic: it either lists the catalog or
// compiles every selected pipeline into its archive.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.List {
		return a.list()
	}

	defs, err := a.catalog.Resolve(a.config.Pipelines...)
	if err != nil {
		return err
	}
	a.logger.Debug("Pipelines selected.", "count", len(defs))

	opts := compiler.Options{
		OutDir:   a.config.OutDir,
		Output:   a.config.Output,
		Defaults: a.config.Defaults,
		Strict:   a.config.Strict,
	}

	archives := make([]string, 0, len(defs))
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := compiler.Compile(ctx, def, a.registry, opts)
		if err != nil {
			return fmt.Errorf("compilation failed: %w", err)
		}
		archives = append(archives, path)
	}

	a.logger.Info("All pipelines compiled.", "count", len(archives), "archives", archives)
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) list() error {
	w := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tPARAMETERS\tARCHIVE")
	for _, name := range a.catalog.Names() {
		def, _ := a.catalog.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", def.Name, def.DisplayName, def.ParamNames(), def.ArchiveName())
	}
	return w.Flush()
}
