package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/codeflow-sentinel/pipesim/internal/ctxlog"
	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
	"github.com/codeflow-sentinel/pipesim/internal/server"
)

// Run executes the selected mode: the HTTP API server, or a single
// simulation whose JSON result goes to the configured output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.Serve {
		return server.New(a.logger, a.runner).ListenAndServe(ctx, a.config.Port)
	}
	return a.runOnce(ctx)
}

func (a *App) runOnce(ctx context.Context) error {
	cfg, err := pipeline.Load(a.config.PipelinePath)
	if err != nil {
		return err
	}
	a.logger.Info("simulating pipeline", "pipeline", cfg.ID, "stages", len(cfg.Stages))

	result := a.runner.ExecutePipeline(ctx, cfg)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	out = append(out, '\n')

	if a.config.OutPath != "" {
		if err := os.WriteFile(a.config.OutPath, out, 0o644); err != nil {
			return fmt.Errorf("writing result file: %w", err)
		}
	} else if _, err := a.outW.Write(out); err != nil {
		return err
	}

	if result.Status == pipeline.RunFailed {
		return fmt.Errorf("pipeline %q finished with status %s", cfg.ID, result.Status)
	}
	return nil
}
