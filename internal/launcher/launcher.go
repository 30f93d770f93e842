// Package launcher runs a catalog locally: it hydrates the catalog content and
// then starts the local dev server, both through the package manager.
package launcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-ports/catalog-launcher/internal/catalog"
	"github.com/go-ports/catalog-launcher/internal/pipeline"
)

// Stage names.
const (
	HydrateStage   = "hydrate-content"
	DevServerStage = "dev-server"
)

// Package-manager scripts run by each stage.
const (
	hydrateScript   = "scripts:hydrate-content"
	devServerScript = "dev:local"
)

// Launcher builds and runs the hydrate → dev-server pipeline for a catalog.
type Launcher struct {
	npm    string
	runner pipeline.Runner
	logger *zap.Logger
}

// New returns a Launcher that invokes npm (the package-manager executable)
// through runner. A nil logger discards log output.
func New(npm string, runner pipeline.Runner, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{npm: npm, runner: runner, logger: logger}
}

// Stages returns the stages for lc in execution order.
func (l *Launcher) Stages(lc catalog.LaunchContext) []pipeline.Stage {
	hydrateEnv := lc.Env()
	hydrateEnv["NODE_ENV"] = "development"

	return []pipeline.Stage{
		{
			Name:    HydrateStage,
			Command: l.npm,
			Args:    []string{"run", hydrateScript},
			Env:     hydrateEnv,
			Dir:     lc.RootDir,
		},
		{
			Name:      DevServerStage,
			Command:   l.npm,
			Args:      []string{"run", devServerScript},
			Env:       lc.Env(),
			Dir:       lc.RootDir,
			DependsOn: []string{HydrateStage},
		},
	}
}

// Run hydrates the catalog and, only if that succeeds, runs the dev server in
// the foreground. The returned error is a *pipeline.StageError for the stage
// that failed; pipeline.ExitCode maps it to the exit status to report.
func (l *Launcher) Run(ctx context.Context, lc catalog.LaunchContext) error {
	p, err := pipeline.New(l.Stages(lc), pipeline.WithLogger(l.logger))
	if err != nil {
		return err
	}

	l.logger.Info("launching catalog",
		zap.String("catalog", lc.CatalogName),
		zap.String("catalog_dir", lc.RootDir),
		zap.String("project_dir", lc.ProjectDir),
	)
	return p.Run(ctx, l.runner)
}
