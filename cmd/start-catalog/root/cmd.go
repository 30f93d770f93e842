// Package rootcmd wires the root cobra.Command for the start-catalog binary.
package rootcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/catalog-launcher/internal/buildinfo"
	"github.com/go-ports/catalog-launcher/internal/catalog"
	"github.com/go-ports/catalog-launcher/internal/config"
	"github.com/go-ports/catalog-launcher/internal/launcher"
	"github.com/go-ports/catalog-launcher/internal/logging"
	"github.com/go-ports/catalog-launcher/internal/pipeline"
)

const long = `Hydrate a catalog's content and start its local dev server.

The catalog is a directory under <root>/examples (default: "default").
Both steps run "npm run ..." in the catalog root with PROJECT_DIR and
CATALOG_DIR set; the dev server only starts if hydration succeeds.

Environment:
  CATALOG_LAUNCHER_ROOT        catalog root (default: parent of the binary's directory)
  CATALOG_LAUNCHER_NPM         package manager executable (default: npm)
  CATALOG_LAUNCHER_LOG_LEVEL   debug | info | warn | error (default: info)
  CATALOG_LAUNCHER_LOG_FORMAT  console | json (default: console)
  CATALOG_LAUNCHER_DRY_RUN     print the plan as YAML instead of running it`

// Command implements `start-catalog [catalog]`.
type Command struct {
	runner pipeline.Runner
	cmd    *cobra.Command
}

// New creates the root command. Stages are executed through runner.
func New(runner pipeline.Runner) *cobra.Command {
	c := &Command{runner: runner}
	c.cmd = &cobra.Command{
		Use:           "start-catalog [catalog]",
		Short:         "Run a catalog locally",
		Long:          long,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}
	return c.cmd
}

func (c *Command) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	root, source, err := cfg.ResolveRootDir()
	if err != nil {
		return err
	}
	logger.Debug("resolved catalog root",
		zap.String("root", root),
		zap.String("source", source),
		zap.String("version", buildinfo.Version),
		zap.String("commit", buildinfo.GitCommit),
	)

	lc, err := catalog.New(root, args)
	if err != nil {
		return err
	}

	l := launcher.New(cfg.NPM, c.runner, logger)
	if cfg.DryRun {
		b, err := yaml.Marshal(l.Plan(lc))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	}
	return l.Run(cmd.Context(), lc)
}
