// Tests run the root command in-process. Output is captured via cobra's
// SetOut/SetErr and stages go to a recording runner, so nothing is spawned.
package rootcmd_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"gopkg.in/yaml.v3"

	rootcmd "github.com/go-ports/catalog-launcher/cmd/start-catalog/root"
	"github.com/go-ports/catalog-launcher/internal/launcher"
	"github.com/go-ports/catalog-launcher/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type recordingRunner struct {
	fail   map[string]error
	stages []pipeline.Stage
}

func (r *recordingRunner) Run(_ context.Context, stage pipeline.Stage) error {
	r.stages = append(r.stages, stage)
	return r.fail[stage.Name]
}

// setupEnv points the launcher at a fresh root and clears the other settings.
func setupEnv(c *qt.C) string {
	root := c.TempDir()
	c.Setenv("CATALOG_LAUNCHER_ROOT", root)
	for _, key := range []string{
		"CATALOG_LAUNCHER_NPM",
		"CATALOG_LAUNCHER_LOG_LEVEL",
		"CATALOG_LAUNCHER_LOG_FORMAT",
		"CATALOG_LAUNCHER_DRY_RUN",
	} {
		c.Setenv(key, "")
		os.Unsetenv(key)
	}
	return root
}

// runCmd executes the root command with args and returns stdout, stderr and
// the execution error.
func runCmd(runner pipeline.Runner, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	root := rootcmd.New(runner)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// ---------------------------------------------------------------------------
// Help
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	runner := &recordingRunner{}
	out, _, err := runCmd(runner, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "start-catalog [catalog]")
	c.Assert(out, qt.Contains, "CATALOG_LAUNCHER_ROOT")
	c.Assert(runner.stages, qt.HasLen, 0)
}

// ---------------------------------------------------------------------------
// Launch
// ---------------------------------------------------------------------------

func TestLaunch_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("no argument launches the default catalog", func(c *qt.C) {
		root := setupEnv(c)
		runner := &recordingRunner{}

		_, stderr, err := runCmd(runner)
		c.Assert(err, qt.IsNil)
		c.Assert(runner.stages, qt.HasLen, 2)
		c.Assert(runner.stages[0].Env["PROJECT_DIR"], qt.Equals, filepath.Join(root, "examples", "default"))
		c.Assert(runner.stages[0].Env["CATALOG_DIR"], qt.Equals, root)
		c.Assert(stderr, qt.Contains, "launching catalog")
	})

	c.Run("named catalog", func(c *qt.C) {
		root := setupEnv(c)
		runner := &recordingRunner{}

		_, _, err := runCmd(runner, "acme")
		c.Assert(err, qt.IsNil)
		for _, s := range runner.stages {
			c.Assert(s.Env["PROJECT_DIR"], qt.Equals, filepath.Join(root, "examples", "acme"))
			c.Assert(s.Dir, qt.Equals, root)
		}
	})

	c.Run("catalog names starting with a dash follow --", func(c *qt.C) {
		root := setupEnv(c)
		runner := &recordingRunner{}

		_, _, err := runCmd(runner, "--", "-beta")
		c.Assert(err, qt.IsNil)
		c.Assert(runner.stages[0].Env["PROJECT_DIR"], qt.Equals, filepath.Join(root, "examples", "-beta"))
	})

	c.Run("alternate package manager", func(c *qt.C) {
		setupEnv(c)
		c.Setenv("CATALOG_LAUNCHER_NPM", "pnpm")
		runner := &recordingRunner{}

		_, _, err := runCmd(runner)
		c.Assert(err, qt.IsNil)
		c.Assert(runner.stages[0].Command, qt.Equals, "pnpm")
		c.Assert(runner.stages[1].Command, qt.Equals, "pnpm")
	})
}

func TestLaunch_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("hydration failure stops before the dev server", func(c *qt.C) {
		setupEnv(c)
		runner := &recordingRunner{fail: map[string]error{launcher.HydrateStage: errors.New("exit status 1")}}

		_, _, err := runCmd(runner)
		c.Assert(err, qt.ErrorMatches, "stage hydrate-content: exit status 1")
		c.Assert(pipeline.ExitCode(err), qt.Equals, 1)
		c.Assert(runner.stages, qt.HasLen, 1)
	})

	c.Run("more than one argument is rejected", func(c *qt.C) {
		setupEnv(c)
		runner := &recordingRunner{}

		_, _, err := runCmd(runner, "acme", "beta")
		c.Assert(err, qt.IsNotNil)
		c.Assert(runner.stages, qt.HasLen, 0)
	})

	c.Run("bad log level is reported before anything runs", func(c *qt.C) {
		setupEnv(c)
		c.Setenv("CATALOG_LAUNCHER_LOG_LEVEL", "chatty")
		runner := &recordingRunner{}

		_, _, err := runCmd(runner)
		c.Assert(err, qt.ErrorMatches, "logging: .*")
		c.Assert(runner.stages, qt.HasLen, 0)
	})
}

// ---------------------------------------------------------------------------
// Dry run
// ---------------------------------------------------------------------------

func TestDryRun_HappyPath(t *testing.T) {
	c := qt.New(t)

	root := setupEnv(c)
	c.Setenv("CATALOG_LAUNCHER_DRY_RUN", "true")
	runner := &recordingRunner{}

	out, _, err := runCmd(runner, "acme")
	c.Assert(err, qt.IsNil)
	c.Assert(runner.stages, qt.HasLen, 0)

	var plan launcher.Plan
	c.Assert(yaml.Unmarshal([]byte(out), &plan), qt.IsNil)
	c.Assert(plan.Catalog, qt.Equals, "acme")
	c.Assert(plan.CatalogDir, qt.Equals, root)
	c.Assert(plan.ProjectDir, qt.Equals, filepath.Join(root, "examples", "acme"))
	c.Assert(plan.Stages, qt.HasLen, 2)
	c.Assert(plan.Stages[0].Command, qt.DeepEquals, []string{"npm", "run", "scripts:hydrate-content"})
	c.Assert(plan.Stages[0].Env["NODE_ENV"], qt.Equals, "development")
	c.Assert(plan.Stages[1].Command, qt.DeepEquals, []string{"npm", "run", "dev:local"})
	c.Assert(plan.Stages[1].DependsOn, qt.DeepEquals, []string{"hydrate-content"})
}
