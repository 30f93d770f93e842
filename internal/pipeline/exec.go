package pipeline

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"
)

// DefaultWaitDelay is how long a cancelled stage may take to exit after it
// has been interrupted before it is killed.
const DefaultWaitDelay = 10 * time.Second

// ExecRunner runs stages as child processes connected to the given streams.
type ExecRunner struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	WaitDelay time.Duration
}

// NewExecRunner returns an ExecRunner wired to the process's own standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		WaitDelay: DefaultWaitDelay,
	}
}

// Run starts the stage and waits for it to exit. Cancelling ctx interrupts
// the child; Run still returns only once the child is gone.
func (r *ExecRunner) Run(ctx context.Context, stage Stage) error {
	cmd := exec.CommandContext(ctx, stage.Command, stage.Args...) // #nosec G204 -- stages are built by the launcher, not from user input
	cmd.Dir = stage.Dir
	cmd.Env = append(os.Environ(), environ(stage.Env)...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = r.WaitDelay
	return cmd.Run()
}

// environ renders env as sorted KEY=value pairs.
func environ(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
