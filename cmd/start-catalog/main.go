package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rootcmd "github.com/go-ports/catalog-launcher/cmd/start-catalog/root"
	"github.com/go-ports/catalog-launcher/internal/pipeline"
)

func main() {
	os.Exit(run())
}

// run executes the command and returns the exit code of the last stage that ran.
func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootcmd.New(pipeline.NewExecRunner()).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return pipeline.ExitCode(err)
}
