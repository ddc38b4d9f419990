package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/swagger2cli/internal/cli"
	"github.com/mark3labs/swagger2cli/internal/tree"
)

func main() {
	// Without this the Go runtime re-raises SIGPIPE for stdout writes and the
	// process dies before the EPIPE handling in the output path can run.
	signal.Ignore(syscall.SIGPIPE)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path := cli.TreePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load command tree %s: %w", path, err)
	}
	t, err := tree.Load(data)
	if err != nil {
		return err
	}
	return cli.NewAPIRootCmd(t).Execute()
}
