package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/swagger2cli/internal/cli"
)

func main() {
	// Without this the Go runtime re-raises SIGPIPE for stdout writes and the
	// process dies before the EPIPE handling in the output path can run.
	signal.Ignore(syscall.SIGPIPE)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
