// Command abcctl prints ABC talent reports from an evaluation export.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/abcboard/internal/cli"
)

// Set by the linker at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString("abcctl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
