// Command paperchat is a document chat CLI: ingest files, search
// them semantically and ask questions answered from their content.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/paperchat-io/paperchat/internal/adapters/driving/cli"
)

func main() {
	// API keys may live in a local .env during development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
