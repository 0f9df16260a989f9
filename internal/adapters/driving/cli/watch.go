package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperchat-io/paperchat/internal/core/services"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a spool directory and ingest dropped files",
	Long: `Watches a directory and automatically ingests supported files
dropped into it. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default: ~/.paperchat/spool)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	dir := watchDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".paperchat", "spool")
	}

	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	watcher, err := services.NewSpoolWatcher(retrievalService, userID, dir, 0)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	cmd.Printf("Watching %s, press Ctrl-C to stop\n", dir)
	if err := watcher.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
