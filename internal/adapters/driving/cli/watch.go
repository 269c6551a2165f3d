package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docask-cli/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest dropped PDFs",
	Long: `Watches a drop folder and ingests every PDF copied into it. The
directory argument overrides the watch.dir config value. Runs until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a dropped file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured; set azure and qdrant in the config")
	}

	dir := cfg.Watch.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory given and watch.dir not set in the config")
	}

	w, err := watcher.New(dir, ingestService, watcher.WithDebounce(watchDebounce))
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", dir)
	return w.Run(cmd.Context())
}
