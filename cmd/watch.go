package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rail44/userlist/internal/log"
	"github.com/rail44/userlist/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the remembered search term",
	Long: `Watch prints the remembered search term, then prints it again every time
another userlist session changes it. Stop with ctrl+c.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		if cfg.Ephemeral {
			log.Error("watch needs a file store; drop --ephemeral")
			os.Exit(1)
		}

		path, err := storePath(cfg)
		if err != nil {
			log.Error("failed to locate store", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := runWatch(path, cfg.Verbose); err != nil {
			log.Error("watch failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(path string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	st := store.NewFileStore(path, log.Logger())
	printTerm := func() {
		term, _, err := st.Get(store.PastSearchTermKey)
		if err != nil {
			log.Warn("failed to read store", slog.String("error", err.Error()))
			return
		}
		fmt.Printf("%s=%q\n", store.PastSearchTermKey, term)
	}

	watcher, err := store.NewWatcher(st.Path(), printTerm, log.Logger())
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if verbose {
		fmt.Printf("watching %s\n", st.Path())
	}
	printTerm()
	watcher.Start(ctx)
	return nil
}
