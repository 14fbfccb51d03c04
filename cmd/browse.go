package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rail44/userlist/internal/listview"
	"github.com/rail44/userlist/internal/log"
	"github.com/rail44/userlist/internal/ui"
	"github.com/rail44/userlist/internal/users"
)

var (
	plain       bool
	browseOrder string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive user list",
	Long: `Browse fetches the users once and shows them in a terminal UI.
Type to filter by name, press tab to flip the sort order, esc to quit.

When stdout is not a terminal, or --plain is given, the list is printed once instead.`,
	Args: cobra.NoArgs,
	Run:  runBrowse,
}

func init() {
	registerBrowseFlags(browseCmd)
	rootCmd.AddCommand(browseCmd)
}

func registerBrowseFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list once instead of starting the TUI")
	cmd.Flags().StringVar(&browseOrder, "order", string(listview.Ascending), "initial sort order: asc or desc")
}

func runBrowse(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	cfg.Plain = plain

	st, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	order, err := listview.ParseSortOrder(browseOrder)
	if err != nil {
		log.Error("invalid --order", slog.String("error", err.Error()))
		os.Exit(1)
	}

	program := ui.NewProgram(ui.ProgramOptions{
		NewFetcher: func(logger *slog.Logger) users.Fetcher {
			return newUsersClient(cfg, logger)
		},
		Store:     st,
		SortOrder: order,
		Plain:     cfg.Plain,
		Verbose:   cfg.Verbose,
		LogLevel:  log.GetCurrentLevel(),
		Logger:    log.Logger(),
	})
	if program.IsTUIEnabled() {
		silenceStderrLogs(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := program.Run(ctx); err != nil {
		if !errors.Is(err, ui.ErrFetchFailed) {
			log.Error("user list failed", slog.String("error", err.Error()))
		}
		stop()
		os.Exit(1)
	}
}
