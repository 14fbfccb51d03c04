package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rail44/userlist/internal/listview"
	"github.com/rail44/userlist/internal/log"
	"github.com/rail44/userlist/internal/store"
	"github.com/rail44/userlist/internal/users"
)

var (
	listSearch string
	listOrder  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the filtered and sorted users",
	Long: `List fetches the users once and prints the numbered "name - email" rows.

Without --search the remembered search term is applied. With --search the
given term is applied and remembered, just as if it had been typed in the TUI.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		order, err := listview.ParseSortOrder(listOrder)
		if err != nil {
			log.Error("invalid --order", slog.String("error", err.Error()))
			os.Exit(1)
		}

		st, err := openStore(cfg)
		if err != nil {
			log.Error("failed to open store", slog.String("error", err.Error()))
			os.Exit(1)
		}

		term, err := searchTerm(cmd, st)
		if err != nil {
			log.Error("failed to access store", slog.String("error", err.Error()))
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		list, err := newUsersClient(cfg, log.Logger()).Fetch(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: "+users.FormatFetchError(err))
			stop()
			os.Exit(1)
		}

		for _, line := range listview.Lines(listview.Derive(list, term, order)) {
			fmt.Println(line)
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by name and remember the term")
	listCmd.Flags().StringVar(&listOrder, "order", string(listview.Ascending), "sort order: asc or desc")
	rootCmd.AddCommand(listCmd)
}

func searchTerm(cmd *cobra.Command, st store.Store) (string, error) {
	if cmd.Flags().Changed("search") {
		if err := st.Set(store.PastSearchTermKey, listSearch); err != nil {
			return "", err
		}
		return listSearch, nil
	}
	term, _, err := st.Get(store.PastSearchTermKey)
	return term, err
}
