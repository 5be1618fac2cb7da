package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zirconconsole/zircon/internal/presentation"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the console history",
	Long: `Print stored console input as JSON, oldest first.

History is read from the database named by history.path in the config.

Examples:
  # The last 20 entries
  zircon history

  # Everything
  zircon history --limit 0

  # Delete every entry
  zircon history --clear

  # Parse specific fields with jq
  zircon history | jq -r '.[].source'`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in %s", configPath)
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if historyClear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "History cleared")
		return nil
	}

	entries, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	return formatter.FormatHistory(presentation.FromHistoryEntries(entries))
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every stored entry")
	rootCmd.AddCommand(historyCmd)
}
