package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"odds-forecaster/internal/app"
)

var (
	historyLimit  int
	historyFromDB bool
	clearConfirm  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display stored forecasts grouped by date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		return getApp().History(cmd.Context(), app.HistoryOptions{
			Limit:  historyLimit,
			FromDB: historyFromDB,
		})
	},
}

var clearHistoryCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Permanently delete the history file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ClearHistory(clearConfirm)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of forecast dates to display")
	historyCmd.Flags().BoolVar(&historyFromDB, "from-db", false, "List the PostgreSQL mirror instead of the history file")
	clearHistoryCmd.Flags().BoolVar(&clearConfirm, "yes", false, "Confirm the deletion")
}
