package cli

import (
	"github.com/spf13/cobra"

	"odds-forecaster/internal/app"
)

var (
	forecastAll    bool
	forecastDryRun bool
	watchNow       bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Build today's shortlist and record it in the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Forecast(cmd.Context(), app.ForecastOptions{
			All:    forecastAll,
			DryRun: forecastDryRun,
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the forecast on the configured schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Watch(cmd.Context(), app.WatchOptions{RunImmediately: watchNow})
	},
}

func init() {
	forecastCmd.Flags().BoolVar(&forecastAll, "all", false, "Query every configured competition without probing for active ones")
	forecastCmd.Flags().BoolVar(&forecastDryRun, "dry-run", false, "Print the shortlist without saving it")
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "Run once immediately before waiting for the first slot")
}
