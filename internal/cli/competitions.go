package cli

import (
	"github.com/spf13/cobra"
)

var competitionsCmd = &cobra.Command{
	Use:   "competitions",
	Short: "List configured competitions by region",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Competitions()
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Check which competitions currently have matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Active(cmd.Context())
	},
}
