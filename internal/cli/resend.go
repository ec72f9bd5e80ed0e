package cli

import (
	"github.com/spf13/cobra"
)

var resendCmd = &cobra.Command{
	Use:   "resend-latest",
	Short: "Send the most recent stored picks to the alert channel again",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ResendLatest(cmd.Context())
	},
}
