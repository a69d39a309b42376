package cli

import (
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect '<json>'",
	Short: "Score metric payloads for point anomalies",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Detect(cmd.Context(), args)
	},
}
