package cli

import (
	"github.com/spf13/cobra"
)

var stockoutCmd = &cobra.Command{
	Use:   "stockout-risk '<json>'",
	Short: "Assess stockout risk from an inventory snapshot",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().AssessRisk(cmd.Context(), args)
	},
}
