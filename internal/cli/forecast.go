package cli

import (
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast '<json>'",
	Short: "Forecast demand from sales history",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Forecast(cmd.Context(), args)
	},
}
