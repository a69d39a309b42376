package cli

import (
	"github.com/spf13/cobra"

	"inventory-predict/internal/app"
)

var (
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display recent persisted prediction runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ShowOptions{
			Limit: getApp().Config.ResolveLimit(showLimit),
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Number of runs to display (defaults to config)")
}
