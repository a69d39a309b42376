package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"inventory-predict/internal/app"
)

var (
	exportInputPath string
	exportCSVPath   string
	exportPNGPath   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a forecast from a payload file and export it as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportInputPath == "" {
			return errors.New("--input is required")
		}

		opts := app.ExportOptions{
			InputPath: exportInputPath,
			CSVPath:   exportCSVPath,
			PNGPath:   exportPNGPath,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportInputPath, "input", "", "Path to a forecast request JSON file")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
}
