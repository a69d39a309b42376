package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"inventory-predict/internal/predict/demand"
)

// Export runs the forecaster over a payload file and renders the forecast
// with its interval bounds as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	payload, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return err
	}

	var req demand.ForecastRequest
	if err := decodePayload(string(payload), &req); err != nil {
		return err
	}

	result, err := a.forecaster.Forecast(req)
	if err != nil {
		return err
	}

	a.Logger.Info().Int("steps", len(result.Forecast)).Str("trend", result.Trend).Msg("exporting forecast")

	if opts.CSVPath != "" {
		if err := writeForecastCSV(opts.CSVPath, result); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writeForecastPNG(opts.PNGPath, result); err != nil {
			return err
		}
	}

	return nil
}

func writeForecastCSV(path string, result demand.Result) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"step", "forecast", "lower", "upper", "trend"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, value := range result.Forecast {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(value),
			strconv.Itoa(result.PredictionInterval.Lower[i]),
			strconv.Itoa(result.PredictionInterval.Upper[i]),
			result.Trend,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func (a *App) writeForecastPNG(path string, result demand.Result) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]float64, len(result.Forecast))
	forecast := make([]float64, len(result.Forecast))
	lower := make([]float64, len(result.Forecast))
	upper := make([]float64, len(result.Forecast))

	for i, value := range result.Forecast {
		x[i] = float64(i + 1)
		forecast[i] = float64(value)
		lower[i] = float64(result.PredictionInterval.Lower[i])
		upper[i] = float64(result.PredictionInterval.Upper[i])
	}

	graph := chart.Chart{
		Width:  a.Config.Export.ChartWidth,
		Height: a.Config.Export.ChartHeight,
		XAxis: chart.XAxis{
			Name: "Day",
		},
		YAxis: chart.YAxis{
			Name: "Units",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Forecast",
				XValues: x,
				YValues: forecast,
			},
			chart.ContinuousSeries{
				Name:    "Lower (95%)",
				XValues: x,
				YValues: lower,
			},
			chart.ContinuousSeries{
				Name:    "Upper (95%)",
				XValues: x,
				YValues: upper,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
