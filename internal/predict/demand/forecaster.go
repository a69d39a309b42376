// Package demand produces multi-step sales forecasts with prediction
// intervals. A gradient-boosted backend is used when linked in and the
// history yields enough training rows; otherwise a flat exponential
// smoothing fallback is used. Backend failures degrade to the fallback and
// are never surfaced to callers.
package demand

import (
	"errors"

	"github.com/rs/zerolog"

	"inventory-predict/internal/capability"
	"inventory-predict/internal/stats"
)

// ErrInsufficientData is returned when the sales history is too short to
// forecast at all.
var ErrInsufficientData = errors.New("Insufficient data for prediction")

const (
	// minHistory is the minimum sales history length for any forecast.
	minHistory = 14
	// trainStart is the first history index usable as a training target;
	// earlier positions lack full lag coverage.
	trainStart = 30
	// minTrainRows is the minimum training set size for the model path.
	minTrainRows = 10
	// smoothingAlpha is the exponential smoothing factor of the fallback.
	smoothingAlpha = 0.3
	// intervalZ is the two-sided 95% normal quantile.
	intervalZ = 1.96
	// intervalConfidence is the reported interval confidence.
	intervalConfidence = 0.95
)

// Forecaster produces demand forecasts from sales history payloads.
type Forecaster struct {
	backend capability.Backend
	logger  zerolog.Logger
}

// NewForecaster constructs a forecaster routed through the given backend.
func NewForecaster(backend capability.Backend, logger zerolog.Logger) *Forecaster {
	return &Forecaster{
		backend: backend,
		logger:  logger.With().Str("component", "demand").Logger(),
	}
}

// Forecast predicts the next horizon steps of demand. It fails only on
// insufficient history; model-path problems fall back to the statistical
// forecast.
func (f *Forecaster) Forecast(req ForecastRequest) (Result, error) {
	history := req.SalesHistory
	if len(history) < minHistory {
		return Result{}, ErrInsufficientData
	}

	horizon := req.horizon()
	seasonality := req.seasonalityIndex()

	if !f.backend.Available() {
		return statisticalForecast(history, horizon, seasonality), nil
	}

	result, err := f.modelForecast(history, horizon, seasonality)
	if err != nil {
		f.logger.Debug().Err(err).Msg("model path failed; using statistical fallback")
		return statisticalForecast(history, horizon, seasonality), nil
	}
	return result, nil
}

var errTooFewTrainRows = errors.New("too few training rows for model path")

func (f *Forecaster) modelForecast(history []float64, horizon int, seasonality float64) (Result, error) {
	model, err := f.train(history)
	if err != nil {
		return Result{}, err
	}

	// Forecast iteratively: each predicted step extends the working history
	// unrounded so later lag and rolling features see it.
	extended := make([]float64, len(history), len(history)+horizon)
	copy(extended, history)

	forecast := make([]int, 0, horizon)
	for i := 0; i < horizon; i++ {
		features := buildFeatures(extended, len(extended))
		pred, err := model.Predict(features)
		if err != nil {
			return Result{}, err
		}
		scaled := pred * seasonality
		step := stats.RoundInt(scaled)
		if step < 0 {
			step = 0
		}
		forecast = append(forecast, step)
		extended = append(extended, scaled)
	}

	tail := history
	if len(tail) > 30 {
		tail = tail[len(tail)-30:]
	}
	std := stats.StdDev(tail)

	return Result{
		Forecast:           forecast,
		PredictionInterval: predictionInterval(forecast, std),
		TotalForecast:      sumInts(forecast),
		Trend:              classifyTrend(forecast),
		FeatureImportance:  normalizeImportances(model.Importances()),
	}, nil
}

// train fits the boosting ensemble on every position with full lag coverage.
func (f *Forecaster) train(history []float64) (capability.Regressor, error) {
	var features [][]float64
	var targets []float64
	for i := trainStart; i < len(history); i++ {
		features = append(features, buildFeatures(history, i))
		targets = append(targets, history[i])
	}
	if len(features) < minTrainRows {
		return nil, errTooFewTrainRows
	}

	model := f.backend.NewGradientBooster(capability.DefaultBoosterParams())
	if err := model.Fit(features, targets); err != nil {
		return nil, err
	}
	return model, nil
}

// statisticalForecast repeats a single exponentially smoothed level for
// every step of the horizon.
func statisticalForecast(history []float64, horizon int, seasonality float64) Result {
	recent := history[len(history)-minHistory:]
	std := stats.StdDev(recent)

	smoothed := recent[0]
	for _, v := range recent[1:] {
		smoothed = smoothingAlpha*v + (1-smoothingAlpha)*smoothed
	}

	level := stats.RoundInt(smoothed * seasonality)
	forecast := make([]int, horizon)
	for i := range forecast {
		forecast[i] = level
	}

	return Result{
		Forecast:           forecast,
		PredictionInterval: predictionInterval(forecast, std),
		TotalForecast:      sumInts(forecast),
		Trend:              TrendStable,
		FeatureImportance: map[string]float64{
			"recent_sales": 0.4,
			"trend":        0.3,
			"seasonality":  0.2,
			"day_of_week":  0.1,
		},
	}
}

func predictionInterval(forecast []int, std float64) Interval {
	lower := make([]int, len(forecast))
	upper := make([]int, len(forecast))
	for i, f := range forecast {
		lo := stats.RoundInt(float64(f) - intervalZ*std)
		if lo < 0 {
			lo = 0
		}
		lower[i] = lo
		upper[i] = stats.RoundInt(float64(f) + intervalZ*std)
	}
	return Interval{Lower: lower, Upper: upper, Confidence: intervalConfidence}
}

// classifyTrend splits the forecast at its midpoint and compares half sums
// with a 10% band.
func classifyTrend(forecast []int) string {
	mid := len(forecast) / 2
	first := float64(sumInts(forecast[:mid]))
	second := float64(sumInts(forecast[mid:]))
	switch {
	case second > first*1.1:
		return TrendIncreasing
	case second < first*0.9:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// normalizeImportances maps importance weights onto feature names as
// fractions of the total. Names are truncated to the number of weights the
// backend reports.
func normalizeImportances(importances []float64) map[string]float64 {
	total := 0.0
	for _, imp := range importances {
		total += imp
	}
	if total == 0 {
		return map[string]float64{}
	}

	n := len(importances)
	if n > len(featureNames) {
		n = len(featureNames)
	}
	result := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		result[featureNames[i]] = importances[i] / total
	}
	return result
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
