package demand

// ForecastRequest is the input payload for a forecast call.
type ForecastRequest struct {
	SalesHistory     []float64 `json:"salesHistory"`
	Horizon          *int      `json:"horizon"`
	SeasonalityIndex *float64  `json:"seasonalityIndex"`
}

// Defaults for optional payload fields.
const (
	defaultHorizon          = 14
	defaultSeasonalityIndex = 1.0
)

// horizon returns the requested horizon or its default. Negative values
// clamp to zero, yielding an empty forecast.
func (r ForecastRequest) horizon() int {
	if r.Horizon == nil {
		return defaultHorizon
	}
	if *r.Horizon < 0 {
		return 0
	}
	return *r.Horizon
}

// seasonalityIndex returns the requested index or its default.
func (r ForecastRequest) seasonalityIndex() float64 {
	if r.SeasonalityIndex != nil {
		return *r.SeasonalityIndex
	}
	return defaultSeasonalityIndex
}

// Interval bounds each forecast step at the fixed confidence level.
type Interval struct {
	Lower      []int   `json:"lower"`
	Upper      []int   `json:"upper"`
	Confidence float64 `json:"confidence"`
}

// Trend labels for the forecast direction.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Result is the output of a forecast call.
type Result struct {
	Forecast           []int              `json:"forecast"`
	PredictionInterval Interval           `json:"prediction_interval"`
	TotalForecast      int                `json:"total_forecast"`
	Trend              string             `json:"trend"`
	FeatureImportance  map[string]float64 `json:"feature_importance"`
}
