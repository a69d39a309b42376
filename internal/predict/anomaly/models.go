package anomaly

// DetectionRequest is the input payload for a detection call.
type DetectionRequest struct {
	EntityID   string         `json:"entityId"`
	EntityType string         `json:"entityType"`
	Metrics    []MetricSeries `json:"metrics"`
}

// MetricSeries carries one metric's current value and its chronological
// history.
type MetricSeries struct {
	Name             string    `json:"name"`
	CurrentValue     float64   `json:"currentValue"`
	HistoricalValues []float64 `json:"historicalValues"`
}

// Normalize applies the documented payload defaults in place.
func (r *DetectionRequest) Normalize() {
	if r.EntityID == "" {
		r.EntityID = "unknown"
	}
	if r.EntityType == "" {
		r.EntityType = "unknown"
	}
	for i := range r.Metrics {
		if r.Metrics[i].Name == "" {
			r.Metrics[i].Name = "unknown"
		}
	}
}

// Range bounds the expected value interval for a metric.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Severity is an ordinal anomaly severity label.
type Severity string

// Severity levels, ordered none < low < medium < high.
const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank returns the ordinal position of the severity for comparisons.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Anomaly describes one flagged metric inside a report.
type Anomaly struct {
	MetricName    string   `json:"metricName"`
	CurrentValue  float64  `json:"currentValue"`
	ExpectedRange Range    `json:"expectedRange"`
	Deviation     float64  `json:"deviation"`
	Severity      Severity `json:"severity"`
}

// Report aggregates per-metric results for one detection call.
type Report struct {
	IsAnomaly    bool      `json:"is_anomaly"`
	AnomalyScore float64   `json:"anomaly_score"`
	Severity     Severity  `json:"severity"`
	Anomalies    []Anomaly `json:"anomalies"`
	Timestamp    string    `json:"timestamp"`
}

// metricResult is the outcome of scoring a single metric.
type metricResult struct {
	isAnomaly     bool
	score         float64
	deviation     float64
	expectedRange Range
}
