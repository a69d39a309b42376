// Package anomaly flags metrics whose current value deviates from their
// historical distribution. Scoring prefers an isolation-forest backend when
// one is linked in and the history is deep enough; otherwise a z-score
// fallback is used. Backend failures degrade to the fallback and are never
// surfaced to callers.
package anomaly

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"inventory-predict/internal/capability"
	"inventory-predict/internal/stats"
)

const (
	// minModelPoints is the history depth required to fit the ensemble.
	minModelPoints = 10
	// minFallbackPoints is the history depth below which the fallback
	// reports a non-anomalous zero result.
	minFallbackPoints = 3
	// zThreshold flags a fallback z-score as anomalous.
	zThreshold = 2.5
)

// Detector scores metric payloads against their history.
type Detector struct {
	backend capability.Backend
	logger  zerolog.Logger
	now     func() time.Time
}

// NewDetector constructs a detector routed through the given backend.
func NewDetector(backend capability.Backend, logger zerolog.Logger) *Detector {
	return &Detector{
		backend: backend,
		logger:  logger.With().Str("component", "anomaly").Logger(),
		now:     time.Now,
	}
}

// Detect scores every metric in the request and aggregates the flagged ones
// into a report. Metrics with empty history are skipped entirely.
func (d *Detector) Detect(req DetectionRequest) Report {
	req.Normalize()

	report := Report{
		Severity:  SeverityNone,
		Anomalies: []Anomaly{},
		Timestamp: d.now().UTC().Format(time.RFC3339),
	}

	maxScore := 0.0
	for _, metric := range req.Metrics {
		if len(metric.HistoricalValues) == 0 {
			continue
		}

		result := d.scoreMetric(metric)
		if !result.isAnomaly {
			continue
		}

		severity := getSeverity(result.score, result.deviation)
		report.Anomalies = append(report.Anomalies, Anomaly{
			MetricName:    metric.Name,
			CurrentValue:  metric.CurrentValue,
			ExpectedRange: result.expectedRange,
			Deviation:     result.deviation,
			Severity:      severity,
		})
		if result.score > maxScore {
			maxScore = result.score
		}
		if severity.Rank() > report.Severity.Rank() {
			report.Severity = severity
		}
	}

	if len(report.Anomalies) > 0 {
		report.IsAnomaly = true
		report.AnomalyScore = stats.RoundTo(maxScore, 3)
		// A flagged report is never less than low overall, even when every
		// entry scored below the low cutoffs.
		if report.Severity.Rank() < SeverityLow.Rank() {
			report.Severity = SeverityLow
		}
	}

	return report
}

// scoreMetric routes one metric through the model or statistical path.
func (d *Detector) scoreMetric(metric MetricSeries) metricResult {
	if !d.backend.Available() || len(metric.HistoricalValues) < minModelPoints {
		return scoreStatistical(metric.HistoricalValues, metric.CurrentValue)
	}

	result, err := d.scoreModel(metric.HistoricalValues, metric.CurrentValue)
	if err != nil {
		d.logger.Debug().Err(err).Str("metric", metric.Name).
			Msg("model path failed; using statistical fallback")
		return scoreStatistical(metric.HistoricalValues, metric.CurrentValue)
	}
	return result
}

func (d *Detector) scoreModel(history []float64, current float64) (metricResult, error) {
	forest := d.backend.NewIsolationForest(capability.DefaultForestParams())
	if err := forest.Fit(history); err != nil {
		return metricResult{}, err
	}

	class, err := forest.Predict(current)
	if err != nil {
		return metricResult{}, err
	}
	logScore, err := forest.Score(current)
	if err != nil {
		return metricResult{}, err
	}

	mean := stats.Mean(history)
	std := stats.StdDev(history)
	deviation := 0.0
	if std > 0 {
		deviation = (current - mean) / std
	}

	return metricResult{
		isAnomaly:     class == capability.ClassAnomaly,
		score:         -logScore,
		deviation:     deviation,
		expectedRange: expectedRange(mean, std),
	}, nil
}

// scoreStatistical is the closed-form z-score path.
func scoreStatistical(history []float64, current float64) metricResult {
	if len(history) < minFallbackPoints {
		return metricResult{}
	}

	mean := stats.Mean(history)
	std := stats.StdDev(history)

	z := 0.0
	deviation := 0.0
	if std > 0 {
		z = math.Abs(current-mean) / std
		deviation = (current - mean) / std
	}

	return metricResult{
		isAnomaly:     z > zThreshold,
		score:         math.Min(z/5, 1),
		deviation:     deviation,
		expectedRange: expectedRange(mean, std),
	}
}

func expectedRange(mean, std float64) Range {
	return Range{Min: mean - 2*std, Max: mean + 2*std}
}

// getSeverity maps a score and deviation onto an ordinal severity label.
// Monotonic in both inputs.
func getSeverity(score, deviation float64) Severity {
	absDev := math.Abs(deviation)
	switch {
	case score >= 0.8 || absDev >= 4:
		return SeverityHigh
	case score >= 0.5 || absDev >= 3:
		return SeverityMedium
	case score >= 0.3 || absDev >= 2.5:
		return SeverityLow
	default:
		return SeverityNone
	}
}
