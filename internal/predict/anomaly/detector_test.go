package anomaly

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"inventory-predict/internal/capability"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func unavailableBackend() capability.Backend {
	return capability.Detect(false)
}

// fakeBackend hands out a canned anomaly model.
type fakeBackend struct {
	model capability.AnomalyModel
}

func (f fakeBackend) Available() bool { return true }

func (f fakeBackend) NewIsolationForest(capability.ForestParams) capability.AnomalyModel {
	return f.model
}

func (f fakeBackend) NewGradientBooster(capability.BoosterParams) capability.Regressor {
	return nil
}

type fakeForest struct {
	class    capability.Class
	logScore float64
	fitErr   error
}

func (f *fakeForest) Fit([]float64) error { return f.fitErr }

func (f *fakeForest) Predict(float64) (capability.Class, error) { return f.class, nil }

func (f *fakeForest) Score(float64) (float64, error) { return f.logScore, nil }

func TestDetectFallbackSpike(t *testing.T) {
	d := NewDetector(unavailableBackend(), noopLogger())

	report := d.Detect(DetectionRequest{
		EntityID: "prod-1",
		Metrics: []MetricSeries{{
			Name:             "daily_sales",
			CurrentValue:     50,
			HistoricalValues: []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10},
		}},
	})

	if !report.IsAnomaly {
		t.Fatal("a 40-sigma spike should be flagged")
	}
	if report.AnomalyScore != 1 {
		t.Fatalf("score should saturate at 1, got %v", report.AnomalyScore)
	}
	if report.Severity != SeverityHigh {
		t.Fatalf("expected high severity, got %s", report.Severity)
	}
	if len(report.Anomalies) != 1 {
		t.Fatalf("expected a single anomaly entry, got %d", len(report.Anomalies))
	}

	entry := report.Anomalies[0]
	wantDev := (50 - 10.2) / math.Sqrt(0.76)
	if math.Abs(entry.Deviation-wantDev) > 1e-9 {
		t.Fatalf("deviation mismatch: want %v, got %v", wantDev, entry.Deviation)
	}
	if entry.ExpectedRange.Min >= entry.ExpectedRange.Max {
		t.Fatalf("expected range should be non-degenerate: %+v", entry.ExpectedRange)
	}
}

func TestDetectConstantHistoryNeverFlagged(t *testing.T) {
	d := NewDetector(unavailableBackend(), noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{{
			Name:             "flat",
			CurrentValue:     100,
			HistoricalValues: []float64{5, 5, 5, 5, 5},
		}},
	})

	if report.IsAnomaly {
		t.Fatal("zero-std history must never be flagged by the fallback path")
	}
	if report.AnomalyScore != 0 {
		t.Fatalf("score should be 0, got %v", report.AnomalyScore)
	}
}

func TestDetectShortHistoryIsQuiet(t *testing.T) {
	d := NewDetector(unavailableBackend(), noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{{
			Name:             "sparse",
			CurrentValue:     1e6,
			HistoricalValues: []float64{1, 2},
		}},
	})

	if report.IsAnomaly {
		t.Fatal("fewer than 3 history points should yield a non-anomalous result")
	}
}

func TestDetectEmptyHistorySkipped(t *testing.T) {
	d := NewDetector(unavailableBackend(), noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{
			{Name: "empty", CurrentValue: 42},
			{Name: "spiky", CurrentValue: 50, HistoricalValues: []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10}},
		},
	})

	if len(report.Anomalies) != 1 {
		t.Fatalf("empty-history metric must be skipped, got %d entries", len(report.Anomalies))
	}
	if report.Anomalies[0].MetricName != "spiky" {
		t.Fatalf("unexpected flagged metric %q", report.Anomalies[0].MetricName)
	}
}

func TestDetectNoMetrics(t *testing.T) {
	d := NewDetector(unavailableBackend(), noopLogger())

	report := d.Detect(DetectionRequest{})

	if report.IsAnomaly {
		t.Fatal("empty metric list should be non-anomalous")
	}
	if report.Severity != SeverityNone {
		t.Fatalf("expected none severity, got %s", report.Severity)
	}
	if report.Anomalies == nil || len(report.Anomalies) != 0 {
		t.Fatalf("anomalies should be an empty list, got %#v", report.Anomalies)
	}
	if report.Timestamp == "" {
		t.Fatal("timestamp should be set")
	}
}

func TestDetectModelPath(t *testing.T) {
	history := []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10}
	backend := fakeBackend{model: &fakeForest{class: capability.ClassAnomaly, logScore: -0.9}}
	d := NewDetector(backend, noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{{Name: "m", CurrentValue: 50, HistoricalValues: history}},
	})

	if !report.IsAnomaly {
		t.Fatal("model outlier class should flag the metric")
	}
	// Anomaly score is the negated sample log-score.
	if report.AnomalyScore != 0.9 {
		t.Fatalf("expected score 0.9, got %v", report.AnomalyScore)
	}
	if report.Severity != SeverityHigh {
		t.Fatalf("score 0.9 should map to high, got %s", report.Severity)
	}
}

func TestDetectModelInlierNotReported(t *testing.T) {
	history := []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10}
	backend := fakeBackend{model: &fakeForest{class: capability.ClassNormal, logScore: -0.4}}
	d := NewDetector(backend, noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{{Name: "m", CurrentValue: 10, HistoricalValues: history}},
	})

	if report.IsAnomaly {
		t.Fatal("model inlier class should not be reported")
	}
}

func TestDetectModelFailureFallsBack(t *testing.T) {
	history := []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10}
	backend := fakeBackend{model: &fakeForest{fitErr: errors.New("fit exploded")}}
	d := NewDetector(backend, noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{{Name: "m", CurrentValue: 50, HistoricalValues: history}},
	})

	if !report.IsAnomaly {
		t.Fatal("model failure must transparently fall back to the z-score path")
	}
	if report.AnomalyScore != 1 {
		t.Fatalf("fallback score should saturate at 1, got %v", report.AnomalyScore)
	}
}

func TestDetectShallowHistorySkipsModel(t *testing.T) {
	// 9 points is below the model gate even with a backend available.
	history := []float64{10, 11, 9, 10, 12, 10, 9, 11, 10}
	backend := fakeBackend{model: &fakeForest{fitErr: errors.New("should not be called")}}
	d := NewDetector(backend, noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{{Name: "m", CurrentValue: 50, HistoricalValues: history}},
	})

	if !report.IsAnomaly {
		t.Fatal("fallback should still flag the spike")
	}
}

func TestGetSeverityThresholds(t *testing.T) {
	cases := []struct {
		score     float64
		deviation float64
		want      Severity
	}{
		{0.9, 0, SeverityHigh},
		{0, 4.5, SeverityHigh},
		{0.5, 0, SeverityMedium},
		{0, -3.2, SeverityMedium},
		{0.3, 0, SeverityLow},
		{0, 2.5, SeverityLow},
		{0.29, 2.49, SeverityNone},
		{0, 0, SeverityNone},
	}

	for _, tc := range cases {
		if got := getSeverity(tc.score, tc.deviation); got != tc.want {
			t.Fatalf("getSeverity(%v, %v) = %s, want %s", tc.score, tc.deviation, got, tc.want)
		}
	}
}

func TestGetSeverityMonotonic(t *testing.T) {
	scores := []float64{0, 0.1, 0.3, 0.5, 0.8, 1}
	deviations := []float64{0, 1, 2.5, 3, 4, 6}

	for _, dev := range deviations {
		prev := -1
		for _, score := range scores {
			rank := getSeverity(score, dev).Rank()
			if rank < prev {
				t.Fatalf("severity rank decreased as score grew: score=%v dev=%v", score, dev)
			}
			prev = rank
		}
	}
	for _, score := range scores {
		prev := -1
		for _, dev := range deviations {
			rank := getSeverity(score, dev).Rank()
			if rank < prev {
				t.Fatalf("severity rank decreased as deviation grew: score=%v dev=%v", score, dev)
			}
			prev = rank
		}
	}
}

func TestDetectOverallSeverityIsMax(t *testing.T) {
	d := NewDetector(unavailableBackend(), noopLogger())

	report := d.Detect(DetectionRequest{
		Metrics: []MetricSeries{
			// z ~ 2.6: flagged below high.
			{Name: "mild", CurrentValue: 12.47, HistoricalValues: []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10}},
			// Huge spike: high severity.
			{Name: "wild", CurrentValue: 50, HistoricalValues: []float64{10, 11, 9, 10, 12, 10, 9, 11, 10, 10}},
		},
	})

	if report.Severity != SeverityHigh {
		t.Fatalf("overall severity should be the highest present, got %s", report.Severity)
	}
	if len(report.Anomalies) != 2 {
		t.Fatalf("both metrics should be flagged, got %d", len(report.Anomalies))
	}
}
