package demand

import (
	"math"
	"testing"
)

func seq(n int) []float64 {
	history := make([]float64, n)
	for i := range history {
		history[i] = float64(i + 1)
	}
	return history
}

func featureAt(t *testing.T, features []float64, name string) float64 {
	t.Helper()
	for i, n := range featureNames {
		if n == name {
			return features[i]
		}
	}
	t.Fatalf("unknown feature %q", name)
	return 0
}

func TestBuildFeaturesLags(t *testing.T) {
	history := seq(40)
	features := buildFeatures(history, 35)

	if got := featureAt(t, features, "lag_1"); got != 35 {
		t.Fatalf("lag_1 should be history[34]=35, got %v", got)
	}
	if got := featureAt(t, features, "lag_7"); got != 29 {
		t.Fatalf("lag_7 should be history[28]=29, got %v", got)
	}
	if got := featureAt(t, features, "lag_30"); got != 6 {
		t.Fatalf("lag_30 should be history[5]=6, got %v", got)
	}
}

func TestBuildFeaturesShortLagUsesPrefixMean(t *testing.T) {
	history := seq(40)
	features := buildFeatures(history, 5)

	// lag_7 at idx 5 falls back to mean(history[:5]) = 3.
	if got := featureAt(t, features, "lag_7"); got != 3 {
		t.Fatalf("short lag should use the prefix mean, got %v", got)
	}
}

func TestBuildFeaturesAtZero(t *testing.T) {
	history := seq(40)
	features := buildFeatures(history, 0)

	if got := featureAt(t, features, "lag_1"); got != 1 {
		t.Fatalf("idx 0 lag should use the first point, got %v", got)
	}
	if got := featureAt(t, features, "rolling_mean_7"); got != 1 {
		t.Fatalf("idx 0 rolling mean should use the first point, got %v", got)
	}
	if got := featureAt(t, features, "rolling_std_7"); got != 0 {
		t.Fatalf("single-point window std should be 0, got %v", got)
	}
	if got := featureAt(t, features, "trend"); got != 0 {
		t.Fatalf("trend below idx 7 should be 0, got %v", got)
	}
}

func TestBuildFeaturesRollingWindow(t *testing.T) {
	history := seq(40)
	features := buildFeatures(history, 35)

	// Window covers history[28:35] = 29..35, mean 32.
	if got := featureAt(t, features, "rolling_mean_7"); got != 32 {
		t.Fatalf("rolling_mean_7 should be 32, got %v", got)
	}
	// Population std of 29..35 is 2.
	if got := featureAt(t, features, "rolling_std_7"); got != 2 {
		t.Fatalf("rolling_std_7 should be 2, got %v", got)
	}
}

func TestTrendAt(t *testing.T) {
	history := seq(40)
	// recent = mean(29..35) = 32, older = mean(22..28) = 25.
	want := (32.0 - 25.0) / 25.0
	if got := trendAt(history, 35); math.Abs(got-want) > 1e-12 {
		t.Fatalf("trend mismatch: want %v, got %v", want, got)
	}
}

func TestTrendAtZeroDenominator(t *testing.T) {
	history := make([]float64, 20)
	if got := trendAt(history, 15); got != 0 {
		t.Fatalf("zero older mean should yield trend 0, got %v", got)
	}
}

func TestFeatureVectorLength(t *testing.T) {
	features := buildFeatures(seq(40), 35)
	if len(features) != len(featureNames) {
		t.Fatalf("expected %d features, got %d", len(featureNames), len(features))
	}
}
