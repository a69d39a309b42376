// Package capability gates access to the optional tree-ensemble backend.
//
// The predictors prefer a trained ensemble when a backend is linked in and
// fall back to their closed-form statistical paths otherwise. Whether a real
// backend exists is decided at build time: an implementation registers
// itself via Register from an init function; the default build registers
// nothing and Detect reports a permanently unavailable backend.
package capability

// Class is the predicted class of an anomaly model sample.
type Class int

const (
	// ClassNormal marks an inlier.
	ClassNormal Class = 1
	// ClassAnomaly marks an outlier.
	ClassAnomaly Class = -1
)

// ForestParams configures an isolation-forest style anomaly ensemble. Values
// are fixed for reproducibility across invocations.
type ForestParams struct {
	Contamination float64
	Estimators    int
	Seed          int64
}

// DefaultForestParams returns the calibration used by the anomaly detector.
func DefaultForestParams() ForestParams {
	return ForestParams{Contamination: 0.1, Estimators: 100, Seed: 42}
}

// BoosterParams configures a gradient-boosted regression ensemble.
type BoosterParams struct {
	Objective       string
	Rounds          int
	Leaves          int
	LearningRate    float64
	FeatureFraction float64
}

// DefaultBoosterParams returns the calibration used by the demand forecaster.
func DefaultBoosterParams() BoosterParams {
	return BoosterParams{
		Objective:       "mae",
		Rounds:          100,
		Leaves:          31,
		LearningRate:    0.05,
		FeatureFraction: 0.9,
	}
}

// AnomalyModel scores single values against a fitted reference set.
type AnomalyModel interface {
	Fit(samples []float64) error
	// Predict classifies a value as inlier or outlier.
	Predict(value float64) (Class, error)
	// Score returns the sample log-score; callers negate it so that higher
	// means more anomalous.
	Score(value float64) (float64, error)
}

// Regressor is a trainable regression ensemble.
type Regressor interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features []float64) (float64, error)
	// Importances reports per-feature importance weights in training
	// feature order. May be shorter than the feature count depending on
	// the backend.
	Importances() []float64
}

// Backend provides model constructors when an ensemble library is linked in.
type Backend interface {
	Available() bool
	NewIsolationForest(params ForestParams) AnomalyModel
	NewGradientBooster(params BoosterParams) Regressor
}

var active Backend = unavailable{}

// Register installs a backend implementation. Intended to be called from an
// init function of a build-time selected backend package.
func Register(b Backend) {
	if b != nil {
		active = b
	}
}

// Detect returns the backend registered for this build. When enabled is
// false the backend is forced unavailable regardless of registration.
func Detect(enabled bool) Backend {
	if !enabled {
		return unavailable{}
	}
	return active
}

type unavailable struct{}

func (unavailable) Available() bool { return false }

func (unavailable) NewIsolationForest(ForestParams) AnomalyModel { return nil }

func (unavailable) NewGradientBooster(BoosterParams) Regressor { return nil }
