package demand

import "inventory-predict/internal/stats"

// featureNames lists the engineered features in training column order.
var featureNames = []string{
	"lag_1", "lag_7", "lag_14", "lag_30",
	"rolling_mean_7", "rolling_std_7",
	"rolling_mean_14", "rolling_std_14",
	"rolling_mean_30", "rolling_std_30",
	"trend",
}

var (
	lagOffsets     = []int{1, 7, 14, 30}
	rollingWindows = []int{7, 14, 30}
)

// buildFeatures computes the feature vector for position idx over history,
// in featureNames order. Deterministic given idx and the history contents.
func buildFeatures(history []float64, idx int) []float64 {
	features := make([]float64, 0, len(featureNames))

	for _, lag := range lagOffsets {
		if idx >= lag {
			features = append(features, history[idx-lag])
		} else {
			// Not enough history for this lag; use the mean of what
			// precedes idx (or the first point when idx is 0).
			end := idx
			if end < 1 {
				end = 1
			}
			features = append(features, stats.Mean(history[:end]))
		}
	}

	for _, window := range rollingWindows {
		start := idx - window
		if start < 0 {
			start = 0
		}
		windowData := history[start:idx]
		if idx == 0 {
			windowData = history[:1]
		}
		features = append(features, stats.Mean(windowData), stats.StdDev(windowData))
	}

	features = append(features, trendAt(history, idx))
	return features
}

// trendAt is the relative change between the trailing week and the week
// before it, 0 when either window is unavailable or the older mean is not
// positive.
func trendAt(history []float64, idx int) float64 {
	if idx < 7 {
		return 0
	}
	olderStart := idx - 14
	if olderStart < 0 {
		olderStart = 0
	}
	recent := stats.Mean(history[idx-7 : idx])
	older := stats.Mean(history[olderStart : idx-7])
	if older <= 0 {
		return 0
	}
	return (recent - older) / older
}
