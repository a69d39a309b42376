package stats

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation of a slice of float64
// values. The predictors score against the full observed history, not a
// sample, so Bessel's correction is undone.
func StdDev(data []float64) float64 {
	n := len(data)
	if n < 2 {
		return 0
	}
	variance := stat.Variance(data, nil) * float64(n-1) / float64(n)
	return math.Sqrt(variance)
}

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundInt rounds v to the nearest integer.
func RoundInt(v float64) int {
	return int(math.Round(v))
}
