package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// StdErr calculates the standard error of the mean of a Monte Carlo sample.
// Returns 0 for fewer than two samples.
func StdErr(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(data, nil)
	return stat.StdErr(std, float64(len(data)))
}

// Summary describes a Monte Carlo sample of a bounded statistic.
type Summary struct {
	N      int     `json:"n" msgpack:"n"`
	Mean   float64 `json:"mean" msgpack:"mean"`
	StdDev float64 `json:"std_dev" msgpack:"std_dev"`
	StdErr float64 `json:"std_err" msgpack:"std_err"`
	Min    float64 `json:"min" msgpack:"min"`
	Max    float64 `json:"max" msgpack:"max"`
}

// Summarize computes the Summary of data. An empty sample yields the zero Summary.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	s := Summary{
		N:    len(data),
		Mean: Mean(data),
		Min:  floats.Min(data),
		Max:  floats.Max(data),
	}
	if len(data) > 1 {
		s.StdDev = StdDev(data)
		s.StdErr = StdErr(data)
	}
	return s
}

// WithinSigma reports whether target lies within k standard errors of the
// sample mean. A degenerate sample (zero spread) requires an exact match up
// to tol.
func (s Summary) WithinSigma(target, k, tol float64) bool {
	if s.N == 0 {
		return false
	}
	width := k * s.StdErr
	if width < tol {
		width = tol
	}
	return math.Abs(s.Mean-target) <= width
}
