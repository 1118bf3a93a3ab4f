// Package distshape implements the distribution-shape capability: skewness,
// kurtosis and an approximate normality test for numeric fields.
package distshape

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/ports"
)

// AnalyzerImpl implements the distribution-shape port. Stateless and safe for
// concurrent use.
type AnalyzerImpl struct{}

// NewAnalyzer creates a distribution shape analyzer
func NewAnalyzer() *AnalyzerImpl {
	return &AnalyzerImpl{}
}

// Shape computes skewness, kurtosis and a Shapiro-Wilk approximation over the
// values. At least three values are required; a constant series has no shape
// and also reports unavailable.
func (a *AnalyzerImpl) Shape(values []float64) (ports.ShapeResult, error) {
	if len(values) < 3 {
		return ports.ShapeResult{}, core.ErrShapeUnavailable
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return ports.ShapeResult{}, err
	}
	stdDev, err := stats.StandardDeviation(values)
	if err != nil {
		return ports.ShapeResult{}, err
	}
	if stdDev == 0 {
		return ports.ShapeResult{}, core.ErrShapeUnavailable
	}

	skewness := sampleSkewness(values, mean, stdDev)
	kurtosis := sampleKurtosis(values, mean, stdDev)
	likelyNormal, shapiroP := approximateNormality(skewness, kurtosis)

	return ports.ShapeResult{
		Skewness:     skewness,
		Kurtosis:     kurtosis,
		ShapiroP:     shapiroP,
		LikelyNormal: likelyNormal,
	}, nil
}

// sampleSkewness computes the adjusted Fisher-Pearson coefficient of skewness
func sampleSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}
	skewness := sumCubedDeviations / n

	// Bias correction for sample skewness
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

// sampleKurtosis computes sample kurtosis (normal distribution yields 3)
func sampleKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}
	kurtosis := sumFourthDeviations / n

	excessKurtosis := kurtosis - 3
	if n > 3 {
		correction := (n - 1) / ((n - 2) * (n - 3))
		excessKurtosis = excessKurtosis*correction + 6/(n+1)
	}
	return excessKurtosis + 3
}

// approximateNormality combines skewness and excess kurtosis into a test
// statistic and reads an approximate p-value off a chi-squared distribution.
// An approximation of the Shapiro-Wilk test, not the real thing.
func approximateNormality(skewness, kurtosis float64) (likelyNormal bool, pValue float64) {
	testStat := math.Abs(skewness) + math.Abs(kurtosis-3)/2

	chiDist := distuv.ChiSquared{K: 2}
	pValue = 1 - chiDist.CDF(testStat*testStat)

	return pValue > 0.05, pValue
}
