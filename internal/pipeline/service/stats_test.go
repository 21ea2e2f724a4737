package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Zero(t, mean(nil))
	assert.InDelta(t, 0.7, mean([]float64{0.6, 0.8}), 1e-9)
	assert.InDelta(t, 0.5, mean([]float64{0.5}), 1e-9)
}

func TestUpperMedian(t *testing.T) {
	assert.Zero(t, upperMedian(nil))
	assert.InDelta(t, 0.5, upperMedian([]float64{0.5}), 1e-9)
	// Even length takes the upper of the two middle values.
	assert.InDelta(t, 0.8, upperMedian([]float64{0.8, 0.6}), 1e-9)
	assert.InDelta(t, 0.6, upperMedian([]float64{0.9, 0.3, 0.6}), 1e-9)
	assert.InDelta(t, 0.7, upperMedian([]float64{0.9, 0.3, 0.7, 0.5}), 1e-9)
}

func TestUpperMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{0.9, 0.1, 0.5}
	upperMedian(values)
	assert.Equal(t, []float64{0.9, 0.1, 0.5}, values)
}

func TestPopulationVariance(t *testing.T) {
	assert.Zero(t, populationVariance(nil))
	assert.Zero(t, populationVariance([]float64{0.7}))
	assert.InDelta(t, 0.01, populationVariance([]float64{0.6, 0.8}), 1e-9)
}

func TestPopulationStdDev(t *testing.T) {
	assert.InDelta(t, 0.1, populationStdDev([]float64{0.6, 0.8}), 1e-9)
	assert.Zero(t, populationStdDev([]float64{0.5, 0.5, 0.5}))
}

func TestParseAlgorithm(t *testing.T) {
	assert.Equal(t, AlgorithmSimpleRatio, ParseAlgorithm("simple_ratio"))
	assert.Equal(t, AlgorithmWeightedAverage, ParseAlgorithm("weighted_average"))
	// Unknown names resolve to the simple ratio.
	assert.Equal(t, AlgorithmSimpleRatio, ParseAlgorithm("bayesian"))
	assert.Equal(t, AlgorithmSimpleRatio, ParseAlgorithm(""))
}

func TestCompareTrend(t *testing.T) {
	assert.Equal(t, "improving", compareTrend(1.0, 0.5, 0.05))
	assert.Equal(t, "declining", compareTrend(0.5, 1.0, 0.05))
	assert.Equal(t, "stable", compareTrend(0.52, 0.5, 0.05))
	assert.Equal(t, "stable", compareTrend(0.5, 0.5, 0.05))
	// Tighter overall threshold flips the same pair.
	assert.Equal(t, "improving", compareTrend(0.52, 0.5, 0.03))
}
