package service

import "sentiment-pipeline/internal/entity"

// Algorithm is the closed set of sentiment scoring algorithms. Selection
// happens once per run when the configuration row is loaded; unrecognized
// configuration values resolve to AlgorithmSimpleRatio.
type Algorithm int

const (
	AlgorithmSimpleRatio Algorithm = iota
	AlgorithmWeightedAverage
)

// ParseAlgorithm maps a configured algorithm name onto an Algorithm.
func ParseAlgorithm(name string) Algorithm {
	switch name {
	case entity.AlgorithmWeightedAverage:
		return AlgorithmWeightedAverage
	case entity.AlgorithmSimpleRatio:
		return AlgorithmSimpleRatio
	default:
		return AlgorithmSimpleRatio
	}
}

func (a Algorithm) String() string {
	if a == AlgorithmWeightedAverage {
		return entity.AlgorithmWeightedAverage
	}
	return entity.AlgorithmSimpleRatio
}
