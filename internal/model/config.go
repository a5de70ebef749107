package model

import "fmt"

// ForestConfig holds the hyperparameters for one tree ensemble.
type ForestConfig struct {
	Trees            int
	MaxDepth         int
	MinSamplesSplit  int
	MinSamplesLeaf   int
	Bootstrap        bool
	RandomThresholds bool
}

// BlendWeights weight the three base models in the final ensemble. They
// must sum to one.
type BlendWeights struct {
	Forest float64
	Extra  float64
	Ridge  float64
}

// TrainingConfig gathers every tunable of the training pipeline.
type TrainingConfig struct {
	Forest ForestConfig
	Extra  ForestConfig

	RidgeAlpha float64
	Weights    BlendWeights

	// TestFraction of rows is held out for evaluation.
	TestFraction float64
	Seed         int64

	// MinTestR2 gates persistence: a bundle scoring below it is not saved.
	MinTestR2 float64

	// Bias correction bounds, applied to the ratio of mean actual over
	// mean predicted price on the training split.
	BiasMin float64
	BiasMax float64

	// Departments with fewer training rows than DeptMinCount are folded
	// into the other-bucket before encoding.
	DeptMinCount int
}

// DefaultTrainingConfig returns the production training configuration.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Forest: ForestConfig{
			Trees:           100,
			MaxDepth:        20,
			MinSamplesSplit: 10,
			MinSamplesLeaf:  5,
			Bootstrap:       true,
		},
		Extra: ForestConfig{
			Trees:            80,
			MaxDepth:         18,
			MinSamplesSplit:  12,
			MinSamplesLeaf:   5,
			Bootstrap:        false,
			RandomThresholds: true,
		},
		RidgeAlpha:   75,
		Weights:      BlendWeights{Forest: 0.55, Extra: 0.30, Ridge: 0.15},
		TestFraction: 0.2,
		Seed:         42,
		MinTestR2:    0.25,
		BiasMin:      0.5,
		BiasMax:      2.0,
		DeptMinCount: 100,
	}
}

// Validate checks the configuration for values that would make training
// fail or silently misbehave.
func (c TrainingConfig) Validate() error {
	if c.Forest.Trees <= 0 || c.Extra.Trees <= 0 {
		return fmt.Errorf("tree counts must be positive")
	}
	if c.Forest.MaxDepth <= 0 || c.Extra.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive")
	}
	if c.Forest.MinSamplesLeaf <= 0 || c.Extra.MinSamplesLeaf <= 0 {
		return fmt.Errorf("min samples per leaf must be positive")
	}
	if c.RidgeAlpha < 0 {
		return fmt.Errorf("ridge alpha must not be negative")
	}
	sum := c.Weights.Forest + c.Weights.Extra + c.Weights.Ridge
	if sum < 1-1e-9 || sum > 1+1e-9 {
		return fmt.Errorf("blend weights must sum to 1, got %.6f", sum)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0, 1), got %.3f", c.TestFraction)
	}
	if c.BiasMin <= 0 || c.BiasMax < c.BiasMin {
		return fmt.Errorf("bias bounds must satisfy 0 < min <= max")
	}
	if c.DeptMinCount < 0 {
		return fmt.Errorf("department min count must not be negative")
	}
	return nil
}
