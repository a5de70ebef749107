// Package model implements the price regression stack: bagged regression
// trees, extremely randomized trees and a ridge regression blended in
// log-price space, plus the training pipeline that fits, evaluates and
// serializes them as a single bundle.
//
// Training is deterministic for a given seed. Every source of randomness
// (the holdout split, bootstrap resampling, randomized thresholds) draws
// from a generator derived from the configured seed, so two runs on the
// same data produce byte-identical bundles even though trees are fitted
// concurrently.
package model
