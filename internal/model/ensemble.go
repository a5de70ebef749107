package model

import "fmt"

// Ensemble blends the three base models in log-price space.
type Ensemble struct {
	Forest *Forest
	Extra  *Forest
	Ridge  *Ridge

	Weights BlendWeights
}

// NewEnsemble assembles fitted base models under a weight vector. The
// weights must sum to one so the blend stays in the convex hull of the
// base predictions.
func NewEnsemble(forest, extra *Forest, ridge *Ridge, weights BlendWeights) (*Ensemble, error) {
	if forest == nil || extra == nil || ridge == nil {
		return nil, fmt.Errorf("all base models are required")
	}
	sum := weights.Forest + weights.Extra + weights.Ridge
	if sum < 1-1e-9 || sum > 1+1e-9 {
		return nil, fmt.Errorf("blend weights must sum to 1, got %.6f", sum)
	}
	return &Ensemble{Forest: forest, Extra: extra, Ridge: ridge, Weights: weights}, nil
}

// Predict returns the blended log-price prediction for one scaled
// feature vector.
func (e *Ensemble) Predict(row []float64) float64 {
	return e.Weights.Forest*e.Forest.Predict(row) +
		e.Weights.Extra*e.Extra.Predict(row) +
		e.Weights.Ridge*e.Ridge.Predict(row)
}
