package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantForest(value float64) *Forest {
	return &Forest{Trees: []*Tree{{Root: &TreeNode{Leaf: true, Value: value}}}}
}

func TestNewEnsembleValidatesWeights(t *testing.T) {
	forest := constantForest(1)
	ridge := &Ridge{Weights: []float64{0}, Intercept: 1}

	tests := []struct {
		name    string
		weights BlendWeights
		wantErr bool
	}{
		{"default weights", BlendWeights{Forest: 0.55, Extra: 0.30, Ridge: 0.15}, false},
		{"equal thirds", BlendWeights{Forest: 1.0 / 3, Extra: 1.0 / 3, Ridge: 1.0 / 3}, false},
		{"sum below one", BlendWeights{Forest: 0.5, Extra: 0.3, Ridge: 0.1}, true},
		{"sum above one", BlendWeights{Forest: 0.6, Extra: 0.3, Ridge: 0.2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnsemble(forest, forest, ridge, tt.weights)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewEnsembleRequiresAllModels(t *testing.T) {
	forest := constantForest(1)
	weights := BlendWeights{Forest: 0.55, Extra: 0.30, Ridge: 0.15}

	_, err := NewEnsemble(nil, forest, &Ridge{}, weights)
	assert.Error(t, err)
	_, err = NewEnsemble(forest, forest, nil, weights)
	assert.Error(t, err)
}

func TestEnsemblePredictBlends(t *testing.T) {
	ensemble, err := NewEnsemble(
		constantForest(10),
		constantForest(20),
		&Ridge{Weights: []float64{0}, Intercept: 40},
		BlendWeights{Forest: 0.55, Extra: 0.30, Ridge: 0.15},
	)
	require.NoError(t, err)

	// 0.55*10 + 0.30*20 + 0.15*40 = 17.5
	assert.InDelta(t, 17.5, ensemble.Predict([]float64{0}), 1e-9)
}
