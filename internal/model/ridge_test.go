package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRidgeRecoversLinearModel(t *testing.T) {
	// y = 2a - 3b + 5 with no noise; near-zero alpha recovers it.
	var x [][]float64
	var y []float64
	for a := 0.0; a < 10; a++ {
		for b := 0.0; b < 10; b++ {
			x = append(x, []float64{a, b})
			y = append(y, 2*a-3*b+5)
		}
	}

	ridge, err := fitRidge(x, y, 1e-8)
	require.NoError(t, err)

	assert.InDelta(t, 2, ridge.Weights[0], 1e-4)
	assert.InDelta(t, -3, ridge.Weights[1], 1e-4)
	assert.InDelta(t, 5, ridge.Intercept, 1e-4)
	assert.InDelta(t, 2*4-3*7+5, ridge.Predict([]float64{4, 7}), 1e-4)
}

func TestRidgeAlphaShrinksWeights(t *testing.T) {
	var x [][]float64
	var y []float64
	for a := 0.0; a < 20; a++ {
		x = append(x, []float64{a})
		y = append(y, 4*a)
	}

	loose, err := fitRidge(x, y, 1e-8)
	require.NoError(t, err)
	tight, err := fitRidge(x, y, 1000)
	require.NoError(t, err)

	assert.Less(t, math.Abs(tight.Weights[0]), math.Abs(loose.Weights[0]))
}

func TestRidgeRejectsBadInput(t *testing.T) {
	_, err := fitRidge(nil, nil, 1)
	assert.Error(t, err)

	_, err = fitRidge([][]float64{{1, 2}, {3}}, []float64{1, 2}, 1)
	assert.Error(t, err)

	_, err = fitRidge([][]float64{{1}, {2}}, []float64{1}, 1)
	assert.Error(t, err)
}
