package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is a fitted L2-regularized linear regression on scaled features.
type Ridge struct {
	Weights   []float64
	Intercept float64
}

// fitRidge solves the regularized normal equations
// (XᵀX + αI) w = Xᵀy on centered data, recovering the intercept from the
// column and target means afterwards.
func fitRidge(x [][]float64, y []float64, alpha float64) (*Ridge, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("cannot fit ridge on empty matrix")
	}
	if n != len(y) {
		return nil, fmt.Errorf("feature and target lengths differ: %d vs %d", n, len(y))
	}
	p := len(x[0])

	colMeans := make([]float64, p)
	for _, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("ragged matrix: row has %d columns, want %d", len(row), p)
		}
		for j, v := range row {
			colMeans[j] += v
		}
	}
	for j := range colMeans {
		colMeans[j] /= float64(n)
	}
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	centered := mat.NewDense(n, p, nil)
	for i, row := range x {
		for j, v := range row {
			centered.Set(i, j, v-colMeans[j])
		}
	}
	target := mat.NewVecDense(n, nil)
	for i, v := range y {
		target.SetVec(i, v-yMean)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, centered.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+alpha)
	}

	rhs := mat.NewVecDense(p, nil)
	rhs.MulVec(centered.T(), target)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, fmt.Errorf("ridge system is not positive definite")
	}
	weights := mat.NewVecDense(p, nil)
	if err := chol.SolveVecTo(weights, rhs); err != nil {
		return nil, fmt.Errorf("solving ridge system: %w", err)
	}

	r := &Ridge{Weights: make([]float64, p), Intercept: yMean}
	for j := 0; j < p; j++ {
		w := weights.AtVec(j)
		r.Weights[j] = w
		r.Intercept -= w * colMeans[j]
	}
	return r, nil
}

// Predict evaluates the linear model for one feature vector.
func (r *Ridge) Predict(row []float64) float64 {
	sum := r.Intercept
	for j, w := range r.Weights {
		sum += w * row[j]
	}
	return sum
}
