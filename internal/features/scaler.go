package features

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RobustScaler centers features on their median and scales by the
// interquartile range, which keeps the long price and surface tails from
// dominating the linear model.
type RobustScaler struct {
	Medians []float64
	Scales  []float64
}

// FitScaler fits a scaler on a training matrix.
func FitScaler(rows [][]float64) (*RobustScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty matrix")
	}

	width := len(rows[0])
	scaler := &RobustScaler{
		Medians: make([]float64, width),
		Scales:  make([]float64, width),
	}

	column := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			if len(row) != width {
				return nil, fmt.Errorf("ragged matrix: row %d has %d columns, want %d", i, len(row), width)
			}
			column[i] = row[j]
		}
		sort.Float64s(column)

		scaler.Medians[j] = stat.Quantile(0.5, stat.Empirical, column, nil)
		iqr := stat.Quantile(0.75, stat.Empirical, column, nil) - stat.Quantile(0.25, stat.Empirical, column, nil)
		if iqr == 0 {
			// Constant or binary columns pass through unscaled.
			iqr = 1
		}
		scaler.Scales[j] = iqr
	}

	return scaler, nil
}

// Transform scales one vector, returning a new slice.
func (s *RobustScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Medians[j]) / s.Scales[j]
	}
	return out
}

// TransformMatrix scales a batch of vectors.
func (s *RobustScaler) TransformMatrix(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
