package model

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Forest is a bagged ensemble of regression trees. With Bootstrap each
// tree sees a resampled copy of the training rows; without it every tree
// sees all rows and relies on randomized thresholds for diversity.
type Forest struct {
	Trees []*Tree
}

// fitForest fits the configured number of trees in parallel. Each tree
// gets its own seed derived from the base seed and its index, so the
// fitted forest is identical run to run regardless of scheduling.
func fitForest(ctx context.Context, x [][]float64, y []float64, cfg ForestConfig, seed int64) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("cannot fit forest on empty matrix")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("feature and target lengths differ: %d vs %d", len(x), len(y))
	}

	params := treeParams{
		maxDepth:         cfg.MaxDepth,
		minSamplesSplit:  cfg.MinSamplesSplit,
		minSamplesLeaf:   cfg.MinSamplesLeaf,
		randomThresholds: cfg.RandomThresholds,
	}

	forest := &Forest{Trees: make([]*Tree, cfg.Trees)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for t := 0; t < cfg.Trees; t++ {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed + int64(t)))

			indices := make([]int, len(x))
			if cfg.Bootstrap {
				for i := range indices {
					indices[i] = rng.Intn(len(x))
				}
			} else {
				for i := range indices {
					indices[i] = i
				}
			}

			forest.Trees[t] = fitTree(x, y, indices, params, rng)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fitting forest: %w", err)
	}
	return forest, nil
}

// Predict averages the predictions of every tree.
func (f *Forest) Predict(row []float64) float64 {
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.Predict(row)
	}
	return sum / float64(len(f.Trees))
}
