package model

import (
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted regression tree. Fields are exported
// so the whole tree round-trips through gob.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Tree is a single CART regression tree predicting the log-price target.
type Tree struct {
	Root *TreeNode
}

// treeParams are the growth limits for one tree.
type treeParams struct {
	maxDepth         int
	minSamplesSplit  int
	minSamplesLeaf   int
	randomThresholds bool
}

// fitTree grows a tree on the rows selected by indices. With
// randomThresholds the split point per feature is drawn uniformly between
// the feature's minimum and maximum instead of searched exhaustively.
func fitTree(x [][]float64, y []float64, indices []int, params treeParams, rng *rand.Rand) *Tree {
	return &Tree{Root: growNode(x, y, indices, 0, params, rng)}
}

// Predict walks the tree for one feature vector.
func (t *Tree) Predict(row []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func growNode(x [][]float64, y []float64, indices []int, depth int, params treeParams, rng *rand.Rand) *TreeNode {
	if depth >= params.maxDepth || len(indices) < params.minSamplesSplit {
		return leafNode(y, indices)
	}

	feature, threshold, ok := bestSplit(x, y, indices, params, rng)
	if !ok {
		return leafNode(y, indices)
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < params.minSamplesLeaf || len(right) < params.minSamplesLeaf {
		return leafNode(y, indices)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growNode(x, y, left, depth+1, params, rng),
		Right:     growNode(x, y, right, depth+1, params, rng),
	}
}

func leafNode(y []float64, indices []int) *TreeNode {
	var sum float64
	for _, i := range indices {
		sum += y[i]
	}
	return &TreeNode{Leaf: true, Value: sum / float64(len(indices))}
}

// bestSplit finds the split with the largest reduction in squared error.
// It returns ok=false when no split separates the samples, which happens
// when every row is identical in every feature.
func bestSplit(x [][]float64, y []float64, indices []int, params treeParams, rng *rand.Rand) (int, float64, bool) {
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	parentSSE := sumSquaredError(y, indices)
	features := len(x[indices[0]])

	for f := 0; f < features; f++ {
		var threshold float64
		var gain float64
		var ok bool
		if params.randomThresholds {
			threshold, gain, ok = randomSplit(x, y, indices, f, parentSSE, params.minSamplesLeaf, rng)
		} else {
			threshold, gain, ok = exhaustiveSplit(x, y, indices, f, parentSSE, params.minSamplesLeaf)
		}
		if ok && gain > bestGain {
			bestGain = gain
			bestFeature = f
			bestThreshold = threshold
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// exhaustiveSplit scans every midpoint between consecutive distinct
// values of one feature, tracking squared error with running sums so the
// whole scan is a single pass over the sorted samples.
func exhaustiveSplit(x [][]float64, y []float64, indices []int, feature int, parentSSE float64, minLeaf int) (float64, float64, bool) {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Slice(sorted, func(a, b int) bool {
		return x[sorted[a]][feature] < x[sorted[b]][feature]
	})

	n := len(sorted)
	var totalSum, totalSq float64
	for _, i := range sorted {
		totalSum += y[i]
		totalSq += y[i] * y[i]
	}

	bestGain := 0.0
	bestThreshold := 0.0
	found := false

	var leftSum, leftSq float64
	for pos := 0; pos < n-1; pos++ {
		yi := y[sorted[pos]]
		leftSum += yi
		leftSq += yi * yi

		cur := x[sorted[pos]][feature]
		next := x[sorted[pos+1]][feature]
		if cur == next {
			continue
		}

		leftN := pos + 1
		rightN := n - leftN
		if leftN < minLeaf || rightN < minLeaf {
			continue
		}

		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		leftSSE := leftSq - leftSum*leftSum/float64(leftN)
		rightSSE := rightSq - rightSum*rightSum/float64(rightN)

		gain := parentSSE - leftSSE - rightSSE
		if gain > bestGain {
			bestGain = gain
			bestThreshold = (cur + next) / 2
			found = true
		}
	}

	return bestThreshold, bestGain, found
}

// randomSplit draws one uniform threshold between the feature's extremes
// and scores it, the extremely randomized trees strategy.
func randomSplit(x [][]float64, y []float64, indices []int, feature int, parentSSE float64, minLeaf int, rng *rand.Rand) (float64, float64, bool) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, i := range indices {
		v := x[i][feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo >= hi {
		return 0, 0, false
	}

	threshold := lo + rng.Float64()*(hi-lo)

	var leftSum, leftSq, rightSum, rightSq float64
	var leftN, rightN int
	for _, i := range indices {
		yi := y[i]
		if x[i][feature] <= threshold {
			leftSum += yi
			leftSq += yi * yi
			leftN++
		} else {
			rightSum += yi
			rightSq += yi * yi
			rightN++
		}
	}
	if leftN < minLeaf || rightN < minLeaf {
		return 0, 0, false
	}

	leftSSE := leftSq - leftSum*leftSum/float64(leftN)
	rightSSE := rightSq - rightSum*rightSum/float64(rightN)
	gain := parentSSE - leftSSE - rightSSE
	if gain <= 0 {
		return 0, 0, false
	}

	return threshold, gain, true
}

func sumSquaredError(y []float64, indices []int) float64 {
	var sum, sq float64
	for _, i := range indices {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(indices))
	return sq - sum*sum/n
}
