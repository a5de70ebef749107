package model

import (
	"fmt"
	"math/rand"

	"estimmo/pkg/contracts/domain"
)

// trainTestSplit shuffles row indices with the given seed and holds out
// the last testFraction of them. The same seed always produces the same
// partition.
func trainTestSplit(rows []domain.Transaction, testFraction float64, seed int64) (train, test []domain.Transaction, err error) {
	n := len(rows)
	testN := int(float64(n) * testFraction)
	if testN == 0 || testN == n {
		return nil, nil, fmt.Errorf("%d rows cannot support a %.0f%% holdout", n, testFraction*100)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(a, b int) {
		indices[a], indices[b] = indices[b], indices[a]
	})

	train = make([]domain.Transaction, 0, n-testN)
	test = make([]domain.Transaction, 0, testN)
	for pos, i := range indices {
		if pos < n-testN {
			train = append(train, rows[i])
		} else {
			test = append(test, rows[i])
		}
	}
	return train, test, nil
}
