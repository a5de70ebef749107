package features

import (
	"sort"
)

// OtherClass is the bucket for categories unseen at fit time or too rare
// to carry signal.
const OtherClass = "other"

// Encoder is a fitted label encoder: category string to small integer.
// Unknown categories map to the other-bucket, never to an error, so a
// serving-time department the training data never saw still predicts.
type Encoder struct {
	Classes map[string]int
}

// FitEncoder fits an encoder on observed values. Values occurring fewer
// than minCount times are folded into the other-bucket, which is always
// class 0.
func FitEncoder(values []string, minCount int) *Encoder {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	kept := make([]string, 0, len(counts))
	for v, n := range counts {
		if n >= minCount && v != OtherClass {
			kept = append(kept, v)
		}
	}
	sort.Strings(kept)

	classes := make(map[string]int, len(kept)+1)
	classes[OtherClass] = 0
	for i, v := range kept {
		classes[v] = i + 1
	}

	return &Encoder{Classes: classes}
}

// Transform encodes one value. Unknown values return the other-bucket.
func (e *Encoder) Transform(value string) int {
	if code, ok := e.Classes[value]; ok {
		return code
	}
	return 0
}

// Len returns the number of classes including the other-bucket.
func (e *Encoder) Len() int {
	return len(e.Classes)
}
