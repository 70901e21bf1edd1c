package matching

import (
	"context"
	"math"
)

// Vector is a sparse term-weight vector.
type Vector map[string]float64

// Dot returns the inner product of v and other.
func (v Vector) Dot(other Vector) float64 {
	small, large := v, other
	if len(small) > len(large) {
		small, large = large, small
	}
	var sum float64
	for term, w := range small {
		sum += w * large[term]
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// normalize scales v to unit length in place. A zero vector is left as is.
func (v Vector) normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for term := range v {
		v[term] /= n
	}
}

// FeatureSpace is a tf-idf weighting fitted on one corpus. Documents of that
// corpus and queries are projected into it with Transform.
type FeatureSpace struct {
	corpus *Corpus
	idf    map[string]float64
}

// Fit builds the feature space from the corpus documents only. The inverse
// document frequency is smoothed, idf(t) = ln((1+N)/(1+df(t))) + 1, so terms
// occurring in every document still carry weight.
func Fit(ctx context.Context, corpus *Corpus) (*FeatureSpace, error) {
	df, total, err := corpus.DocumentFrequencies(ctx)
	if err != nil {
		return nil, err
	}

	idf := make(map[string]float64, len(df))
	n := float64(total)
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	return &FeatureSpace{corpus: corpus, idf: idf}, nil
}

// Dimensions returns the vocabulary size.
func (s *FeatureSpace) Dimensions() int {
	return len(s.idf)
}

// Transform projects text into the space as an L2-normalized tf-idf vector.
// Terms outside the fitted vocabulary are dropped; text without any known
// term yields an empty vector.
func (s *FeatureSpace) Transform(text string) Vector {
	v := make(Vector)
	for term, tf := range s.corpus.Terms(text) {
		idf, ok := s.idf[term]
		if !ok {
			continue
		}
		v[term] = float64(tf) * idf
	}
	v.normalize()
	return v
}
