package dataset

import (
	"context"
	"math"
	"sort"

	"github.com/pbanos/sapling/feature"
)

/*
Entropy takes a map of value counts and returns the entropy in bits of the
distribution they describe: the sum of -p·log2(p) over every value with
probability p. A distribution with a single value has an entropy of exactly 0.
It returns ErrEmptyDistribution when the counts add up to zero or any of
them is negative.
*/
func Entropy(counts map[string]int) (float64, error) {
	var total int
	values := make([]string, 0, len(counts))
	for v, c := range counts {
		if c < 0 {
			return 0.0, ErrEmptyDistribution
		}
		total += c
		values = append(values, v)
	}
	if total == 0 {
		return 0.0, ErrEmptyDistribution
	}
	// fixed summation order keeps equal gains comparable across runs
	sort.Strings(values)
	var result float64
	for _, v := range values {
		c := counts[v]
		if c == 0 || c == total {
			continue
		}
		p := float64(c) / float64(total)
		result -= p * math.Log2(p)
	}
	return result, nil
}

/*
MajorityValue takes a context, a dataset and a feature and returns the value
for the feature most samples in the dataset take. Ties are resolved in favour
of the value that appears first in the dataset. It returns ErrEmptyDataset
if the dataset has no samples.
*/
func MajorityValue(ctx context.Context, ds Dataset, f feature.Feature) (string, error) {
	values, err := ds.FeatureValues(ctx, f)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", ErrEmptyDataset
	}
	counts, err := ds.CountFeatureValues(ctx, f)
	if err != nil {
		return "", err
	}
	result := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[result] {
			result = v
		}
	}
	return result, nil
}
