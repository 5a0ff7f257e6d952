package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

/*
Range returns the indices in the half-open interval [start, end).
*/
func Range(start, end int) []int {
	if end <= start {
		return []int{}
	}
	result := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		result = append(result, i)
	}
	return result
}

/*
ParseRanges takes a comma separated list of index ranges and the number of
samples they apply to and returns the indices they describe, in the order
they are given.

Every range is either a single index or a half-open interval "start:end",
where a missing start means 0 and a missing end means n. An empty
string describes no indices at all. Indices outside [0, n) result in an
error wrapping ErrIndexOutOfRange.
*/
func ParseRanges(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	result := []int{}
	for _, r := range strings.Split(s, ",") {
		r = strings.TrimSpace(r)
		bounds := strings.SplitN(r, ":", 2)
		start, err := parseBound(bounds[0], 0)
		if err != nil {
			return nil, fmt.Errorf("parsing range %q: %v", r, err)
		}
		end := start + 1
		if len(bounds) == 2 {
			end, err = parseBound(bounds[1], n)
			if err != nil {
				return nil, fmt.Errorf("parsing range %q: %v", r, err)
			}
		}
		if start < 0 || end > n || start > end {
			return nil, fmt.Errorf("range %q on %d samples: %w", r, n, ErrIndexOutOfRange)
		}
		result = append(result, Range(start, end)...)
	}
	return result, nil
}

func parseBound(s string, missing int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return missing, nil
	}
	return strconv.Atoi(s)
}

/*
Select takes a context, a dataset and a slice of indices and returns a new
dataset with the samples of the given one at those indices, in the order
the indices are given. An index outside the dataset results in an error
wrapping ErrIndexOutOfRange.
*/
func Select(ctx context.Context, ds Dataset, indices []int) (Dataset, error) {
	samples, err := ds.Samples(ctx)
	if err != nil {
		return nil, err
	}
	selected := make([]Sample, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(samples) {
			return nil, fmt.Errorf("selecting sample %d of %d: %w", i, len(samples), ErrIndexOutOfRange)
		}
		selected = append(selected, samples[i])
	}
	return New(selected), nil
}
