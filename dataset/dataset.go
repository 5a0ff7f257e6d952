/*
Package dataset provides the Dataset abstraction over which trees are
grown and evaluated, together with in-memory implementations of it and
helpers to select rows by index.
*/
package dataset

import (
	"context"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/pbanos/sapling/feature"
)

// Error represents a dataset related error
type Error string

const (
	// ErrEmptyDataset is returned by operations that require at least one sample
	ErrEmptyDataset = Error("empty dataset")
	// ErrEmptyDistribution is returned when computing the entropy of no counts
	ErrEmptyDistribution = Error("empty value distribution")
	// ErrIndexOutOfRange is returned when selecting a sample that does not exist
	ErrIndexOutOfRange = Error("sample index out of range")
)

func (e Error) Error() string {
	return string(e)
}

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents an ordered collection of samples.

Its Entropy method returns the entropy of the dataset for a given Feature: a
measure of the disinformation we have on the classes of samples that belong to
it.

Its SubsetWith method takes a feature.Criterion and returns a subset that only
contains samples that satisfy it, keeping their relative order.

Its FeatureValues method returns the distinct values the samples take for a
feature, in order of first appearance.

Its CountFeatureValues method returns how many samples take each value for
a feature.

Its Samples method returns the samples it contains and its Sample method the
one at the given position.
*/
type Dataset interface {
	Entropy(context.Context, feature.Feature) (float64, error)
	SubsetWith(context.Context, feature.Criterion) (Dataset, error)
	FeatureValues(context.Context, feature.Feature) ([]string, error)
	CountFeatureValues(context.Context, feature.Feature) (map[string]int, error)
	Samples(context.Context) ([]Sample, error)
	Sample(context.Context, int) (Sample, error)
	Count(context.Context) (int, error)
}

/*
Generator is a function that builds a Dataset from a slice of samples.
New, NewMemoryIntensive and NewCPUIntensive are Generators.
*/
type Generator func([]Sample) Dataset

type memoryIntensiveSubsettingDataset struct {
	samples []Sample
}

type cpuIntensiveSubsettingDataset struct {
	samples  []Sample
	criteria []feature.Criterion
}

/*
New takes a slice of samples and returns a dataset built with them.
The dataset will be a CPU intensive one when the number of samples is
over sampleCountThresholdForDatasetImplementation
*/
func New(samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return NewCPUIntensive(samples)
	}
	return NewMemoryIntensive(samples)
}

/*
NewMemoryIntensive takes a slice of samples and returns a Dataset
built with them. A memory-intensive dataset is an implementation that
replicates the slice of samples when subsetting to reduce
calculations at the cost of increased memory.
*/
func NewMemoryIntensive(samples []Sample) Dataset {
	return &memoryIntensiveSubsettingDataset{samples}
}

/*
NewCPUIntensive takes a slice of samples and returns a Dataset
built with them. A cpu-intensive dataset is an implementation that
instead of replicating the samples when subsetting, stores the
applying feature criteria to define the subset and keeps the same
sample slice. This can achieve a drastic reduction in memory use
that comes at the cost of CPU time: every calculation that goes over
the samples of the dataset will apply the feature criteria of the dataset
on all original samples (the ones provided to this method).
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &cpuIntensiveSubsettingDataset{samples, nil}
}

func (s *memoryIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *cpuIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	var length int
	err := s.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return length, nil
}

func (s *memoryIntensiveSubsettingDataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	counts, err := s.CountFeatureValues(ctx, f)
	if err != nil {
		return 0.0, err
	}
	return Entropy(counts)
}

func (s *cpuIntensiveSubsettingDataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	counts, err := s.CountFeatureValues(ctx, f)
	if err != nil {
		return 0.0, err
	}
	return Entropy(counts)
}

func (s *memoryIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]string, error) {
	encountered := linkedhashset.New()
	for _, sample := range s.samples {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return nil, err
		}
		encountered.Add(v)
	}
	return stringValues(encountered), nil
}

func (s *cpuIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]string, error) {
	encountered := linkedhashset.New()
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		encountered.Add(v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return stringValues(encountered), nil
}

func (s *memoryIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	var samples []Sample
	for _, sample := range s.samples {
		ok, err := fc.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, sample)
		}
	}
	return &memoryIntensiveSubsettingDataset{samples}, nil
}

func (s *cpuIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	return &cpuIntensiveSubsettingDataset{s.samples, appendCriterion(s.criteria, fc)}, nil
}

func (s *memoryIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *cpuIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *memoryIntensiveSubsettingDataset) Sample(ctx context.Context, i int) (Sample, error) {
	if i < 0 || i >= len(s.samples) {
		return nil, ErrIndexOutOfRange
	}
	return s.samples[i], nil
}

func (s *cpuIntensiveSubsettingDataset) Sample(ctx context.Context, i int) (Sample, error) {
	if i < 0 {
		return nil, ErrIndexOutOfRange
	}
	var result Sample
	position := 0
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		if position == i {
			result = sample
			return false, nil
		}
		position++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrIndexOutOfRange
	}
	return result, nil
}

func (s *memoryIntensiveSubsettingDataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	result := make(map[string]int)
	for _, sample := range s.samples {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return nil, err
		}
		result[v]++
	}
	return result, nil
}

func (s *cpuIntensiveSubsettingDataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	result := make(map[string]int)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		result[v]++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *cpuIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range s.samples {
		skip := false
		for _, criterion := range s.criteria {
			ok, err := criterion.SatisfiedBy(ctx, sample)
			if err != nil {
				return err
			}
			if !ok {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

func appendCriterion(criteria []feature.Criterion, fc feature.Criterion) []feature.Criterion {
	result := make([]feature.Criterion, 0, len(criteria)+1)
	result = append(result, fc)
	return append(result, criteria...)
}

func stringValues(set *linkedhashset.Set) []string {
	values := set.Values()
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, v.(string))
	}
	return result
}
