package sapling

import (
	"context"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Partition represents a partition of a dataset according to a feature
into subsets, one per value the feature takes on the dataset, with an
information gain to predict the label feature
*/
type Partition struct {
	Feature         feature.Feature
	Values          []string
	Subsets         []dataset.Dataset
	informationGain float64
}

/*
InformationGain returns the reduction of entropy on the label obtained by
partitioning the dataset.
*/
func (p *Partition) InformationGain() float64 {
	return p.informationGain
}

/*
NewPartition takes a context.Context, a dataset, a feature, a label feature and
the entropy of the dataset for the label and returns a partition of the dataset
for the given feature.

The dataset is split for every distinct value of the feature, in the order
they first appear on the dataset, so no subset is ever empty. The information
gain of the partition is computed as

	baseEntropy - Σ |Sv|/|S| · Entropy(Sv)

with Sv being the subset for value v. An empty dataset results in
dataset.ErrEmptyDataset.
*/
func NewPartition(ctx context.Context, s dataset.Dataset, f feature.Feature, label feature.Feature, baseEntropy float64) (*Partition, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	values, err := s.FeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	totalCount := float64(count)
	informationGain := baseEntropy
	subsets := make([]dataset.Dataset, 0, len(values))
	for _, value := range values {
		ns, err := s.SubsetWith(ctx, feature.NewDiscreteCriterion(f, value))
		if err != nil {
			return nil, err
		}
		subsets = append(subsets, ns)
		nEntropy, err := ns.Entropy(ctx, label)
		if err != nil {
			return nil, err
		}
		subsetCount, err := ns.Count(ctx)
		if err != nil {
			return nil, err
		}
		informationGain -= nEntropy * float64(subsetCount) / totalCount
	}
	return &Partition{f, values, subsets, informationGain}, nil
}

/*
InformationGain takes a context.Context, a dataset, a feature, a label feature
and the entropy of the dataset for the label and returns the information gain
of partitioning the dataset with the feature.
*/
func InformationGain(ctx context.Context, s dataset.Dataset, f feature.Feature, label feature.Feature, baseEntropy float64) (float64, error) {
	p, err := NewPartition(ctx, s, f, label, baseEntropy)
	if err != nil {
		return 0.0, err
	}
	return p.informationGain, nil
}
