/*
Package sapling grows ID3 decision trees from categorical datasets and
prunes them with reduced error pruning against validation datasets.
*/
package sapling

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

// Error represents an error growing or pruning trees
type Error string

/*
ErrLabelAmongFeatures is returned when growing a tree with the label
feature among the features available to split samples.
*/
const ErrLabelAmongFeatures = Error("label feature among splitting features")

func (e Error) Error() string {
	return string(e)
}

// Grow takes a context, a dataset, a slice of features and
// a label feature and returns a tree that classifies samples
// with the label using the given features, grown with ID3 on the
// samples of the dataset.
//
// Nodes are developed recursively: a set of samples sharing a
// label becomes a label node for it, a set of samples for which
// no features remain becomes a label node for its majority
// label. Otherwise the feature with the highest information gain
// becomes a feature node, with the majority label as default and
// one child per value the feature takes on the set, grown without
// that feature on the samples taking the value. Equally informative
// features are resolved in favour of the first one in the slice.
//
// Grow returns dataset.ErrEmptyDataset if the dataset has no samples,
// ErrLabelAmongFeatures if the label is among the features, or the
// error of the context if it is cancelled while growing.
func Grow(ctx context.Context, ds dataset.Dataset, features []feature.Feature, label feature.Feature) (*tree.Tree, error) {
	if feature.Find(features, label.Name()) != nil {
		return nil, fmt.Errorf("growing tree for %s: %w", label.Name(), ErrLabelAmongFeatures)
	}
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("growing tree for %s: %w", label.Name(), dataset.ErrEmptyDataset)
	}
	root, err := grow(ctx, ds, features, label)
	if err != nil {
		return nil, err
	}
	return tree.New(root, label), nil
}

func grow(ctx context.Context, ds dataset.Dataset, features []feature.Feature, label feature.Feature) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	majority, err := dataset.MajorityValue(ctx, ds, label)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return tree.NewLabelNode(majority), nil
	}
	labels, err := ds.FeatureValues(ctx, label)
	if err != nil {
		return nil, err
	}
	if len(labels) == 1 {
		return tree.NewLabelNode(labels[0]), nil
	}
	baseEntropy, err := ds.Entropy(ctx, label)
	if err != nil {
		return nil, err
	}
	var selected *Partition
	for _, f := range features {
		p, err := NewPartition(ctx, ds, f, label, baseEntropy)
		if err != nil {
			return nil, err
		}
		if selected == nil || p.informationGain > selected.informationGain {
			selected = p
		}
	}
	n := tree.NewFeatureNode(selected.Feature, majority)
	remaining := feature.Without(features, selected.Feature)
	for i, value := range selected.Values {
		child, err := grow(ctx, selected.Subsets[i], remaining, label)
		if err != nil {
			return nil, err
		}
		n.AddChild(value, child)
	}
	return n, nil
}
