package tree

import (
	"context"

	"github.com/pbanos/sapling/feature"
)

// ClassificationError represents an error related with classifications
type ClassificationError string

/*
ErrNoRoot is the error returned when classifying samples with a tree without
nodes.
*/
const ErrNoRoot = ClassificationError("cannot classify samples without a root node")

func (ce ClassificationError) Error() string {
	return string(ce)
}

/*
Classify takes a context, the root node of a (sub)tree and a sample and
returns the label the (sub)tree assigns to the sample.

Label nodes classify with their value, pruned feature nodes with their
default label. Other feature nodes follow the edge for the value of the
sample; when no edge matches it, the default label of the node is returned.
The only errors returned are those obtained from the sample itself.
*/
func Classify(ctx context.Context, n Node, s feature.Sample) (string, error) {
	for {
		switch tn := n.(type) {
		case *LabelNode:
			return tn.Value, nil
		case *FeatureNode:
			if tn.pruned {
				return tn.Default, nil
			}
			v, err := s.ValueFor(ctx, tn.Feature)
			if err != nil {
				return "", err
			}
			child, ok := tn.Child(v)
			if !ok {
				return tn.Default, nil
			}
			n = child
		default:
			return "", ErrNoRoot
		}
	}
}
