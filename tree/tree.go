/*
Package tree provides the decision tree model: its nodes, the classification
of samples with them and their evaluation against datasets.
*/
package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// Tree represents a decision tree. It is composed of its root node and
// the label it is able to classify samples with.
type Tree struct {
	Root  Node
	Label feature.Feature
}

// Stats summarizes the shape of a tree as it classifies samples: nodes under
// pruned feature nodes are not counted and pruned nodes count as leaves.
type Stats struct {
	FeatureNodes int
	LabelNodes   int
	PrunedNodes  int
	Depth        int
}

// New takes the root Node and a label feature and returns a tree
// with them.
func New(root Node, label feature.Feature) *Tree {
	return &Tree{root, label}
}

// Classify takes a sample and returns the label the tree assigns to it or an
// error if the sample could not be read.
func (t *Tree) Classify(ctx context.Context, s feature.Sample) (string, error) {
	if t == nil || t.Root == nil {
		return "", ErrNoRoot
	}
	return Classify(ctx, t.Root, s)
}

/*
Misclassified takes a context.Context and a Dataset and returns the number of
samples in the dataset the tree assigns a label different from theirs and
the number of samples in the dataset, or an error if the samples could not be
classified.
*/
func (t *Tree) Misclassified(ctx context.Context, ds dataset.Dataset) (wrong, total int, err error) {
	samples, err := ds.Samples(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, s := range samples {
		if err = ctx.Err(); err != nil {
			return 0, 0, err
		}
		label, err := s.ValueFor(ctx, t.Label)
		if err != nil {
			return 0, 0, err
		}
		classification, err := t.Classify(ctx, s)
		if err != nil {
			return 0, 0, err
		}
		if classification != label {
			wrong++
		}
	}
	return wrong, len(samples), nil
}

/*
ErrorRate takes a context.Context and a Dataset and returns the fraction of
samples in it the tree misclassifies. It returns dataset.ErrEmptyDataset for
datasets without samples.
*/
func (t *Tree) ErrorRate(ctx context.Context, ds dataset.Dataset) (float64, error) {
	wrong, total, err := t.Misclassified(ctx, ds)
	if err != nil {
		return 0.0, err
	}
	if total == 0 {
		return 0.0, dataset.ErrEmptyDataset
	}
	return float64(wrong) / float64(total), nil
}

/*
Test takes a context.Context and a Dataset and returns the classification
success rate of the tree over the given Dataset. It returns
dataset.ErrEmptyDataset for datasets without samples.
*/
func (t *Tree) Test(ctx context.Context, ds dataset.Dataset) (float64, error) {
	wrong, total, err := t.Misclassified(ctx, ds)
	if err != nil {
		return 0.0, err
	}
	if total == 0 {
		return 0.0, dataset.ErrEmptyDataset
	}
	return float64(total-wrong) / float64(total), nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node,
// including those under pruned nodes.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node) error) error {
	if t.Root == nil {
		return nil
	}
	return traverse(ctx, t.Root, bottomup, f)
}

func traverse(ctx context.Context, n Node, bottomup bool, f func(context.Context, Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
	}
	if err != nil {
		return err
	}
	if fn, ok := n.(*FeatureNode); ok {
		for _, sn := range fn.Children() {
			err = traverse(ctx, sn, bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		err = f(ctx, n)
	}
	return err
}

// Stats returns the Stats of the tree
func (t *Tree) Stats() Stats {
	var s Stats
	level := []Node{}
	if t.Root != nil {
		level = append(level, t.Root)
	}
	for len(level) > 0 {
		s.Depth++
		var next []Node
		for _, n := range level {
			switch tn := n.(type) {
			case *LabelNode:
				s.LabelNodes++
			case *FeatureNode:
				if tn.pruned {
					s.PrunedNodes++
					continue
				}
				s.FeatureNodes++
				next = append(next, tn.Children()...)
			}
		}
		level = next
	}
	return s
}

func (t *Tree) String() string {
	return Render(t.Root)
}

// Outline returns a multiline string drawing the tree top-down with
// its edge values and default labels.
func (t *Tree) Outline() string {
	if t.Root == nil {
		return ""
	}
	return subtreeOutline(t.Root)
}

func subtreeOutline(n Node) string {
	var result string
	fn, ok := n.(*FeatureNode)
	switch {
	case !ok:
		return fmt.Sprintf("[%s]\n", n)
	case fn.pruned:
		return fmt.Sprintf("[%s] { default %s, pruned }\n", fn, fn.Default)
	default:
		result = fmt.Sprintf("[%s] { default %s }\n|\n", fn, fn.Default)
	}
	values := fn.Values()
	for i, value := range values {
		child, _ := fn.Child(value)
		for j, line := range strings.Split(subtreeOutline(child), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s: %s\n", result, value, line)
				} else {
					if i == len(values)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
