package sapling

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/tree"
)

/*
PruneReport describes the outcome of pruning a tree.

InitialError and FinalError are the error rates of the tree on the
validation dataset before and after pruning. Candidates is the number of
feature nodes evaluated for pruning and Pruned the number of them left
marked as pruned. Skipped is true when there was nothing to validate
against and the tree was left untouched.
*/
type PruneReport struct {
	InitialError float64
	FinalError   float64
	Candidates   int
	Pruned       int
	Skipped      bool
}

func (pr *PruneReport) String() string {
	if pr.Skipped {
		return "pruning skipped: empty validation dataset"
	}
	return fmt.Sprintf("pruned %d of %d candidate nodes, validation error %.4f -> %.4f", pr.Pruned, pr.Candidates, pr.InitialError, pr.FinalError)
}

/*
Pruner is an interface wrapping the Prune method, that can be used
to simplify a grown tree.

The Prune method takes a context and a tree, marks the feature nodes of the
tree that must behave as leaves and returns a report of the pruning.
*/
type Pruner interface {
	Prune(ctx context.Context, t *tree.Tree) (*PruneReport, error)
}

/*
PrunerFunc wraps a function with the Prune method signature to implement
the Pruner interface
*/
type PrunerFunc func(ctx context.Context, t *tree.Tree) (*PruneReport, error)

/*
Prune takes a context.Context and a tree and invokes the PrunerFunc with
those parameters to return its result.
*/
func (pf PrunerFunc) Prune(ctx context.Context, t *tree.Tree) (*PruneReport, error) {
	return pf(ctx, t)
}

/*
ReducedErrorPruner returns a Pruner whose Prune method applies reduced error
pruning to trees against the given validation dataset, as Prune does.
*/
func ReducedErrorPruner(validation dataset.Dataset) Pruner {
	return PrunerFunc(func(ctx context.Context, t *tree.Tree) (*PruneReport, error) {
		return Prune(ctx, t, validation)
	})
}

/*
NoPruner returns a Pruner whose Prune method never prunes, reporting
itself as skipped.
*/
func NoPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, t *tree.Tree) (*PruneReport, error) {
		return &PruneReport{Skipped: true}, nil
	})
}

/*
Prune takes a context.Context, a tree and a validation dataset and applies
reduced error pruning to the tree in place.

Feature nodes are visited in post-order. A feature node is a candidate once
all its children are label nodes or pruned feature nodes. A candidate is
marked as pruned, so it classifies every sample with its default label, and
the misclassified samples of the whole validation dataset are counted again:
the mark is kept if there are no more of them than before and cleared
otherwise. Marks left by earlier runs are cleared first, so a tree pruned
again against another validation dataset may regain nodes. Nodes are never
removed, and pruning a tree again against the same validation dataset
changes nothing.

An empty validation dataset leaves the tree untouched and the returned
report is Skipped.
*/
func Prune(ctx context.Context, t *tree.Tree, validation dataset.Dataset) (*PruneReport, error) {
	total, err := validation.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("pruning: %w", err)
	}
	if total == 0 {
		return &PruneReport{Skipped: true}, nil
	}
	err = t.Traverse(ctx, false, func(_ context.Context, n tree.Node) error {
		if fn, ok := n.(*tree.FeatureNode); ok {
			fn.SetPruned(false)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pruning: %w", err)
	}
	wrong, _, err := t.Misclassified(ctx, validation)
	if err != nil {
		return nil, fmt.Errorf("pruning: %w", err)
	}
	rep := &reducedErrorPruning{tree: t, validation: validation, wrong: wrong}
	_, err = rep.visit(ctx, t.Root)
	if err != nil {
		return nil, fmt.Errorf("pruning: %w", err)
	}
	return &PruneReport{
		InitialError: float64(wrong) / float64(total),
		FinalError:   float64(rep.wrong) / float64(total),
		Candidates:   rep.candidates,
		Pruned:       rep.pruned,
	}, nil
}

type reducedErrorPruning struct {
	tree       *tree.Tree
	validation dataset.Dataset
	wrong      int
	candidates int
	pruned     int
}

func (rep *reducedErrorPruning) visit(ctx context.Context, n tree.Node) (bool, error) {
	fn, ok := n.(*tree.FeatureNode)
	if !ok {
		return true, nil
	}
	prunable := true
	for _, child := range fn.Children() {
		ok, err := rep.visit(ctx, child)
		if err != nil {
			return false, err
		}
		prunable = prunable && ok
	}
	if !prunable {
		return false, nil
	}
	rep.candidates++
	fn.SetPruned(true)
	wrong, _, err := rep.tree.Misclassified(ctx, rep.validation)
	if err != nil {
		return false, err
	}
	if wrong <= rep.wrong {
		rep.wrong = wrong
		rep.pruned++
		return true, nil
	}
	fn.SetPruned(false)
	return false, nil
}
