package tree

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/pbanos/sapling/feature"
)

/*
Node is a node of a decision tree. It is either a *FeatureNode, that asks
samples about a feature, or a *LabelNode, that classifies them.
*/
type Node interface {
	String() string
	node()
}

/*
LabelNode is a terminal node that classifies every sample reaching it
with its Value.
*/
type LabelNode struct {
	Value string
}

/*
NewLabelNode takes a label value and returns a LabelNode for it.
*/
func NewLabelNode(value string) *LabelNode {
	return &LabelNode{value}
}

func (ln *LabelNode) String() string {
	return ln.Value
}

func (*LabelNode) node() {}

/*
FeatureNode is an internal node that sends samples down the edge matching
their value for Feature. Edges keep the order in which they were added.
Samples with a value no edge matches are classified with Default, the
majority label of the samples the node was grown from.

A FeatureNode marked as pruned behaves as a leaf classifying every sample
with Default, but it keeps its edges so the mark can be cleared.
*/
type FeatureNode struct {
	Feature feature.Feature
	Default string
	edges   *linkedhashmap.Map
	pruned  bool
}

/*
NewFeatureNode takes a feature and a default label and returns a FeatureNode
without edges.
*/
func NewFeatureNode(f feature.Feature, defaultLabel string) *FeatureNode {
	return &FeatureNode{Feature: f, Default: defaultLabel, edges: linkedhashmap.New()}
}

/*
AddChild registers the given node under the edge for the given value.
Adding a child for a value that already has one replaces it keeping the
edge position.
*/
func (fn *FeatureNode) AddChild(value string, child Node) {
	if fn.edges == nil {
		fn.edges = linkedhashmap.New()
	}
	fn.edges.Put(value, child)
}

/*
Child returns the node under the edge for the given value and whether there
is such an edge.
*/
func (fn *FeatureNode) Child(value string) (Node, bool) {
	if fn.edges == nil {
		return nil, false
	}
	child, ok := fn.edges.Get(value)
	if !ok {
		return nil, false
	}
	return child.(Node), true
}

/*
Values returns the values of the edges of the node in insertion order.
*/
func (fn *FeatureNode) Values() []string {
	if fn.edges == nil {
		return nil
	}
	keys := fn.edges.Keys()
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k.(string))
	}
	return result
}

/*
Children returns the nodes under the edges of the node in insertion order.
*/
func (fn *FeatureNode) Children() []Node {
	if fn.edges == nil {
		return nil
	}
	values := fn.edges.Values()
	result := make([]Node, 0, len(values))
	for _, v := range values {
		result = append(result, v.(Node))
	}
	return result
}

// Pruned returns whether the node is marked as pruned
func (fn *FeatureNode) Pruned() bool {
	return fn.pruned
}

// SetPruned marks or unmarks the node as pruned
func (fn *FeatureNode) SetPruned(pruned bool) {
	fn.pruned = pruned
}

func (fn *FeatureNode) String() string {
	return fn.Feature.Name()
}

func (*FeatureNode) node() {}
