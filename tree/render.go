package tree

import (
	"fmt"
	"strings"
)

/*
Render takes the root node of a (sub)tree and returns its breadth-first
drawing. Every depth level takes two lines: the first one lists the nodes
at that level separated by spaces, the second one the "(value, child)"
pairs of the edges leading to the next level. The edge line of the last
level is empty, so a tree made of a single label node renders as its
label followed by an empty line. Pruned feature nodes are drawn without
their children.
*/
func Render(root Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	level := []Node{root}
	for len(level) > 0 {
		var next []Node
		ids := make([]string, 0, len(level))
		var edges []string
		for _, n := range level {
			ids = append(ids, n.String())
			fn, ok := n.(*FeatureNode)
			if !ok || fn.pruned {
				continue
			}
			for _, value := range fn.Values() {
				child, _ := fn.Child(value)
				edges = append(edges, fmt.Sprintf("(%s, %s)", value, child))
				next = append(next, child)
			}
		}
		b.WriteString(strings.Join(ids, " "))
		b.WriteString("\n")
		b.WriteString(strings.Join(edges, " "))
		b.WriteString("\n")
		level = next
	}
	return b.String()
}
