package tree_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	outlook  = feature.NewDiscreteFeature("Outlook", []string{"Sunny", "Overcast", "Rain"})
	humidity = feature.NewDiscreteFeature("Humidity", []string{"High", "Normal"})
	wind     = feature.NewDiscreteFeature("Wind", []string{"Weak", "Strong"})
	play     = feature.NewDiscreteFeature("Play?", []string{"Yes", "No"})
)

func weatherTree() (*tree.Tree, *tree.FeatureNode, *tree.FeatureNode) {
	hn := tree.NewFeatureNode(humidity, "No")
	hn.AddChild("High", tree.NewLabelNode("No"))
	hn.AddChild("Normal", tree.NewLabelNode("Yes"))
	wn := tree.NewFeatureNode(wind, "Yes")
	wn.AddChild("Weak", tree.NewLabelNode("Yes"))
	wn.AddChild("Strong", tree.NewLabelNode("No"))
	root := tree.NewFeatureNode(outlook, "Yes")
	root.AddChild("Sunny", hn)
	root.AddChild("Overcast", tree.NewLabelNode("Yes"))
	root.AddChild("Rain", wn)
	return tree.New(root, play), root, hn
}

func sample(outlookV, humidityV, windV, playV string) dataset.Sample {
	return dataset.NewSample(map[string]string{
		"Outlook":  outlookV,
		"Humidity": humidityV,
		"Wind":     windV,
		"Play?":    playV,
	})
}

type failingSample struct{}

func (failingSample) ValueFor(context.Context, feature.Feature) (string, error) {
	return "", fmt.Errorf("unreadable")
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	tr, root, hn := weatherTree()
	tests := []struct {
		name     string
		sample   dataset.Sample
		expected string
	}{
		{"sunny humid", sample("Sunny", "High", "Weak", ""), "No"},
		{"sunny normal", sample("Sunny", "Normal", "Strong", ""), "Yes"},
		{"overcast", sample("Overcast", "High", "Strong", ""), "Yes"},
		{"rain strong", sample("Rain", "High", "Strong", ""), "No"},
		{"unseen root value", sample("Snow", "High", "Strong", ""), "Yes"},
		{"undefined root value", sample("", "High", "Strong", ""), "Yes"},
		{"unseen inner value", sample("Sunny", "Dry", "Weak", ""), "No"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, err := tr.Classify(ctx, tc.sample)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, label)
		})
	}

	hn.SetPruned(true)
	label, err := tr.Classify(ctx, sample("Sunny", "Normal", "Weak", ""))
	require.NoError(t, err)
	assert.Equal(t, "No", label)

	root.SetPruned(true)
	label, err = tree.Classify(ctx, root, failingSample{})
	require.NoError(t, err, "pruned nodes do not read the sample")
	assert.Equal(t, "Yes", label)

	root.SetPruned(false)
	_, err = tree.Classify(ctx, root, failingSample{})
	assert.Error(t, err)

	_, err = tree.New(nil, play).Classify(ctx, sample("Sunny", "", "", ""))
	assert.True(t, errors.Is(err, tree.ErrNoRoot))
}

func TestMisclassified(t *testing.T) {
	ctx := context.Background()
	tr, _, hn := weatherTree()
	ds := dataset.New([]dataset.Sample{
		sample("Sunny", "High", "Weak", "No"),
		sample("Sunny", "Normal", "Weak", "Yes"),
		sample("Overcast", "High", "Weak", "No"),
		sample("Rain", "High", "Weak", "Yes"),
	})

	wrong, total, err := tr.Misclassified(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 1, wrong)
	assert.Equal(t, 4, total)

	rate, err := tr.ErrorRate(ctx, ds)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, rate, 1e-12)

	success, err := tr.Test(ctx, ds)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, success, 1e-12)

	hn.SetPruned(true)
	wrong, _, err = tr.Misclassified(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 2, wrong)

	_, err = tr.ErrorRate(ctx, dataset.New(nil))
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset))
	_, err = tr.Test(ctx, dataset.New(nil))
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset))
}

func TestRender(t *testing.T) {
	tr, _, hn := weatherTree()
	assert.Equal(t,
		"Outlook\n"+
			"(Sunny, Humidity) (Overcast, Yes) (Rain, Wind)\n"+
			"Humidity Yes Wind\n"+
			"(High, No) (Normal, Yes) (Weak, Yes) (Strong, No)\n"+
			"No Yes Yes No\n"+
			"\n",
		tr.String())

	hn.SetPruned(true)
	assert.Equal(t,
		"Outlook\n"+
			"(Sunny, Humidity) (Overcast, Yes) (Rain, Wind)\n"+
			"Humidity Yes Wind\n"+
			"(Weak, Yes) (Strong, No)\n"+
			"Yes No\n"+
			"\n",
		tr.String())

	assert.Equal(t, "Yes\n\n", tree.Render(tree.NewLabelNode("Yes")))
	assert.Equal(t, "", tree.Render(nil))
}

func TestStats(t *testing.T) {
	tr, root, hn := weatherTree()
	assert.Equal(t, tree.Stats{FeatureNodes: 3, LabelNodes: 5, Depth: 3}, tr.Stats())

	hn.SetPruned(true)
	assert.Equal(t, tree.Stats{FeatureNodes: 2, LabelNodes: 3, PrunedNodes: 1, Depth: 3}, tr.Stats())

	root.SetPruned(true)
	assert.Equal(t, tree.Stats{PrunedNodes: 1, Depth: 1}, tr.Stats())
}

func TestTraverse(t *testing.T) {
	ctx := context.Background()
	tr, _, hn := weatherTree()
	hn.SetPruned(true)

	var visited []string
	visit := func(_ context.Context, n tree.Node) error {
		visited = append(visited, n.String())
		return nil
	}
	require.NoError(t, tr.Traverse(ctx, false, visit))
	assert.Equal(t, []string{"Outlook", "Humidity", "No", "Yes", "Yes", "Wind", "Yes", "No"}, visited)

	visited = nil
	require.NoError(t, tr.Traverse(ctx, true, visit))
	assert.Equal(t, []string{"No", "Yes", "Humidity", "Yes", "Yes", "No", "Wind", "Outlook"}, visited)

	stop := fmt.Errorf("stop")
	err := tr.Traverse(ctx, false, func(context.Context, tree.Node) error { return stop })
	assert.Equal(t, stop, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = tr.Traverse(cancelled, false, visit)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFeatureNodeEdges(t *testing.T) {
	fn := &tree.FeatureNode{Feature: wind, Default: "Yes"}
	_, ok := fn.Child("Weak")
	assert.False(t, ok)
	assert.Empty(t, fn.Values())

	fn.AddChild("Weak", tree.NewLabelNode("Yes"))
	fn.AddChild("Strong", tree.NewLabelNode("No"))
	fn.AddChild("Weak", tree.NewLabelNode("Maybe"))
	assert.Equal(t, []string{"Weak", "Strong"}, fn.Values())
	child, ok := fn.Child("Weak")
	require.True(t, ok)
	assert.Equal(t, "Maybe", child.String())
	assert.Len(t, fn.Children(), 2)
}

func ExampleTree_Outline() {
	tr, _, _ := weatherTree()
	fmt.Print(tr.Outline())
	// Output:
	// [Outlook] { default Yes }
	// |
	// |__Sunny: [Humidity] { default No }
	// |  |
	// |  |__High: [No]
	// |  |__Normal: [Yes]
	// |__Overcast: [Yes]
	// |__Rain: [Wind] { default Yes }
	//    |
	//    |__Weak: [Yes]
	//    |__Strong: [No]
}
