package sapling_test

import (
	"context"
	"testing"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grownWeatherTree(t *testing.T) *tree.Tree {
	tr, err := sapling.Grow(context.Background(), dataset.New(weatherSamples()), weather, play)
	require.NoError(t, err)
	return tr
}

func validation(table string) dataset.Dataset {
	return dataset.New(rows(table, outlook, temperature, humidity, wind, play))
}

func TestPruneKeepsNodesThatMatter(t *testing.T) {
	ctx := context.Background()
	tr := grownWeatherTree(t)
	// no sunny rows: pruning Humidity changes nothing, pruning Wind costs a row
	vs := validation("Overcast Hot High Weak Yes\nRain Mild High Weak Yes\nRain Cool Normal Strong No")

	report, err := sapling.Prune(ctx, tr, vs)
	require.NoError(t, err)
	assert.Equal(t, &sapling.PruneReport{Candidates: 2, Pruned: 1}, report)
	assert.Equal(t,
		"Outlook\n"+
			"(Sunny, Humidity) (Overcast, Yes) (Rain, Wind)\n"+
			"Humidity Yes Wind\n"+
			"(Weak, Yes) (Strong, No)\n"+
			"Yes No\n"+
			"\n",
		tr.String())

	label, err := tr.Classify(ctx, dataset.NewSample(map[string]string{"Outlook": "Sunny", "Humidity": "Normal"}))
	require.NoError(t, err)
	assert.Equal(t, "No", label)

	rendering := tr.String()
	report, err = sapling.Prune(ctx, tr, vs)
	require.NoError(t, err)
	assert.Equal(t, &sapling.PruneReport{Candidates: 2, Pruned: 1}, report)
	assert.Equal(t, rendering, tr.String())
}

func TestPruneToRoot(t *testing.T) {
	ctx := context.Background()
	tr := grownWeatherTree(t)
	vs := validation("Rain Mild High Strong Yes")

	report, err := sapling.Prune(ctx, tr, vs)
	require.NoError(t, err)
	assert.Equal(t, &sapling.PruneReport{InitialError: 1.0, FinalError: 0.0, Candidates: 3, Pruned: 3}, report)
	assert.Equal(t, "Outlook\n\n", tr.String())
	assert.Equal(t, tree.Stats{PrunedNodes: 1, Depth: 1}, tr.Stats())

	report, err = sapling.Prune(ctx, tr, vs)
	require.NoError(t, err)
	assert.Equal(t, &sapling.PruneReport{InitialError: 1.0, FinalError: 0.0, Candidates: 3, Pruned: 3}, report)
	assert.Equal(t, "Outlook\n\n", tr.String())
}

func TestPruneAgainClearsEarlierMarks(t *testing.T) {
	ctx := context.Background()
	tr := grownWeatherTree(t)

	_, err := sapling.Prune(ctx, tr, validation("Rain Mild High Strong Yes"))
	require.NoError(t, err)
	require.Equal(t, "Outlook\n\n", tr.String())

	report, err := sapling.Prune(ctx, tr, dataset.New(weatherSamples()))
	require.NoError(t, err)
	assert.Equal(t, &sapling.PruneReport{Candidates: 2}, report)
	assert.Equal(t, "pruned 0 of 2 candidate nodes, validation error 0.0000 -> 0.0000", report.String())
	assert.Equal(t, weatherRendering, tr.String())
	assert.Zero(t, tr.Stats().PrunedNodes)
}

func TestPruneNeverIncreasesValidationError(t *testing.T) {
	ctx := context.Background()
	tr := grownWeatherTree(t)
	vs := validation("Sunny Hot High Weak Yes\nSunny Cool Normal Weak Yes\nOvercast Mild Normal Strong No\nRain Cool High Strong No\nRain Hot Normal Weak No")

	before, err := tr.ErrorRate(ctx, vs)
	require.NoError(t, err)
	report, err := sapling.Prune(ctx, tr, vs)
	require.NoError(t, err)
	after, err := tr.ErrorRate(ctx, vs)
	require.NoError(t, err)

	assert.InDelta(t, before, report.InitialError, 1e-12)
	assert.InDelta(t, after, report.FinalError, 1e-12)
	assert.LessOrEqual(t, after, before)
}

func TestPruneWithEmptyValidation(t *testing.T) {
	ctx := context.Background()
	tr := grownWeatherTree(t)

	report, err := sapling.Prune(ctx, tr, dataset.New(nil))
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Equal(t, weatherRendering, tr.String())
	assert.Zero(t, tr.Stats().PrunedNodes)
}

func TestPruners(t *testing.T) {
	ctx := context.Background()
	tr := grownWeatherTree(t)

	report, err := sapling.NoPruner().Prune(ctx, tr)
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Equal(t, weatherRendering, tr.String())

	report, err = sapling.ReducedErrorPruner(validation("Rain Mild High Strong Yes")).Prune(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Pruned)
	assert.Equal(t, "pruned 3 of 3 candidate nodes, validation error 1.0000 -> 0.0000", report.String())
}
