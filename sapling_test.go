package sapling_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherCSV = `Sunny Hot High Weak No
Sunny Hot High Strong No
Overcast Hot High Weak Yes
Rain Mild High Weak Yes
Rain Cool Normal Weak Yes
Rain Cool Normal Strong No
Overcast Cool Normal Strong Yes
Sunny Mild High Weak No
Sunny Cool Normal Weak Yes
Rain Mild Normal Weak Yes
Sunny Mild Normal Strong Yes
Overcast Mild High Strong Yes
Overcast Hot Normal Weak Yes
Rain Mild High Strong No`

const weatherRendering = "Outlook\n" +
	"(Sunny, Humidity) (Overcast, Yes) (Rain, Wind)\n" +
	"Humidity Yes Wind\n" +
	"(High, No) (Normal, Yes) (Weak, Yes) (Strong, No)\n" +
	"No Yes Yes No\n" +
	"\n"

var (
	outlook     = feature.NewDiscreteFeature("Outlook", nil)
	temperature = feature.NewDiscreteFeature("Temperature", nil)
	humidity    = feature.NewDiscreteFeature("Humidity", nil)
	wind        = feature.NewDiscreteFeature("Wind", nil)
	play        = feature.NewDiscreteFeature("Play?", nil)
	weather     = []feature.Feature{outlook, temperature, humidity, wind}
)

func rows(table string, columns ...feature.Feature) []dataset.Sample {
	var samples []dataset.Sample
	for _, line := range strings.Split(table, "\n") {
		values := strings.Fields(line)
		fvs := make(map[string]string, len(values))
		for i, v := range values {
			fvs[columns[i].Name()] = v
		}
		samples = append(samples, dataset.NewSample(fvs))
	}
	return samples
}

func weatherSamples() []dataset.Sample {
	return rows(weatherCSV, outlook, temperature, humidity, wind, play)
}

func TestInformationGain(t *testing.T) {
	ctx := context.Background()
	ds := dataset.New(weatherSamples())
	base, err := ds.Entropy(ctx, play)
	require.NoError(t, err)
	assert.InDelta(t, 0.940, base, 1e-3)

	expected := map[string]float64{
		"Outlook":     0.2467,
		"Temperature": 0.0292,
		"Humidity":    0.1518,
		"Wind":        0.0481,
	}
	for _, f := range weather {
		gain, err := sapling.InformationGain(ctx, ds, f, play, base)
		require.NoError(t, err)
		assert.InDelta(t, expected[f.Name()], gain, 1e-3, f.Name())
		assert.GreaterOrEqual(t, gain, 0.0)
	}

	p, err := sapling.NewPartition(ctx, ds, outlook, play, base)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunny", "Overcast", "Rain"}, p.Values)
	assert.Len(t, p.Subsets, 3)
	assert.InDelta(t, 0.2467, p.InformationGain(), 1e-3)

	_, err = sapling.NewPartition(ctx, dataset.New(nil), outlook, play, 0)
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset))
}

func TestGrowWeather(t *testing.T) {
	ctx := context.Background()
	for name, generate := range map[string]dataset.Generator{
		"memory intensive": dataset.NewMemoryIntensive,
		"cpu intensive":    dataset.NewCPUIntensive,
	} {
		t.Run(name, func(t *testing.T) {
			ds := generate(weatherSamples())
			tr, err := sapling.Grow(ctx, ds, weather, play)
			require.NoError(t, err)
			assert.Equal(t, weatherRendering, tr.String())

			success, err := tr.Test(ctx, ds)
			require.NoError(t, err)
			assert.Equal(t, 1.0, success)

			label, err := tr.Classify(ctx, dataset.NewSample(map[string]string{"Outlook": "Snow"}))
			require.NoError(t, err)
			assert.Equal(t, "Yes", label)

			label, err = tr.Classify(ctx, dataset.NewSample(map[string]string{"Outlook": "Sunny", "Humidity": "Dry"}))
			require.NoError(t, err)
			assert.Equal(t, "No", label)
		})
	}
}

func TestGrowLeaves(t *testing.T) {
	ctx := context.Background()
	a := feature.NewDiscreteFeature("a", nil)
	b := feature.NewDiscreteFeature("b", nil)
	y := feature.NewDiscreteFeature("y", nil)

	tests := []struct {
		name     string
		table    string
		features []feature.Feature
		expected string
	}{
		{
			name:     "pure labels",
			table:    "x p 1\nz q 1",
			features: []feature.Feature{a, b},
			expected: "1\n\n",
		},
		{
			name:     "no features left uses the first of tied labels",
			table:    "x p 0\nz q 1\nz p 1\nx q 0",
			features: nil,
			expected: "0\n\n",
		},
		{
			name:     "zero gain still splits on the first feature",
			table:    "x p 1\nx p 0",
			features: []feature.Feature{a, b},
			expected: "a\n(x, b)\nb\n(p, 1)\n1\n\n",
		},
		{
			name:     "equal gains resolved by feature order",
			table:    "x p 1\nz q 0",
			features: []feature.Feature{b, a},
			expected: "b\n(p, 1) (q, 0)\n1 0\n\n",
		},
		{
			name:     "contradictory rows",
			table:    "x p 1\nx q 0\nx q 1\nz p 0\nx q 0",
			features: []feature.Feature{a, b},
			expected: "a\n(x, b) (z, 0)\nb 0\n(p, 1) (q, 0)\n1 0\n\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds := dataset.New(rows(tc.table, a, b, y))
			tr, err := sapling.Grow(ctx, ds, tc.features, y)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tr.String())
		})
	}
}

func TestGrowErrors(t *testing.T) {
	ctx := context.Background()

	_, err := sapling.Grow(ctx, dataset.New(nil), weather, play)
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset))

	_, err = sapling.Grow(ctx, dataset.New(weatherSamples()), append(weather, play), play)
	assert.True(t, errors.Is(err, sapling.ErrLabelAmongFeatures))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sapling.Grow(cancelled, dataset.New(weatherSamples()), weather, play)
	assert.True(t, errors.Is(err, context.Canceled))
}
