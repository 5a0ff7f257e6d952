package sqlite3adapter_test

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherDB(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "weather.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE "samples" ("id" INTEGER PRIMARY KEY, "Outlook" TEXT, "Wind" TEXT NULL, "Play?" TEXT)`,
		`INSERT INTO "samples" ("id", "Outlook", "Wind", "Play?") VALUES (3, 'Rain', 'Weak', 'Yes')`,
		`INSERT INTO "samples" ("id", "Outlook", "Wind", "Play?") VALUES (1, 'Sunny', NULL, 'No')`,
		`INSERT INTO "samples" ("id", "Outlook", "Wind", "Play?") VALUES (2, 'Overcast', 'Strong', 'Yes')`,
	} {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestReadDatasetInfersFeatures(t *testing.T) {
	ctx := context.Background()
	a, err := sqlite3adapter.New(weatherDB(t))
	require.NoError(t, err)
	defer a.Close()

	ds, features, err := sqldataset.ReadDataset(ctx, a, "samples", nil, "id", dataset.New)
	require.NoError(t, err)
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"id", "Outlook", "Wind", "Play?"}, names)

	values, err := ds.FeatureValues(ctx, features[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunny", "Overcast", "Rain"}, values)

	values, err = ds.FeatureValues(ctx, features[2])
	require.NoError(t, err)
	assert.Equal(t, []string{feature.UndefinedValue, "Strong", "Weak"}, values)
}

func TestReadDatasetWithFeatures(t *testing.T) {
	ctx := context.Background()
	a, err := sqlite3adapter.New(weatherDB(t))
	require.NoError(t, err)
	defer a.Close()

	outlook := feature.NewDiscreteFeature("Outlook", []string{"Sunny", "Overcast", "Rain"})
	play := feature.NewDiscreteFeature("Play?", nil)
	ds, features, err := sqldataset.ReadDataset(ctx, a, "samples", []feature.Feature{outlook, play}, "", dataset.New)
	require.NoError(t, err)
	assert.Len(t, features, 2)
	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	restricted := feature.NewDiscreteFeature("Outlook", []string{"Sunny"})
	_, _, err = sqldataset.ReadDataset(ctx, a, "samples", []feature.Feature{restricted}, "", dataset.New)
	assert.Error(t, err)
}

func TestReadDatasetRejectsInvalidNames(t *testing.T) {
	ctx := context.Background()
	a, err := sqlite3adapter.New(weatherDB(t))
	require.NoError(t, err)
	defer a.Close()

	_, _, err = sqldataset.ReadDataset(ctx, a, `samples"; DROP TABLE "samples`, nil, "", dataset.New)
	assert.Error(t, err)
	_, _, err = sqldataset.ReadDataset(ctx, a, "samples", nil, `id"`, dataset.New)
	assert.Error(t, err)
	_, _, err = sqldataset.ReadDataset(ctx, a, "missing", nil, "", dataset.New)
	assert.Error(t, err)

	_, err = a.ColumnName(`a"b`)
	assert.Error(t, err)
	cn, err := a.ColumnName("Play?")
	require.NoError(t, err)
	assert.Equal(t, "Play?", cn)
}

func TestNewRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	_, err := sqlite3adapter.New(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
