package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/redisdataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

type sourceCmdConfig struct {
	*rootCmdConfig
	dataInput          string
	metadataInput      string
	label              string
	ignore             []string
	table              string
	sortBy             string
	cpuIntensiveSet    bool
	memoryIntensiveSet bool
}

func (scc *sourceCmdConfig) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(scc.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgres://), MongoDB (mongodb://) or Redis (redis://) URL with the data to use (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(scc.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input, required for MongoDB and Redis inputs (defaults to every column accepting any value)")
	cmd.PersistentFlags().StringVarP(&(scc.label), "label", "l", "", "name of the feature the tree should classify samples with (defaults to the last feature)")
	cmd.PersistentFlags().StringSliceVar(&(scc.ignore), "ignore", nil, "name of a feature not to use to grow the tree, can be repeated")
	cmd.PersistentFlags().StringVar(&(scc.table), "table", "samples", "SQL table or MongoDB collection with the samples")
	cmd.PersistentFlags().StringVar(&(scc.sortBy), "sort-by", "", "SQL column or MongoDB field to sort samples by (defaults to storage order)")
	cmd.PersistentFlags().BoolVar(&(scc.memoryIntensiveSet), "memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	cmd.PersistentFlags().BoolVar(&(scc.cpuIntensiveSet), "cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
}

func (scc *sourceCmdConfig) Validate() error {
	if scc.cpuIntensiveSet && scc.memoryIntensiveSet {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	if scc.metadataInput == "" && (strings.HasPrefix(scc.dataInput, "mongodb://") || strings.HasPrefix(scc.dataInput, "redis://")) {
		return fmt.Errorf("metadata flag is required for MongoDB and Redis inputs")
	}
	return nil
}

func (scc *sourceCmdConfig) datasetGenerator() dataset.Generator {
	if scc.memoryIntensiveSet {
		return dataset.NewMemoryIntensive
	}
	if scc.cpuIntensiveSet {
		return dataset.NewCPUIntensive
	}
	return dataset.New
}

// metadata returns the features in the metadata file, nil if there is none
func (scc *sourceCmdConfig) metadata() ([]feature.Feature, error) {
	if scc.metadataInput == "" {
		return nil, nil
	}
	scc.Logf("Reading features from %s...", scc.metadataInput)
	return yaml.ReadFeaturesFromFile(scc.metadataInput)
}

/*
dataset reads the dataset from the input and returns it with the features
of its columns.
*/
func (scc *sourceCmdConfig) dataset(ctx context.Context, features []feature.Feature) (dataset.Dataset, []feature.Feature, error) {
	switch {
	case strings.HasPrefix(scc.dataInput, "postgres://") || strings.HasPrefix(scc.dataInput, "postgresql://"):
		scc.Logf("Creating PostgreSQL adapter for url %s to read dataset...", scc.dataInput)
		adapter, err := pgadapter.New(scc.dataInput)
		if err != nil {
			return nil, nil, err
		}
		defer adapter.Close()
		return sqldataset.ReadDataset(ctx, adapter, scc.table, features, scc.sortBy, scc.datasetGenerator())
	case strings.HasSuffix(scc.dataInput, ".db"):
		scc.Logf("Creating SQLite3 adapter for file %s to read dataset...", scc.dataInput)
		adapter, err := sqlite3adapter.New(scc.dataInput)
		if err != nil {
			return nil, nil, err
		}
		defer adapter.Close()
		return sqldataset.ReadDataset(ctx, adapter, scc.table, features, scc.sortBy, scc.datasetGenerator())
	case strings.HasPrefix(scc.dataInput, "mongodb://"):
		scc.Logf("Connecting to MongoDB at %s to read dataset...", scc.dataInput)
		session, err := mongodataset.Dial(scc.dataInput)
		if err != nil {
			return nil, nil, err
		}
		defer session.Close()
		ds, err := mongodataset.ReadDataset(ctx, session, scc.table, features, scc.sortBy, scc.datasetGenerator())
		return ds, features, err
	case strings.HasPrefix(scc.dataInput, "redis://"):
		opts, key, err := redisdataset.ParseURL(scc.dataInput)
		if err != nil {
			return nil, nil, err
		}
		scc.Logf("Connecting to Redis at %s to read dataset from list %s...", opts.Addr, key)
		rc := redis.NewClient(opts)
		defer rc.Close()
		ds, err := redisdataset.ReadDataset(ctx, rc, key, features, scc.datasetGenerator())
		return ds, features, err
	default:
		if scc.dataInput == "" {
			scc.Logf("Reading dataset from STDIN...")
		} else {
			scc.Logf("Opening %s to read dataset...", scc.dataInput)
		}
		return csv.ReadDatasetFromFilePath(scc.dataInput, features, scc.datasetGenerator())
	}
}

/*
splitFeatures takes the features of the dataset and returns the ones to grow
the tree with and the label feature.
*/
func (scc *sourceCmdConfig) splitFeatures(features []feature.Feature) ([]feature.Feature, feature.Feature, error) {
	if len(features) == 0 {
		return nil, nil, fmt.Errorf("dataset has no features")
	}
	label := features[len(features)-1]
	if scc.label != "" {
		label = feature.Find(features, scc.label)
		if label == nil {
			return nil, nil, fmt.Errorf("label feature '%s' is not defined", scc.label)
		}
	}
	features = feature.Without(features, label)
	for _, name := range scc.ignore {
		f := feature.Find(features, name)
		if f == nil {
			return nil, nil, fmt.Errorf("ignored feature '%s' is not defined", name)
		}
		features = feature.Without(features, f)
	}
	return features, label, nil
}

/*
load reads the metadata and the dataset and returns the dataset, the
features to grow trees with and the label, or an error and the exit code
for the stage that failed.
*/
func (scc *sourceCmdConfig) load(ctx context.Context) (dataset.Dataset, []feature.Feature, feature.Feature, int, error) {
	features, err := scc.metadata()
	if err != nil {
		return nil, nil, nil, 2, err
	}
	ds, features, err := scc.dataset(ctx, features)
	if err != nil {
		return nil, nil, nil, 3, fmt.Errorf("reading dataset: %v", err)
	}
	features, label, err := scc.splitFeatures(features)
	if err != nil {
		return nil, nil, nil, 4, err
	}
	return ds, features, label, 0, nil
}
