package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/cobra"
)

const (
	classificationColumn = "classification"
	correctColumn        = "correct"
)

type growCmdConfig struct {
	*sourceCmdConfig
	trainingRange   string
	validationRange string
	testRange       string
	order           string
	outline         bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{sourceCmdConfig: &sourceCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long: `Grow a tree from a set of data to classify samples with a certain feature,
print it and the classification of the evaluated samples, prune it against a
validation set if one is given and report its error rates.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ds, features, label, code, err := config.load(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(code)
			}
			training, validation, test, err := config.split(ctx, ds)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			count, err := training.Count(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting training set samples: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Growing tree from a set with %d samples and %d features to classify %s ...", count, len(features), label.Name())
			t, err := sapling.Grow(ctx, training, features, label)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done")
			config.printTree(out, t)

			evaluated := test
			if config.testRange == "" {
				evaluated = training
			}
			err = writeClassifications(ctx, out, t, append(features, label), evaluated)
			if err != nil {
				fmt.Fprintf(os.Stderr, "classifying samples: %v\n", err)
				os.Exit(7)
			}
			if config.validationRange != "" {
				config.Logf("Pruning tree against the validation set...")
				report, err := sapling.Prune(ctx, t, validation)
				if err != nil {
					fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
					os.Exit(8)
				}
				fmt.Fprintln(out, report)
				config.printTree(out, t)
			}
			err = printErrorRates(ctx, out, t, map[string]dataset.Dataset{
				"training":   training,
				"validation": validation,
				"test":       test,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "evaluating the tree: %v\n", err)
				os.Exit(9)
			}
		},
	}
	config.addFlags(cmd)
	cmd.PersistentFlags().StringVar(&(config.trainingRange), "training-range", "", "index ranges of the samples to grow the tree with, as in 0:60,80: (defaults to all samples)")
	cmd.PersistentFlags().StringVar(&(config.validationRange), "validation-range", "", "index ranges of the samples to prune the tree against (defaults to no pruning)")
	cmd.PersistentFlags().StringVar(&(config.testRange), "test-range", "", "index ranges of the samples to test the tree against (defaults to evaluating the training samples)")
	cmd.PersistentFlags().StringVar(&(config.order), "order", "", "index ranges reordering the samples before any other range is applied, as in 60:80,0:60,80:")
	cmd.PersistentFlags().BoolVar(&(config.outline), "outline", false, "print trees as an outline instead of level by level")
	return cmd
}

func (gcc *growCmdConfig) split(ctx context.Context, ds dataset.Dataset) (training, validation, test dataset.Dataset, err error) {
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if gcc.order != "" {
		indices, err := dataset.ParseRanges(gcc.order, count)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("order: %v", err)
		}
		ds, err = dataset.Select(ctx, ds, indices)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("order: %v", err)
		}
		count = len(indices)
	}
	subset := func(name, ranges string, all bool) (dataset.Dataset, error) {
		indices := dataset.Range(0, count)
		if ranges != "" || !all {
			var err error
			indices, err = dataset.ParseRanges(ranges, count)
			if err != nil {
				return nil, fmt.Errorf("%s range: %v", name, err)
			}
		}
		return dataset.Select(ctx, ds, indices)
	}
	if training, err = subset("training", gcc.trainingRange, true); err != nil {
		return nil, nil, nil, err
	}
	if validation, err = subset("validation", gcc.validationRange, false); err != nil {
		return nil, nil, nil, err
	}
	if test, err = subset("test", gcc.testRange, false); err != nil {
		return nil, nil, nil, err
	}
	return training, validation, test, nil
}

func (gcc *growCmdConfig) printTree(w io.Writer, t *tree.Tree) {
	if gcc.outline {
		fmt.Fprint(w, t.Outline())
	} else {
		fmt.Fprint(w, t)
	}
	stats := t.Stats()
	gcc.Logf("Tree has %d feature nodes, %d label nodes, %d pruned nodes and depth %d", stats.FeatureNodes, stats.LabelNodes, stats.PrunedNodes, stats.Depth)
}

/*
classifiedSample extends a sample with the classification a tree
makes of it and whether it is correct.
*/
type classifiedSample struct {
	feature.Sample
	classification string
	correct        bool
}

func (cs *classifiedSample) ValueFor(ctx context.Context, f feature.Feature) (string, error) {
	switch f.Name() {
	case classificationColumn:
		return cs.classification, nil
	case correctColumn:
		return strconv.FormatBool(cs.correct), nil
	}
	return cs.Sample.ValueFor(ctx, f)
}

func writeClassifications(ctx context.Context, w io.Writer, t *tree.Tree, features []feature.Feature, ds dataset.Dataset) error {
	samples, err := ds.Samples(ctx)
	if err != nil {
		return err
	}
	columns := append(features, feature.NewDiscreteFeature(classificationColumn, nil), feature.NewDiscreteFeature(correctColumn, nil))
	cw, err := csv.NewWriter(w, columns)
	if err != nil {
		return err
	}
	classified := make([]feature.Sample, 0, len(samples))
	for _, s := range samples {
		c, err := t.Classify(ctx, s)
		if err != nil {
			return err
		}
		v, err := s.ValueFor(ctx, t.Label)
		if err != nil {
			return err
		}
		classified = append(classified, &classifiedSample{s, c, c == v})
	}
	_, err = cw.Write(ctx, classified)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func printErrorRates(ctx context.Context, w io.Writer, t *tree.Tree, datasets map[string]dataset.Dataset) error {
	for _, name := range []string{"training", "validation", "test"} {
		rate, err := t.ErrorRate(ctx, datasets[name])
		if errors.Is(err, dataset.ErrEmptyDataset) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s set: %v", name, err)
		}
		fmt.Fprintf(w, "%s error: %.4f\n", name, rate)
	}
	return nil
}
