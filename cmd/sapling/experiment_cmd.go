package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pbanos/sapling/experiment"
	"github.com/spf13/cobra"
)

type experimentCmdConfig struct {
	*sourceCmdConfig
	experiment.Config
	plotOutput    string
	plotTitle     string
	metricsOutput string
}

func experimentCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &experimentCmdConfig{sourceCmdConfig: &sourceCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Measure how trees learn as the training set grows",
		Long: `Grow a tree on the first n samples for every n up to the training set size,
optionally prune it against a validation set, and report the training,
validation and test errors of every tree.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
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
			runner := &experiment.Runner{Features: features, Label: label, Logger: config.Logger}
			if config.metricsOutput != "" {
				runner.Metrics = experiment.NewMetrics()
			}
			config.Logf("Running experiment on training set sizes up to %d...", config.TrainingSetSize-1)
			points, err := runner.Run(ctx, ds, config.Config)
			if err != nil {
				fmt.Fprintf(os.Stderr, "running experiment: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Done")
			err = printPoints(cmd.OutOrStdout(), points)
			if err != nil {
				fmt.Fprintf(os.Stderr, "printing results: %v\n", err)
				os.Exit(6)
			}
			err = config.save(ctx, points, runner.Metrics)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
		},
	}
	config.addFlags(cmd)
	cmd.PersistentFlags().IntVar(&(config.TrainingSetSize), "training-set-size", 0, "exclusive upper bound of the training set sizes, trees are grown on the first n samples for n from 1 (required)")
	cmd.PersistentFlags().StringVar(&(config.ValidationRange), "validation-range", "", "index ranges of the samples to prune trees against, as in 60:80 (defaults to no pruning)")
	cmd.PersistentFlags().StringVar(&(config.TestRange), "test-range", "", "index ranges of the samples to test trees against, as in 80: (required)")
	cmd.PersistentFlags().StringVar(&(config.Order), "order", "", "index ranges reordering the samples before any other range is applied, as in 60:80,0:60,80:")
	cmd.PersistentFlags().IntVar(&(config.Concurrency), "concurrency", 0, "maximum number of trees grown at the same time (defaults to 0: no limit)")
	cmd.PersistentFlags().StringVar(&(config.plotOutput), "plot", "", "path to a PNG file to plot the errors to")
	cmd.PersistentFlags().StringVar(&(config.plotTitle), "plot-title", "Error vs. training set size", "title of the plot")
	cmd.PersistentFlags().StringVar(&(config.metricsOutput), "metrics-file", "", "path to a file to write the experiment metrics to in Prometheus text format")
	return cmd
}

func (ecc *experimentCmdConfig) Validate() error {
	if err := ecc.sourceCmdConfig.Validate(); err != nil {
		return err
	}
	return ecc.Config.Validate()
}

func (ecc *experimentCmdConfig) save(ctx context.Context, points []experiment.Point, metrics *experiment.Metrics) error {
	if ecc.plotOutput != "" {
		ecc.Logf("Plotting errors to %s...", ecc.plotOutput)
		if err := experiment.Plot(points, ecc.plotTitle, ecc.plotOutput); err != nil {
			return err
		}
	}
	if metrics != nil {
		ecc.Logf("Writing metrics to %s...", ecc.metricsOutput)
		if err := metrics.WriteTextfile(ecc.metricsOutput); err != nil {
			return fmt.Errorf("writing metrics file %s: %v", ecc.metricsOutput, err)
		}
	}
	return ctx.Err()
}

func printPoints(w io.Writer, points []experiment.Point) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "size\ttraining error\tvalidation error\ttest error\tpruned")
	for _, p := range points {
		validation := "-"
		if p.Validated {
			validation = fmt.Sprintf("%.4f", p.ValidationError)
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%s\t%.4f\t%d\n", p.Size, p.TrainingError, validation, p.TestError, p.Pruned)
	}
	return tw.Flush()
}
