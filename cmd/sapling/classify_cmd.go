package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset/inputsample"
	"github.com/pbanos/sapling/feature"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*growCmdConfig
	undefinedValue string
}

type writerFeatureValueRequester struct {
	w              io.Writer
	undefinedValue string
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{growCmdConfig: &growCmdConfig{sourceCmdConfig: &sourceCmdConfig{rootCmdConfig: rootConfig}}}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a sample answering questions",
		Long: `Grow a tree from a set of data, prune it against a validation set if one
is given and use it to classify a sample answering a reduced set of questions
about its features`,
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
			training, validation, _, err := config.split(ctx, ds)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			t, err := sapling.Grow(ctx, training, features, label)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(6)
			}
			if config.validationRange != "" {
				report, err := sapling.Prune(ctx, t, validation)
				if err != nil {
					fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
					os.Exit(8)
				}
				config.Logf("%v", report)
			}
			requester := &writerFeatureValueRequester{out, config.undefinedValue}
			sample := inputsample.New(cmd.InOrStdin(), features, requester, config.undefinedValue)
			classification, err := t.Classify(ctx, sample)
			if err != nil {
				fmt.Fprintf(os.Stderr, "classifying the sample: %v\n", err)
				os.Exit(7)
			}
			fmt.Fprintf(out, "The sample's %s is %s\n", label.Name(), classification)
		},
	}
	config.addFlags(cmd)
	cmd.PersistentFlags().StringVar(&(config.trainingRange), "training-range", "", "index ranges of the samples to grow the tree with, as in 0:60,80: (defaults to all samples)")
	cmd.PersistentFlags().StringVar(&(config.validationRange), "validation-range", "", "index ranges of the samples to prune the tree against (defaults to no pruning)")
	cmd.PersistentFlags().StringVar(&(config.order), "order", "", "index ranges reordering the samples before any other range is applied")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func (ccc *classifyCmdConfig) Validate() error {
	if ccc.dataInput == "" {
		return fmt.Errorf("input flag is required as STDIN is used to read the sample")
	}
	if ccc.undefinedValue == "" {
		return fmt.Errorf("undefined-value flag cannot be empty")
	}
	return ccc.sourceCmdConfig.Validate()
}

func (wfvr *writerFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	if df, ok := f.(*feature.DiscreteFeature); ok && len(df.AvailableValues()) > 0 {
		_, err := fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), df.AvailableValues(), wfvr.undefinedValue)
		return err
	}
	_, err := fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(or %s if undefined)\n", f.Name(), wfvr.undefinedValue)
	return err
}

func (wfvr *writerFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	_, err := fmt.Fprintf(wfvr.w, "%q is not a valid value for the sample's %s. Please provide another one or %s if undefined.\n", value, f.Name(), wfvr.undefinedValue)
	return err
}
