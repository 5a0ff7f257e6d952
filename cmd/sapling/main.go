package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SAPLING"

type rootCmdConfig struct {
	verbose    bool
	configFile string
	logFile    string
	logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cliParser().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "sapling is a tool to grow ID3 decision trees",
		Long:  `A tool to grow ID3 decision trees from categorical data, prune them with reduced error pruning and evaluate them`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := config.loadConfig(cmd)
			if err != nil {
				return err
			}
			config.logger = newLogger(config.verbose, config.logFile)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress information")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YAML file with values for any flags not given on the command line")
	rootCmd.PersistentFlags().StringVar(&(config.logFile), "log-file", "", "path to a file to write logs to in JSON format, rotated as it grows (defaults to STDERR)")
	rootCmd.AddCommand(versionCmd(), growCmd(config), classifyCmd(config), experimentCmd(config))
	return rootCmd
}

/*
loadConfig fills every flag of the command that was not set on the command
line with the value for its name on the config file, if any, or on the
SAPLING_ prefixed environment variable for it (in upper case and with
dashes replaced by underscores).
*/
func (rcc *rootCmdConfig) loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	configFile := rcc.configFile
	if configFile == "" {
		configFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %v", configFile, err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		if setErr := cmd.Flags().Set(f.Name, value); setErr != nil {
			err = fmt.Errorf("setting %s from configuration: %v", f.Name, setErr)
		}
	})
	return err
}
