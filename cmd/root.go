// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pebbling-ai/pebbling-site/internal/config"
	"github.com/pebbling-ai/pebbling-site/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pebbling-site",
	Short: "The Pebbling AI website.",
	Long: `pebbling-site serves the Pebbling AI landing page, the authentication
pages and the small JSON API behind them (newsletter sign-up and GitHub
repository stats).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// setup loads the configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command) (*config.Config, *zap.SugaredLogger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Verbose = true
	}

	logger, err := logging.New(cfg.Log.Env, cfg.Log.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
