package main

import (
	"fmt"
	"os"

	"github.com/fjod/go_cart/assistant-service/internal/config"
	"github.com/fjod/go_cart/assistant-service/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "assistant-service",
		Short: "Shopping assistant that answers chat messages against a product catalog and cart",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.LogLevel = "debug"
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}

			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (env variables override it)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newChatCmd(opts))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
