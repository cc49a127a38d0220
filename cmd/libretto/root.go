package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/libretto/internal/cli"
	"github.com/aretw0/libretto/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "libretto",
	Short: "Libretto renders multilingual narrated pages",
	Long: `Libretto compiles page documents (YAML or JSON) into scenes and renders each
scene in every declared language through a pluggable narration generator.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags override the LIBRETTO_* environment.
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("store", "", "Output store: none, memory, file or redis")
}

// loadConfig reads the environment, then applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	return cfg, cfg.Validate()
}

// newStack builds the engine stack for cmd. The caller closes it.
func newStack(ctx context.Context, cmd *cobra.Command) (*cli.Stack, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewStack(ctx, cfg)
}
