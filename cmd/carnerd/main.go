// Command carnerd runs the critique-of-reason decision engine from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/logging"
	"carnerd/internal/pipeline"
)

var (
	// Global flags
	verbose    bool
	configPath string
	domain     string
	boundaries []string
	jsonOutput bool
	plain      bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "carnerd",
	Short: "carnerd - transparent decision engine with built-in self-critique",
	Long: `carnerd turns arbitrary input into a decision it can explain.

Every run passes through five stages:
  1. Sensibility: extract features and patterns from the input
  2. Understanding: apply the twelve category analyses
  3. Reason: draw inferences, assess them ethically, synthesize a decision
  4. Critique: state the limits of the run, quantify its uncertainty
  5. Antinomy: detect and resolve tensions between findings

Inputs that touch a configured epistemic boundary are deferred to a human.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "carnerd.yaml", "Configuration file (defaults apply when missing)")
	rootCmd.PersistentFlags().StringVarP(&domain, "domain", "d", "", "Override the configured domain")
	rootCmd.PersistentFlags().StringSliceVarP(&boundaries, "boundary", "b", nil, "Add an epistemic boundary term (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Never style output, even on a terminal")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(uncertaintyCmd)
	rootCmd.AddCommand(ethicsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if domain != "" {
		cfg.Domain = domain
	}
	cfg.EpistemicBoundaries = append(cfg.EpistemicBoundaries, boundaries...)
	return cfg, nil
}

// initLogger builds the base logger from the logging section of the config.
// --verbose forces debug level. An unreadable config leaves the command to
// report it, so logging falls back to the defaults.
func initLogger() error {
	lc := config.DefaultConfig().Logging
	if cfg, err := loadConfig(); err == nil {
		lc = cfg.Logging
	}
	if verbose {
		lc.Level = "debug"
	}
	l, err := logging.New(lc)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// newEngine builds an engine from the loaded configuration.
func newEngine(opts ...pipeline.Option) (*pipeline.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	base := logger
	if base == nil {
		base = logging.Nop()
	}
	opts = append([]pipeline.Option{pipeline.WithLogger(base), pipeline.WithSource("cli")}, opts...)
	engine, err := pipeline.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	logging.For(base, cfg.Logging, logging.CategoryCLI).Debug("engine configured",
		zap.String("config", configPath),
		zap.String("domain", cfg.Domain))
	return engine, cfg, nil
}
