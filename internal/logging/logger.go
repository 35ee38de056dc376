// Package logging provides config-driven categorized logging for carnerd.
// Every category is a named child of one zap logger; categories switched off in
// config.LoggingConfig get a no-op logger so call sites never branch on it.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carnerd/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryPerception    Category = "perception"    // Feature extraction, pattern detection
	CategoryUnderstanding Category = "understanding" // Category analyses
	CategoryReason        Category = "reason"        // Inference generation, decision synthesis
	CategoryEthics        Category = "ethics"        // Ethical assessments, categorical imperative
	CategoryCritique      Category = "critique"      // Limits, uncertainty, reflection
	CategoryAntinomy      Category = "antinomy"      // Tension detection and resolution
	CategoryKernel        Category = "kernel"        // Mangle rule evaluation
	CategoryPipeline      Category = "pipeline"      // Stage orchestration, boundary deferral
	CategoryCLI           Category = "cli"           // Command line front end
)

// AllCategories lists every category in pipeline order.
var AllCategories = []Category{
	CategoryPerception, CategoryUnderstanding, CategoryReason, CategoryEthics,
	CategoryCritique, CategoryAntinomy, CategoryKernel, CategoryPipeline, CategoryCLI,
}

// New builds the base logger from configuration.
// Format "json" uses the production encoder; anything else uses the console encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a config level string to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// For returns the named child logger for a category, or a no-op logger when the
// category is disabled. A nil base yields a no-op logger.
func For(base *zap.Logger, cfg config.LoggingConfig, category Category) *zap.Logger {
	if base == nil || !cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return base.Named(string(category))
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
