// Package car is the public shim for the carnerd engine.
//
// It re-exports the engine, its configuration and the result types from the
// internal packages so that programs outside this module can embed the engine
// without importing internal/ paths. The shim adds no logic of its own.
//
// Usage:
//
//	cfg := car.DefaultConfig()
//	cfg.Domain = "healthcare"
//	engine, err := car.New(cfg)
//	if err != nil {
//		return err
//	}
//	res := engine.Process("The patient has fever and cough")
package car

import (
	"carnerd/internal/config"
	"carnerd/internal/critique"
	"carnerd/internal/ethics"
	"carnerd/internal/metrics"
	"carnerd/internal/pipeline"
	"carnerd/internal/transparency"
	"carnerd/internal/types"
)

// Re-export the engine and its options
type Engine = pipeline.Engine
type Option = pipeline.Option

var (
	New         = pipeline.New
	WithLogger  = pipeline.WithLogger
	WithMetrics = pipeline.WithMetrics
	WithTracer  = pipeline.WithTracer
	WithGate    = pipeline.WithGate
	WithSource  = pipeline.WithSource
)

// Re-export configuration
type Config = config.Config

var (
	DefaultConfig    = config.DefaultConfig
	LoadConfig       = config.Load
	ErrInvalidConfig = config.ErrInvalidConfig
)

// Re-export result types
type (
	Result                      = types.CARResult
	Confidence                  = types.Confidence
	Inference                   = types.Inference
	Decision                    = types.Decision
	EthicalAnalysis             = types.EthicalAnalysis
	UncertaintyAnalysis         = types.UncertaintyAnalysis
	CategoricalImperativeResult = types.CategoricalImperativeResult
	AntinomyResolutionResult    = types.AntinomyResolutionResult
)

// Re-export the ethical gate capability so callers can substitute their own
type (
	Gate     = ethics.Gate
	GateFunc = ethics.GateFunc
)

// Metrics and reporting helpers
type Metrics = metrics.Metrics

var (
	NewMetrics           = metrics.New
	NewExplainer         = transparency.NewExplainer
	CombineUncertainties = critique.CombineUncertainties
)

// Fixed deferral response
const (
	DeferAction = pipeline.DeferAction
	DeferLabel  = pipeline.DeferLabel
)
