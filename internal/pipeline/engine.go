// Package pipeline runs the carnerd stages end to end.
//
// An Engine is built once from a validated configuration and is safe for
// concurrent use: every run works on values created for that run, and the
// engine's configuration is a private copy that nothing can mutate.
//
//	perception → [boundary check] → understanding → reason (ethical gate)
//	           → critique → antinomy → schematism / aesthetic judgment → CARResult
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"carnerd/internal/antinomy"
	"carnerd/internal/config"
	"carnerd/internal/critique"
	"carnerd/internal/ethics"
	"carnerd/internal/logging"
	"carnerd/internal/metrics"
	"carnerd/internal/perception"
	"carnerd/internal/reason"
	"carnerd/internal/types"
	"carnerd/internal/understanding"
)

var tracer = otel.Tracer("carnerd.pipeline")

// Deferral response for inputs that touch an epistemic boundary.
const (
	DeferAction = "Defer to human judgment"
	DeferLabel  = "Outside domain of knowledge"
)

// DefaultSource is recorded in run metadata unless WithSource overrides it.
const DefaultSource = "carnerd"

// Engine runs the full pipeline.
type Engine struct {
	cfg        config.Config
	boundaries []string

	logger  *zap.Logger
	base    *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	gate    ethics.Gate
	source  string

	extractor   *perception.Extractor
	categorizer *understanding.Categorizer
	critic      *critique.Engine
	resolver    *antinomy.Resolver
}

// New validates cfg and builds an engine from a private copy of it.
// An invalid configuration is the only construction failure; the returned error
// wraps config.ErrInvalidConfig.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg.Clone(),
		tracer: tracer,
		source: DefaultSource,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.base == nil {
		e.base = zap.NewNop()
	}

	lc := e.cfg.Logging
	e.logger = logging.For(e.base, lc, logging.CategoryPipeline)
	if e.gate == nil {
		e.gate = ethics.NewImperative(e.cfg.Reason.Ethics.CategoricalImperative, logging.For(e.base, lc, logging.CategoryEthics))
	}
	for _, b := range e.cfg.EpistemicBoundaries {
		if b = strings.TrimSpace(b); b != "" {
			e.boundaries = append(e.boundaries, b)
		}
	}

	e.extractor = perception.NewExtractor(e.cfg.Sensibility, logging.For(e.base, lc, logging.CategoryPerception))
	e.categorizer = understanding.NewCategorizer(e.cfg.Understanding, logging.For(e.base, lc, logging.CategoryUnderstanding))
	e.critic = critique.NewEngine(e.cfg.Critique, e.cfg.Domain, logging.For(e.base, lc, logging.CategoryCritique))
	e.resolver = antinomy.NewResolver(e.cfg.Domain, e.cfg.ConfidenceThresholds.High, logging.For(e.base, lc, logging.CategoryAntinomy))

	e.logger.Debug("engine ready",
		zap.String("domain", e.cfg.Domain),
		zap.Int("boundaries", len(e.boundaries)),
		zap.String("confidence_output", e.cfg.ConfidenceOutput))
	return e, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() config.Config {
	return e.cfg.Clone()
}

// Process runs the pipeline on input.
func (e *Engine) Process(input any) types.CARResult {
	return e.ProcessContext(context.Background(), input)
}

// ProcessContext runs the pipeline on input, recording a span per stage under
// the span carried by ctx. A single run is never cancelled.
func (e *Engine) ProcessContext(ctx context.Context, input any) types.CARResult {
	res, _ := e.run(ctx, input, false)
	return res
}

// run executes one pipeline run. When cancellable, ctx is checked between
// stages and its error is returned in place of a result.
func (e *Engine) run(ctx context.Context, input any, cancellable bool) (types.CARResult, error) {
	runID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "carnerd.Process",
		trace.WithAttributes(
			attribute.String("carnerd.run_id", runID),
			attribute.String("carnerd.domain", e.cfg.Domain),
		),
	)
	defer span.End()

	start := time.Now()
	audit := logging.NewAudit(e.logger, runID)
	audit.RunStart()

	data := types.ProcessedData{Metadata: types.Metadata{
		RunID:     runID,
		Source:    e.source,
		Timestamp: start,
		History:   types.NewHistory(),
	}}

	data = e.stage(ctx, audit, types.StageSensibility, func() types.ProcessedData {
		return e.extractor.Perceive(data, input)
	})

	if term, ok := e.boundary(input); ok {
		audit.BoundaryDeferral(term)
		e.logger.Info("input deferred at epistemic boundary",
			zap.String("run_id", runID),
			zap.String("term", term))
		span.SetAttributes(attribute.Bool("carnerd.deferred", true))
		e.metrics.IncrementRun(metrics.OutcomeDeferred)
		audit.RunComplete(true, time.Since(start))
		return deferral(data, term), nil
	}

	reasoner := reason.NewEngine(e.cfg.Reason, e.cfg.Domain, e.observedGate(audit),
		logging.For(e.base, e.cfg.Logging, logging.CategoryReason))

	steps := []struct {
		name string
		fn   func(types.ProcessedData) types.ProcessedData
	}{
		{types.StageUnderstanding, e.categorizer.Categorize},
		{types.StageReason, reasoner.Reason},
		{types.StageCritique, e.critic.Critique},
	}
	for _, s := range steps {
		if cancellable {
			if err := ctx.Err(); err != nil {
				return types.CARResult{}, err
			}
		}
		in := data
		data = e.stage(ctx, audit, s.name, func() types.ProcessedData { return s.fn(in) })
	}

	var resolution *types.AntinomyResolutionResult
	if e.cfg.EnabledModules.AntinomyResolution {
		data = e.stage(ctx, audit, types.StageAntinomy, func() types.ProcessedData {
			res, verdicts := e.resolver.ResolveVerdicts(data)
			for _, v := range verdicts {
				audit.TensionDetected(string(v.Tension.Type), v.Resolved)
			}
			resolution = &res
			return data.Advance(types.StageAntinomy)
		})
	}

	res := e.assemble(data, resolution)

	outcome := metrics.OutcomeDecided
	if data.Reasoning.Decision.Action == reason.DefaultAction {
		outcome = metrics.OutcomeDefault
	}
	e.metrics.IncrementRun(outcome)
	e.metrics.ObserveUncertainty(data.Critique.Uncertainty.Value)
	e.metrics.ObserveInferences(len(data.Reasoning.Inferences))

	span.SetAttributes(
		attribute.String("carnerd.outcome", outcome),
		attribute.Float64("carnerd.confidence", res.Confidence.Value),
	)
	audit.RunComplete(false, time.Since(start))
	e.logger.Debug("run complete",
		zap.String("run_id", runID),
		zap.String("decision", res.Decision),
		zap.String("confidence", res.Confidence.String()),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// stage runs fn inside a child span and records its latency.
func (e *Engine) stage(ctx context.Context, audit *logging.AuditLogger, name string, fn func() types.ProcessedData) types.ProcessedData {
	_, span := e.tracer.Start(ctx, "carnerd."+name)
	defer span.End()

	start := time.Now()
	out := fn()
	elapsed := time.Since(start)

	e.metrics.ObserveStage(name, elapsed)
	audit.StageComplete(name, elapsed)
	return out
}

// observedGate wraps the engine's gate so rewrites are audited for one run.
func (e *Engine) observedGate(audit *logging.AuditLogger) ethics.Gate {
	return ethics.GateFunc(func(action string) types.CategoricalImperativeResult {
		res := e.gate.Evaluate(action)
		if !res.Passes && res.AlternativeAction != "" {
			audit.EthicalRewrite(action, res.AlternativeAction)
			e.metrics.IncrementGateRewrite()
		}
		return res
	})
}

// boundary reports the first configured boundary term contained in the
// serialized input, compared case-insensitively.
func (e *Engine) boundary(input any) (string, bool) {
	if len(e.boundaries) == 0 {
		return "", false
	}
	if m := types.MatchingTerms(types.Serialize(input), e.boundaries...); len(m) > 0 {
		return m[0], true
	}
	return "", false
}

func deferral(data types.ProcessedData, term string) types.CARResult {
	return types.CARResult{
		RunID:     data.Metadata.RunID,
		Decision:  DeferAction,
		Reasoning: fmt.Sprintf("The input concerns %q, which is outside the domain this engine may reason about", term),
		Confidence: types.Confidence{
			Label: DeferLabel,
		},
		UncertaintyFactors:      []string{"Input touches a configured epistemic boundary"},
		EpistemicLimitations:    []string{fmt.Sprintf("Epistemic boundary reached: %s", term)},
		MetacognitiveReflection: "No reasoning was attempted; the question is referred to human judgment.",
		Deferred:                true,
		ProcessingHistory:       data.Metadata.History.Stages(),
	}
}
