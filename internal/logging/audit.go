package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENT TYPES - Maps to Mangle predicates
// =============================================================================

// AuditEventType defines the type of audit event (maps to Mangle predicate)
type AuditEventType string

const (
	// Run lifecycle -> run_event/4
	AuditRunStart    AuditEventType = "run_start"
	AuditRunComplete AuditEventType = "run_complete"

	// Stage completion -> stage_complete/4
	AuditStageComplete AuditEventType = "stage_complete"

	// Boundary deferral -> boundary_defer/3
	AuditBoundaryDefer AuditEventType = "boundary_defer"

	// Ethical gate rewrites -> ethical_rewrite/4
	AuditEthicalRewrite AuditEventType = "ethical_rewrite"

	// Antinomy -> tension_detected/4
	AuditTensionDetected AuditEventType = "tension_detected"
)

// AuditEvent is a structured audit entry that can be replayed as a Mangle fact.
type AuditEvent struct {
	Timestamp  int64          // Unix milliseconds
	EventType  AuditEventType // Maps to Mangle predicate
	RunID      string
	Target     string // stage name, boundary term, tension kind
	Action     string
	Success    bool
	DurationMs int64
	Message    string
}

// MangleFact renders the event as a Mangle fact.
func (e AuditEvent) MangleFact() string {
	switch e.EventType {
	case AuditRunStart, AuditRunComplete:
		return fmt.Sprintf("run_event(%d, /%s, \"%s\", %v).",
			e.Timestamp, e.EventType, escapeString(e.RunID), e.Success)
	case AuditStageComplete:
		return fmt.Sprintf("stage_complete(%d, \"%s\", \"%s\", %d).",
			e.Timestamp, escapeString(e.RunID), escapeString(e.Target), e.DurationMs)
	case AuditBoundaryDefer:
		return fmt.Sprintf("boundary_defer(%d, \"%s\", \"%s\").",
			e.Timestamp, escapeString(e.RunID), escapeString(e.Target))
	case AuditEthicalRewrite:
		return fmt.Sprintf("ethical_rewrite(%d, \"%s\", \"%s\", \"%s\").",
			e.Timestamp, escapeString(e.RunID), escapeString(e.Target), escapeString(e.Action))
	case AuditTensionDetected:
		return fmt.Sprintf("tension_detected(%d, \"%s\", /%s, %v).",
			e.Timestamp, escapeString(e.RunID), e.Target, e.Success)
	default:
		return fmt.Sprintf("audit_event(%d, /%s, \"%s\", \"%s\").",
			e.Timestamp, e.EventType, escapeString(e.RunID), escapeString(e.Message))
	}
}

func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/10)

	for _, c := range s {
		switch c {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

// AuditLogger writes audit events for a single run through zap.
type AuditLogger struct {
	logger *zap.Logger
	runID  string
	now    func() time.Time
}

// NewAudit creates an audit logger scoped to one run. A nil logger discards events.
func NewAudit(logger *zap.Logger, runID string) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{logger: logger, runID: runID, now: time.Now}
}

// Log writes an audit event at debug level.
func (a *AuditLogger) Log(event AuditEvent) {
	if a == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = a.now().UnixMilli()
	}
	if event.RunID == "" {
		event.RunID = a.runID
	}
	if ce := a.logger.Check(zap.DebugLevel, "audit"); ce != nil {
		ce.Write(
			zap.String("event", string(event.EventType)),
			zap.String("run_id", event.RunID),
			zap.String("target", event.Target),
			zap.Int64("dur_ms", event.DurationMs),
			zap.String("mangle", event.MangleFact()),
		)
	}
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// RunStart logs the start of a pipeline run.
func (a *AuditLogger) RunStart() {
	a.Log(AuditEvent{EventType: AuditRunStart, Success: true})
}

// RunComplete logs the end of a pipeline run.
func (a *AuditLogger) RunComplete(deferred bool, duration time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditRunComplete,
		Success:    !deferred,
		DurationMs: duration.Milliseconds(),
	})
}

// StageComplete logs a finished stage.
func (a *AuditLogger) StageComplete(stage string, duration time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditStageComplete,
		Target:     stage,
		Success:    true,
		DurationMs: duration.Milliseconds(),
	})
}

// BoundaryDeferral logs a short circuit on an epistemic boundary term.
func (a *AuditLogger) BoundaryDeferral(term string) {
	a.Log(AuditEvent{EventType: AuditBoundaryDefer, Target: term})
}

// EthicalRewrite logs the replacement of an action that failed the ethical gate.
func (a *AuditLogger) EthicalRewrite(original, rewritten string) {
	a.Log(AuditEvent{EventType: AuditEthicalRewrite, Target: original, Action: rewritten})
}

// TensionDetected logs a detected antinomy and whether it was resolved.
func (a *AuditLogger) TensionDetected(kind string, resolved bool) {
	a.Log(AuditEvent{EventType: AuditTensionDetected, Target: kind, Success: resolved})
}
