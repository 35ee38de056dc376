package logging

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"carnerd/internal/config"
)

// =============================================================================
// LOGGER CONSTRUCTION
// =============================================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carnerd.log")
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	logger.Debug("hello")
	_ = logger.Sync()
	assert.FileExists(t, path)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "verbose"})
	assert.Error(t, err)
}

func TestFor_DisabledCategoryIsNop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)
	cfg := config.LoggingConfig{Categories: map[string]bool{"reason": false}}

	For(base, cfg, CategoryReason).Info("dropped")
	For(base, cfg, CategoryCritique).Info("kept")
	For(nil, cfg, CategoryCritique).Info("nil base")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "critique", entry.LoggerName)
}

// =============================================================================
// AUDIT EVENTS
// =============================================================================

func TestAuditEvent_MangleFact(t *testing.T) {
	tests := []struct {
		name  string
		event AuditEvent
		want  string
	}{
		{
			name:  "stage",
			event: AuditEvent{Timestamp: 1, EventType: AuditStageComplete, RunID: "r1", Target: "reason", DurationMs: 3},
			want:  `stage_complete(1, "r1", "reason", 3).`,
		},
		{
			name:  "boundary with quotes",
			event: AuditEvent{Timestamp: 2, EventType: AuditBoundaryDefer, RunID: "r1", Target: `say "no"`},
			want:  `boundary_defer(2, "r1", "say \"no\"").`,
		},
		{
			name:  "tension",
			event: AuditEvent{Timestamp: 3, EventType: AuditTensionDetected, RunID: "r1", Target: "epistemic", Success: true},
			want:  `tension_detected(3, "r1", /epistemic, true).`,
		},
		{
			name:  "run",
			event: AuditEvent{Timestamp: 4, EventType: AuditRunComplete, RunID: "r1"},
			want:  `run_event(4, /run_complete, "r1", false).`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.MangleFact())
		})
	}
}

func TestAuditLogger_WritesDebugEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	audit := NewAudit(zap.New(core), "run-42")
	audit.now = func() time.Time { return time.UnixMilli(1000) }

	audit.RunStart()
	audit.StageComplete("sensibility", 2*time.Millisecond)
	audit.EthicalRewrite("deceive them", "inform them")
	audit.RunComplete(false, 5*time.Millisecond)

	require.Equal(t, 4, logs.Len())
	fields := logs.All()[1].ContextMap()
	assert.Equal(t, "stage_complete", fields["event"])
	assert.Equal(t, "run-42", fields["run_id"])
	assert.True(t, strings.HasPrefix(fields["mangle"].(string), `stage_complete(1000, "run-42", "sensibility"`))
}

func TestAuditLogger_NilSafe(t *testing.T) {
	var a *AuditLogger
	a.RunStart()
	NewAudit(nil, "x").BoundaryDeferral("afterlife")
}
