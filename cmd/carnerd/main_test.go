package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/pipeline"
	"carnerd/internal/types"
)

// setup resets the global flags and returns a command writing into a buffer.
func setup(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	verbose = false
	configPath = filepath.Join(t.TempDir(), "carnerd.yaml")
	domain = ""
	boundaries = nil
	jsonOutput = false
	plain = true
	inputFile = ""
	rawInput = false
	concurrency = 2
	batchTime = time.Minute
	strictEthics = false
	forceInit = false
	watchDebounce = 20 * time.Millisecond

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(""))
	return cmd, &out
}

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		raw  bool
		want any
	}{
		{"text", "  fever and cough ", false, "fever and cough"},
		{"object", `{"a": 1}`, false, map[string]any{"a": float64(1)}},
		{"array", `[1, "x"]`, false, []any{float64(1), "x"}},
		{"raw keeps json as text", `{"a": 1}`, true, `{"a": 1}`},
		{"broken json is text", `{"a": `, false, `{"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeInput([]byte(tt.in), tt.raw)
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.want)
			if string(gotJSON) != string(wantJSON) {
				t.Fatalf("decodeInput(%q) = %s, want %s", tt.in, gotJSON, wantJSON)
			}
		})
	}
}

func TestReadBatch(t *testing.T) {
	inputs, err := readBatch([]byte("[\"a\", {\"b\": 2}, 3]"), false)
	if err != nil || len(inputs) != 3 {
		t.Fatalf("json array: got %v, %v", inputs, err)
	}

	inputs, err = readBatch([]byte("first line\n\n{\"k\": \"v\"}\nthird\n"), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 3 {
		t.Fatalf("expected 3 line inputs, got %d", len(inputs))
	}
	if _, ok := inputs[1].(map[string]any); !ok {
		t.Fatalf("expected JSON line to decode as object, got %T", inputs[1])
	}
}

func TestProcessCmd_Report(t *testing.T) {
	cmd, out := setup(t)
	domain = "healthcare"

	if err := runProcess(cmd, []string{"The patient has fever and cough"}); err != nil {
		t.Fatalf("runProcess failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"## Decision:", "Assessment lacks clinical data", "### Epistemic Limitations"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q\n%s", want, text)
		}
	}
}

func TestProcessCmd_JSONDeferral(t *testing.T) {
	cmd, out := setup(t)
	jsonOutput = true
	boundaries = []string{"quality of life"}
	cmd.SetIn(strings.NewReader("How do we measure quality of life?"))

	if err := runProcess(cmd, nil); err != nil {
		t.Fatalf("runProcess failed: %v", err)
	}
	var res types.CARResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if res.Decision != pipeline.DeferAction || !res.Deferred {
		t.Fatalf("expected deferral, got %+v", res)
	}
	if res.Confidence.Label != pipeline.DeferLabel {
		t.Fatalf("expected deferral label, got %q", res.Confidence.Label)
	}
}

func TestProcessCmd_InvalidConfig(t *testing.T) {
	cmd, _ := setup(t)
	cfg := config.DefaultConfig()
	cfg.ConfidenceThresholds.High = 0.2
	if err := cfg.Save(configPath); err != nil {
		t.Fatal(err)
	}

	err := runProcess(cmd, []string{"anything"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestInitLogger_UsesLoggingConfig(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		env     string
		want    bool
	}{
		{"debug level", "debug", false, "", true},
		{"error level", "error", false, "", false},
		{"verbose forces debug", "error", true, "", true},
		{"env override", "error", false, "debug", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := setup(t)
			verbose = tt.verbose
			if tt.env != "" {
				t.Setenv("CARNERD_LOG_LEVEL", tt.env)
			}
			logFile := filepath.Join(t.TempDir(), "carnerd.log")
			cfg := config.DefaultConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = "json"
			cfg.Logging.File = logFile
			if err := cfg.Save(configPath); err != nil {
				t.Fatal(err)
			}

			if err := initLogger(); err != nil {
				t.Fatalf("initLogger failed: %v", err)
			}
			if err := runProcess(cmd, []string{"Smoking causes cancer"}); err != nil {
				t.Fatalf("runProcess failed: %v", err)
			}
			_ = logger.Sync()

			data, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("log file not written: %v", err)
			}
			if got := strings.Contains(string(data), "engine ready"); got != tt.want {
				t.Fatalf("debug output in log file = %v, want %v\n%s", got, tt.want, data)
			}
		})
	}
}

func TestInitLogger_MissingConfigUsesDefaults(t *testing.T) {
	setup(t)
	if err := initLogger(); err != nil {
		t.Fatalf("initLogger failed: %v", err)
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("default logger should not emit debug output")
	}
}

func TestBatchCmd(t *testing.T) {
	cmd, out := setup(t)
	boundaries = []string{"afterlife"}
	file := filepath.Join(t.TempDir(), "inputs.txt")
	body := "Smoking causes cancer\nWhat is the afterlife like?\n\n[1, 2, 3, 5, 8]\n"
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if err := runBatch(cmd, []string{file}); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.Contains(lines[1], pipeline.DeferAction) {
		t.Fatalf("second result should be deferred, got %q", lines[1])
	}
	if !strings.Contains(out.String(), "3 input(s):") || !strings.Contains(out.String(), "1 deferred") {
		t.Fatalf("missing summary:\n%s", out.String())
	}
}

func TestUncertaintyCombine(t *testing.T) {
	cmd, out := setup(t)
	if err := runUncertaintyCombine(cmd, []string{"0.9", "0.5", "0.2"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "0.9204" {
		t.Fatalf("expected 0.9204, got %q", got)
	}

	cmd, _ = setup(t)
	if err := runUncertaintyCombine(cmd, []string{"1.5"}); err == nil {
		t.Fatal("expected range error")
	}
	if err := runUncertaintyCombine(cmd, []string{"abc"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEthicsCheck(t *testing.T) {
	cmd, out := setup(t)
	if err := runEthicsCheck(cmd, []string{"Deceive", "the", "customer"}); err != nil {
		t.Fatalf("non-strict check should not fail: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "[FAIL] Deceive the customer") {
		t.Fatalf("expected failing verdict:\n%s", text)
	}
	if !strings.Contains(text, "Alternative:") {
		t.Fatalf("expected rewritten alternative:\n%s", text)
	}

	cmd, _ = setup(t)
	strictEthics = true
	if err := runEthicsCheck(cmd, []string{"Deceive the customer"}); !errors.Is(err, errGateFailed) {
		t.Fatalf("expected errGateFailed, got %v", err)
	}

	cmd, out = setup(t)
	strictEthics = true
	if err := runEthicsCheck(cmd, []string{"Inform the patient about the options"}); err != nil {
		t.Fatalf("passing action failed: %v\n%s", err, out.String())
	}
	if !strings.HasPrefix(out.String(), "[PASS]") {
		t.Fatalf("expected passing verdict:\n%s", out.String())
	}
}

func TestConfigCommands(t *testing.T) {
	cmd, out := setup(t)

	if err := runConfigInit(cmd, nil); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if err := runConfigInit(cmd, nil); err == nil {
		t.Fatal("second init without --force should fail")
	}
	forceInit = true
	if err := runConfigInit(cmd, nil); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}

	out.Reset()
	if err := runConfigValidate(cmd, nil); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	out.Reset()
	domain = "education"
	if err := runConfigShow(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "domain: education") {
		t.Fatalf("expected domain override in output:\n%s", out.String())
	}
}

func TestWatchFile(t *testing.T) {
	_, _ = setup(t)
	engine, _, err := newEngine()
	if err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(file, []byte("Smoking causes cancer"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	if err := watchFile(ctx, engine, file, &out); err != nil {
		t.Fatalf("watchFile failed: %v", err)
	}
	if !strings.Contains(out.String(), "## Decision:") {
		t.Fatalf("expected the initial run to be reported:\n%s", out.String())
	}
}
