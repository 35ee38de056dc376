package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carnerd/internal/metrics"
	"carnerd/internal/pipeline"
)

var (
	inputFile   string
	rawInput    bool
	concurrency int
	batchTime   time.Duration
)

// processCmd runs the pipeline once
var processCmd = &cobra.Command{
	Use:   "process [text]",
	Short: "Run the pipeline on one input and explain the decision",
	Long: `Processes one input through every stage and prints the glass-box report.

The input is taken from --file, from the arguments, or from stdin. Input that
is a JSON object or array is processed as structured data; anything else is
processed as text (use --raw to force text).

Examples:
  carnerd process "The patient has fever and cough" --domain healthcare
  carnerd process --file record.json --json
  echo '[3, 5, 8, 13]' | carnerd process`,
	RunE: runProcess,
}

// batchCmd runs the pipeline over many inputs
var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Run the pipeline over every input in a file",
	Long: `Processes a batch file concurrently and prints one line per input, in order.

The file is either a JSON array (one input per element) or one input per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	processCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the input from a file")
	processCmd.Flags().BoolVar(&rawInput, "raw", false, "Treat the input as text even if it looks like JSON")

	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "n", 4, "Maximum runs in flight")
	batchCmd.Flags().BoolVar(&rawInput, "raw", false, "Treat every line as text")
	batchCmd.Flags().DurationVar(&batchTime, "timeout", 5*time.Minute, "Abort the batch after this long")
}

func runProcess(cmd *cobra.Command, args []string) error {
	engine, _, err := newEngine()
	if err != nil {
		return err
	}
	input, err := readInput(cmd.InOrStdin(), args, inputFile, rawInput)
	if err != nil {
		return err
	}
	res := engine.ProcessContext(commandContext(cmd), input)
	return printResult(cmd.OutOrStdout(), res)
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}
	inputs, err := readBatch(data, rawInput)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	engine, _, err := newEngine(pipeline.WithMetrics(metrics.New(reg)))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), batchTime)
	defer cancel()

	start := time.Now()
	results, err := engine.ProcessBatch(ctx, inputs, concurrency)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	if logger != nil {
		logger.Info("batch complete", zap.Int("inputs", len(inputs)), zap.Duration("elapsed", time.Since(start)))
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, results)
	}
	for i, res := range results {
		fmt.Fprintf(w, "%3d  %-12s  %s\n", i+1, res.Confidence.String(), res.Decision)
	}

	outcomes, err := runOutcomes(reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d input(s): %d decided, %d deferred, %d without a decision\n",
		len(results), outcomes[metrics.OutcomeDecided], outcomes[metrics.OutcomeDeferred], outcomes[metrics.OutcomeDefault])
	return nil
}

// runOutcomes reads the run counters back from the registry.
func runOutcomes(reg *prometheus.Registry) (map[string]int, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	out := map[string]int{}
	for _, f := range families {
		if f.GetName() != "carnerd_runs_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" {
					out[l.GetValue()] = int(m.GetCounter().GetValue())
				}
			}
		}
	}
	return out, nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
