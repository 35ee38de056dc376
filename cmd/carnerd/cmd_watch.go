package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carnerd/internal/pipeline"
)

var watchDebounce time.Duration

// watchCmd re-processes a file whenever it changes
var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-run the pipeline whenever an input file changes",
	Long: `Processes the file once, then again after every save, until interrupted.

Rapid successive writes are debounced so an editor save produces one run.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period after a change before re-processing")
	watchCmd.Flags().BoolVar(&rawInput, "raw", false, "Treat the file as text even if it looks like JSON")
}

func runWatch(cmd *cobra.Command, args []string) error {
	engine, _, err := newEngine()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	return watchFile(ctx, engine, path, cmd.OutOrStdout())
}

// watchFile processes path once and again after each change until ctx ends.
// The directory is watched rather than the file so that editors which replace
// the file on save keep being followed.
func watchFile(ctx context.Context, engine *pipeline.Engine, path string, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	run := func() {
		input, err := readInput(nil, nil, path, rawInput)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		if err := printResult(w, engine.ProcessContext(ctx, input)); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
	run()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if logger != nil {
				logger.Warn("watch error", zap.Error(err))
			}

		case <-debounce.C:
			fmt.Fprintf(w, "\n--- %s changed ---\n\n", filepath.Base(path))
			run()
		}
	}
}
