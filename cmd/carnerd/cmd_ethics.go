package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"carnerd/internal/ethics"
	"carnerd/internal/logging"
	"carnerd/internal/types"
)

var strictEthics bool

// errGateFailed is returned by `ethics check --strict` for a failing action.
var errGateFailed = errors.New("action fails the categorical imperative")

// ethicsCmd groups the ethical gate tools
var ethicsCmd = &cobra.Command{
	Use:   "ethics",
	Short: "Ethical gate tools",
}

var ethicsCheckCmd = &cobra.Command{
	Use:   "check [action]",
	Short: "Test an action against the categorical imperative",
	Long: `Runs the configured formulations of the categorical imperative on an
action and prints each verdict. A failing action is shown with the
rewritten alternative the engine would use instead.

Example:
  carnerd ethics check "Deceive the customer about the fees"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEthicsCheck,
}

func init() {
	ethicsCheckCmd.Flags().BoolVar(&strictEthics, "strict", false, "Exit with an error when the action fails")
	ethicsCmd.AddCommand(ethicsCheckCmd)
}

func runEthicsCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base := logger
	if base == nil {
		base = logging.Nop()
	}
	gate := ethics.NewImperative(cfg.Reason.Ethics.CategoricalImperative,
		logging.For(base, cfg.Logging, logging.CategoryEthics))

	action := strings.Join(args, " ")
	res := gate.Evaluate(action)

	w := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(w, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "%s %s\n\n", badge(w, res.Passes, verdict(res.Passes)), action)
		for _, row := range []struct {
			name string
			res  *types.TestResult
		}{
			{"Universalizability", res.Tests.Universalizability},
			{"Humanity as end", res.Tests.HumanityAsEnd},
			{"Kingdom of ends", res.Tests.KingdomOfEnds},
		} {
			if row.res == nil {
				continue
			}
			fmt.Fprintf(w, "  %s %-18s %s\n", badge(w, row.res.Passes, verdict(row.res.Passes)), row.name, row.res.Reasoning)
		}
		fmt.Fprintf(w, "\n%s\n", res.Explanation)
		if !res.Passes && res.AlternativeAction != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Alternative:"), res.AlternativeAction)
		}
	}

	if strictEthics && !res.Passes {
		return errGateFailed
	}
	return nil
}

func verdict(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
