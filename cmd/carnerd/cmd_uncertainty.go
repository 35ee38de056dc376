package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"carnerd/internal/critique"
)

// uncertaintyCmd groups the uncertainty tools
var uncertaintyCmd = &cobra.Command{
	Use:   "uncertainty",
	Short: "Uncertainty arithmetic",
}

var uncertaintyCombineCmd = &cobra.Command{
	Use:   "combine [value...]",
	Short: "Combine independent uncertainty estimates",
	Long: `Combines uncertainty values in [0,1] the way the critique stage does:
the largest value dominates and each further value only adds to what is
left unexplained.

Example:
  carnerd uncertainty combine 0.9 0.5 0.2`,
	RunE: runUncertaintyCombine,
}

func init() {
	uncertaintyCmd.AddCommand(uncertaintyCombineCmd)
}

func runUncertaintyCombine(cmd *cobra.Command, args []string) error {
	values := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid uncertainty %q: %w", a, err)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("uncertainty %v out of range [0,1]", v)
		}
		values = append(values, v)
	}

	combined := critique.CombineUncertainties(values)
	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, map[string]any{"values": values, "combined": combined})
	}
	_, err := fmt.Fprintf(w, "%.4f\n", combined)
	return err
}
