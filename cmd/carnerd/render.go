package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"carnerd/internal/transparency"
	"carnerd/internal/types"
)

var (
	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
	passBadge  = badgeStyle.Background(lipgloss.Color("#2E7D32"))
	failBadge  = badgeStyle.Background(lipgloss.Color("#C62828"))
	warnBadge  = badgeStyle.Background(lipgloss.Color("#F9A825")).Foreground(lipgloss.Color("#000000"))
	mutedBadge = badgeStyle.Background(lipgloss.Color("#616161"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// styled reports whether w is a terminal that should receive styled output.
func styled(w io.Writer) bool {
	if plain || jsonOutput {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderMarkdown prints md, through glamour when w is a terminal.
func renderMarkdown(w io.Writer, md string) error {
	if !styled(w) {
		_, err := fmt.Fprint(w, md)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		var out string
		if out, err = renderer.Render(md); err == nil {
			_, err = fmt.Fprint(w, out)
			return err
		}
	}
	// If glamour fails, print plain markdown
	_, err = fmt.Fprint(w, md)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult prints one result as JSON or as the explainer report.
func printResult(w io.Writer, res types.CARResult) error {
	if jsonOutput {
		return printJSON(w, res)
	}
	if err := renderMarkdown(w, transparency.NewExplainer().ExplainResult(res)); err != nil {
		return err
	}
	if styled(w) {
		_, err := fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Confidence"), confidenceBadge(res))
		return err
	}
	return nil
}

// badge renders text as a pass/fail badge, or bracketed on plain output.
func badge(w io.Writer, ok bool, text string) string {
	if !styled(w) {
		return "[" + text + "]"
	}
	if ok {
		return passBadge.Render(text)
	}
	return failBadge.Render(text)
}

func confidenceBadge(res types.CARResult) string {
	text := res.Confidence.String()
	if res.Deferred {
		return mutedBadge.Render(text)
	}
	switch res.ConfidenceLevel {
	case "very high", "high":
		return passBadge.Render(text)
	case "medium":
		return warnBadge.Render(text)
	default:
		return failBadge.Render(text)
	}
}
