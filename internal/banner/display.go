// Package banner provides colored banner display functions for the selfevo
// interactive loop.
//
// Every function writes to the supplied writer so the loop can direct
// banners at its own output.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
	magentaColor = color.New(color.FgMagenta, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// PrintStartupBanner displays the startup banner with session info.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  selfevo - Staged Self-Evolution Loop
//	═══════════════════════════════════════════════════
//	  Session:    6f1c...
//	  Model:      deepseek-chat
//	  Scorer:     heuristic
//	  Database:   .selfevo/interactions.db
//	═══════════════════════════════════════════════════
func PrintStartupBanner(w io.Writer, sessionID, model, scorer, dbPath string) {
	sep := headerColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  selfevo - Staged Self-Evolution Loop"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Session:    %s\n", sessionID)
	fmt.Fprintf(w, "  Model:      %s\n", model)
	fmt.Fprintf(w, "  Scorer:     %s\n", scorer)
	fmt.Fprintf(w, "  Database:   %s\n", dbPath)
	fmt.Fprintln(w, sep)
}

// PrintResizeBanner announces a Pause, Name, Resize, Continue intervention.
func PrintResizeBanner(w io.Writer, template string) {
	fmt.Fprintf(w, "\n%s %s\n", warnColor("🔄 Resize Intervention:"), template)
}

// PrintMetaBanner announces that the turn runs in Meta-Mode.
func PrintMetaBanner(w io.Writer) {
	fmt.Fprintln(w, magentaColor("🔍 Meta-Mode reflection"))
}

// PrintWeeklyBanner frames the weekly self-patch report.
//
// Example output:
//
//	🧠 WEEKLY SELF-PATCH RITUAL
//	════════════════════════════════════════
//	# Weekly Self-Patch Ritual
//	...
//	════════════════════════════════════════
func PrintWeeklyBanner(w io.Writer, report string) {
	sep := successColor(strings.Repeat("═", 40))
	fmt.Fprintln(w)
	fmt.Fprintln(w, successColor("🧠 WEEKLY SELF-PATCH RITUAL"))
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, strings.TrimRight(report, "\n"))
	fmt.Fprintln(w, sep)
}

// PrintInterruptedBanner displays when the loop is interrupted.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Session interrupted after 3 turn(s)
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(w io.Writer, turns int) {
	sep := warnColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor(fmt.Sprintf("  ⚠ Session interrupted after %d turn(s)", turns)))
	fmt.Fprintln(w, sep)
}

// PrintTurnSummary displays the outcome of one turn.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Turn:    2
//	  Stage:   Stage 3
//	  Status:  partial (0.70)
//	  Scores:  self-report:direct (confidence 1.00)
//	──────────────────────────────────────────────────
func PrintTurnSummary(w io.Writer, turn int, stageTitle, status string, score float64, method string, confidence float64) {
	sep := strings.Repeat("─", 50)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Turn:    %d\n", turn)
	fmt.Fprintf(w, "  Stage:   %s\n", stageTitle)
	fmt.Fprintf(w, "  Status:  %s (%.2f)\n", status, score)
	fmt.Fprintf(w, "  Scores:  %s (confidence %.2f)\n", method, confidence)
	fmt.Fprintln(w, sep)
}
