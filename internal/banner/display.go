// Package banner provides colored banner display functions for the llm-planner CLI.
//
// Banners mark the start and end of a run: which domain, methods and model
// were used, and how many attempts produced a plan.
package banner

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/CodexForgeBR/llm-planner/internal/logging"
	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput redirects banner output. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

func emit(lines ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
}

// RunInfo describes a run for the startup banner.
type RunInfo struct {
	Run     int
	Command string // "" for plain runs
	Domain  string
	Tasks   string // "3" or "all (12)"
	Methods []string
	Model   string
	Planner string
}

// PrintStartupBanner displays the run header.
//
//	═══════════════════════════════════════════════════
//	  llm-planner - LLM vs classical planning
//	═══════════════════════════════════════════════════
//	  Run:        4
//	  Domain:     blocksworld
//	  Tasks:      all (20)
//	  Methods:    llm_ic_pddl_planner, llm_tot_ic_planner
//	  Model:      gpt-4
//	  Planner:    julia
//	═══════════════════════════════════════════════════
func PrintStartupBanner(info RunInfo) {
	sep := headerColor(rule)
	title := "  llm-planner - LLM vs classical planning"
	if info.Command != "" {
		title += " (" + info.Command + ")"
	}
	emit(
		sep,
		headerColor(title),
		sep,
		fmt.Sprintf("  Run:        %d", info.Run),
		fmt.Sprintf("  Domain:     %s", info.Domain),
		fmt.Sprintf("  Tasks:      %s", info.Tasks),
		fmt.Sprintf("  Methods:    %s", strings.Join(info.Methods, ", ")),
		fmt.Sprintf("  Model:      %s", info.Model),
		fmt.Sprintf("  Planner:    %s", info.Planner),
		sep,
	)
}

// Summary tallies a finished run.
type Summary struct {
	Attempts     int
	Succeeded    int
	Outcomes     map[string]int
	DurationSecs int
	ResultsDir   string
}

// PrintSummaryBanner displays the run totals, green when every attempt
// produced a plan and yellow otherwise.
//
//	═══════════════════════════════════════════════════
//	  ✓ 3/3 attempts produced a plan
//	  solved:     2
//	  reached:    1
//	  Duration:   1m 12s (72s)
//	  Results:    experiments/run4/results
//	═══════════════════════════════════════════════════
func PrintSummaryBanner(s Summary) {
	paint, mark := successColor, "✓"
	if s.Succeeded < s.Attempts {
		paint, mark = warnColor, "⚠"
	}
	sep := paint(rule)

	lines := []string{sep, paint(fmt.Sprintf("  %s %d/%d attempts produced a plan", mark, s.Succeeded, s.Attempts))}

	names := make([]string, 0, len(s.Outcomes))
	for name := range s.Outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %-11s %d", name+":", s.Outcomes[name]))
	}

	lines = append(lines, fmt.Sprintf("  Duration:   %s (%ds)", logging.FormatDuration(s.DurationSecs), s.DurationSecs))
	if s.ResultsDir != "" {
		lines = append(lines, fmt.Sprintf("  Results:    %s", s.ResultsDir))
	}
	lines = append(lines, sep)
	emit(lines...)
}

// PrintInterruptedBanner displays when a run is interrupted.
//
//	═══════════════════════════════════════════════════
//	  ⚠ Run interrupted
//	  Completed:  2 attempts
//	  Re-run with --run 4 to keep writing into the same run
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(run, completed int) {
	sep := warnColor(rule)
	emit(
		sep,
		warnColor("  ⚠ Run interrupted"),
		fmt.Sprintf("  Completed:  %d attempts", completed),
		fmt.Sprintf("  Re-run with --run %d to keep writing into the same run", run),
		sep,
	)
}

// PrintErrorBanner displays a fatal error.
//
//	═══════════════════════════════════════════════════
//	  ✗ RUN FAILED
//	═══════════════════════════════════════════════════
//	  read p_example.sol: no such file or directory
//	═══════════════════════════════════════════════════
func PrintErrorBanner(msg string) {
	sep := errorColor(rule)
	emit(
		sep,
		errorColor("  ✗ RUN FAILED"),
		sep,
		"  "+msg,
		sep,
	)
}
