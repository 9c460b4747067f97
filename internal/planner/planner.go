// Package planner runs external classical planners and collects their plans.
package planner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// Kind names a supported planner backend.
type Kind string

const (
	KindFastDownward Kind = "fast-downward"
	KindJulia        Kind = "julia"
)

const (
	DefaultFastDownwardScript = "./downward/fast-downward.py"
	DefaultJuliaScript        = "run_planner.jl"
)

// Planner solves a PDDL problem and writes plans next to planFile.
type Planner interface {
	Solve(ctx context.Context, domainFile, problemFile, planFile string, timeLimit time.Duration) error
	// Binary is the executable that must be on PATH.
	Binary() string
}

// Options configures New.
type Options struct {
	Script string
	Alias  string
	Search string
}

// New returns the planner for kind.
func New(kind Kind, opts Options) (Planner, error) {
	switch kind {
	case KindFastDownward:
		return &FastDownward{Script: opts.Script, Alias: opts.Alias, Search: opts.Search}, nil
	case KindJulia:
		return &Julia{Script: opts.Script}, nil
	default:
		return nil, fmt.Errorf("unknown planner %q", kind)
	}
}

// FastDownward drives fast-downward.py. Alias takes precedence over Search;
// with neither set the planner's default configuration is used.
type FastDownward struct {
	Python string
	Script string
	Alias  string
	Search string
}

// Binary implements Planner.
func (f *FastDownward) Binary() string {
	if f.Python == "" {
		return "python"
	}
	return f.Python
}

// BuildArgs constructs the argument list for fast-downward.py.
func (f *FastDownward) BuildArgs(domainFile, problemFile, planFile string, timeLimit time.Duration) []string {
	script := f.Script
	if script == "" {
		script = DefaultFastDownwardScript
	}
	args := []string{script}
	if f.Alias != "" {
		args = append(args, "--alias", f.Alias)
	}
	args = append(args,
		"--search-time-limit", strconv.Itoa(int(timeLimit.Seconds())),
		"--plan-file", planFile,
		"--sas-file", planFile+".sas",
		domainFile, problemFile,
	)
	if f.Alias == "" && f.Search != "" {
		args = append(args, "--search", f.Search)
	}
	return args
}

// Solve implements Planner.
func (f *FastDownward) Solve(ctx context.Context, domainFile, problemFile, planFile string, timeLimit time.Duration) error {
	return run(ctx, planFile, f.Binary(), f.BuildArgs(domainFile, problemFile, planFile, timeLimit))
}

// Julia drives a Julia planning script taking domain, problem and plan paths.
type Julia struct {
	Julia  string
	Script string
}

// Binary implements Planner.
func (j *Julia) Binary() string {
	if j.Julia == "" {
		return "julia"
	}
	return j.Julia
}

// BuildArgs constructs the argument list for the Julia script.
func (j *Julia) BuildArgs(domainFile, problemFile, planFile string) []string {
	script := j.Script
	if script == "" {
		script = DefaultJuliaScript
	}
	return []string{script, domainFile, problemFile, planFile}
}

// Solve implements Planner. The script has no time-limit argument; callers
// bound it through ctx.
func (j *Julia) Solve(ctx context.Context, domainFile, problemFile, planFile string, _ time.Duration) error {
	return run(ctx, planFile, j.Binary(), j.BuildArgs(domainFile, problemFile, planFile))
}

// run executes name with args, capturing combined output in planFile.log.
func run(ctx context.Context, planFile, name string, args []string) error {
	logFile, err := os.Create(planFile + ".log")
	if err != nil {
		return fmt.Errorf("create planner log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s exited: %w", name, err)
	}
	return nil
}

// CheckAvailability checks if the given tools are available in PATH.
// Returns a map of tool name to availability status.
func CheckAvailability(tools ...string) map[string]bool {
	result := make(map[string]bool, len(tools))
	for _, tool := range tools {
		_, err := exec.LookPath(tool)
		result[tool] = err == nil
	}
	return result
}
