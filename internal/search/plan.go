// Package search implements the tree-of-thought best-first planner.
//
// A Controller expands partial plans in order of accumulated priority.
// Successor steps and their scores come from an Oracle, typically backed by
// a language model; the controller itself only owns the frontier, the time
// budget, and the bookkeeping between the two oracle calls.
package search

import (
	"context"
	"strings"
)

// StepSeparator separates the action from the resulting state in a step line.
const StepSeparator = "->"

// Example is the few-shot context shown to the oracle: a solved problem from
// the same domain.
type Example struct {
	Description string // natural-language problem
	PDDL        string // formal problem definition
	Solution    string // natural-language plan, one step per line
}

// Problem is everything the oracle needs besides the partial plan.
type Problem struct {
	Description string
	Rules       string
	Example     Example
}

// Plan is an ordered, immutable sequence of "action -> state" lines.
// The zero value is the empty plan (the initial state).
type Plan struct {
	lines []string
}

// NewPlan builds a plan from the given lines.
func NewPlan(lines ...string) Plan {
	if len(lines) == 0 {
		return Plan{}
	}
	cp := make([]string, len(lines))
	copy(cp, lines)
	return Plan{lines: cp}
}

// Len returns the number of steps.
func (p Plan) Len() int { return len(p.lines) }

// IsEmpty reports whether the plan has no steps.
func (p Plan) IsEmpty() bool { return len(p.lines) == 0 }

// Lines returns a copy of the plan's step lines.
func (p Plan) Lines() []string {
	cp := make([]string, len(p.lines))
	copy(cp, p.lines)
	return cp
}

// Extend returns a new plan with line appended. The receiver is unchanged.
func (p Plan) Extend(line string) Plan {
	next := make([]string, len(p.lines), len(p.lines)+1)
	copy(next, p.lines)
	return Plan{lines: append(next, line)}
}

// String renders the plan as newline-separated steps.
func (p Plan) String() string {
	return strings.Join(p.lines, "\n")
}

// ParseStep validates a candidate line from the oracle. It returns the
// trimmed line and true when the line has a non-empty action followed by
// StepSeparator.
func ParseStep(line string) (string, bool) {
	line = strings.TrimSpace(line)
	idx := strings.Index(line, StepSeparator)
	if idx < 0 {
		return "", false
	}
	if strings.TrimSpace(line[:idx]) == "" {
		return "", false
	}
	return line, true
}

// Oracle proposes next steps and classifies partial plans.
//
// Implementations return an error only for infrastructure failures (auth,
// quota, network); malformed model output is reported as ordinary data.
type Oracle interface {
	ProposeSteps(ctx context.Context, problem Problem, plan Plan) ([]string, error)
	Classify(ctx context.Context, problem Problem, plan Plan) (string, error)
}
