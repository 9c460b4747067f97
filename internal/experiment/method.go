// Package experiment runs planning methods over benchmark tasks and records
// what they produce.
package experiment

import (
	"errors"
	"fmt"
	"strings"
)

// Method is one way of turning a task description into a plan.
type Method string

const (
	// LLMICPDDL has the model write problem PDDL from an in-context example
	// and hands it to a classical planner.
	LLMICPDDL Method = "llm_ic_pddl_planner"
	// LLMPDDL is LLMICPDDL without the example.
	LLMPDDL Method = "llm_pddl_planner"
	// LLM asks the model for a plan directly.
	LLM Method = "llm_planner"
	// LLMStepByStep is LLM with a step-by-step nudge.
	LLMStepByStep Method = "llm_stepbystep_planner"
	// LLMIC asks for a plan after an in-context example.
	LLMIC Method = "llm_ic_planner"
	// LLMToTIC searches over model-proposed steps.
	LLMToTIC Method = "llm_tot_ic_planner"
)

// ErrUnknownMethod is returned by ParseMethod.
var ErrUnknownMethod = errors.New("unknown method")

// ErrNotRobust is returned when a method is used in a robustness experiment
// that does not support one.
var ErrNotRobust = errors.New("method does not support robustness experiments")

var methodTags = map[Method]string{
	LLMICPDDL:     "llm_ic_pddl",
	LLMPDDL:       "llm_pddl",
	LLM:           "llm",
	LLMStepByStep: "llm_step",
	LLMIC:         "llm_ic",
	LLMToTIC:      "llm_tot_ic",
}

// Methods lists every method in canonical order.
func Methods() []Method {
	return []Method{LLMICPDDL, LLMPDDL, LLM, LLMStepByStep, LLMIC, LLMToTIC}
}

// RobustnessMethods lists the methods that can run on perturbed descriptions.
func RobustnessMethods() []Method {
	return []Method{LLMICPDDL, LLMIC}
}

// ParseMethod resolves a method name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.TrimSpace(s))
	if _, ok := methodTags[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
	return m, nil
}

// Tag is the directory name used for the method's artifacts.
func (m Method) Tag() string { return methodTags[m] }

// UsesPlanner reports whether the method hands generated PDDL to a planner.
func (m Method) UsesPlanner() bool { return m == LLMICPDDL || m == LLMPDDL }

// Robust reports whether the method supports robustness experiments.
func (m Method) Robust() bool { return m == LLMICPDDL || m == LLMIC }

// Outcome summarizes how a task attempt ended.
type Outcome string

const (
	OutcomeSolved   Outcome = "solved"   // planner returned a plan
	OutcomeNoPlan   Outcome = "no_plan"  // planner found nothing
	OutcomeAnswered Outcome = "answered" // model gave a free-text plan

	// Tree-of-thought attempts report the search outcome's name; this is the
	// successful one.
	OutcomeReached Outcome = "reached"
)

// Succeeded reports whether the attempt produced a plan.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSolved || o == OutcomeAnswered || o == OutcomeReached
}
