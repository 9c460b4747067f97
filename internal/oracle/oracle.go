// Package oracle answers the search controller's questions with a language model.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/CodexForgeBR/llm-planner/internal/llm"
	"github.com/CodexForgeBR/llm-planner/internal/logging"
	"github.com/CodexForgeBR/llm-planner/internal/prompt"
	"github.com/CodexForgeBR/llm-planner/internal/search"
)

// LLMOracle implements search.Oracle. Client errors are returned as is; the
// controller marks them as oracle failures.
type LLMOracle struct {
	Client llm.Client

	// JSONSteps asks for proposals as a JSON document instead of free text.
	JSONSteps bool
}

var _ search.Oracle = (*LLMOracle)(nil)

// ProposeSteps returns one candidate line per proposed step.
func (o *LLMOracle) ProposeSteps(ctx context.Context, p search.Problem, plan search.Plan) ([]string, error) {
	if o.JSONSteps {
		return o.proposeJSON(ctx, p, plan)
	}

	resp, err := o.Client.Complete(ctx, prompt.BuildPropose(p, plan))
	if err != nil {
		return nil, err
	}
	logging.Step("proposals", resp)
	return strings.Split(resp, "\n"), nil
}

// Classify returns the model's trimmed verdict for plan.
func (o *LLMOracle) Classify(ctx context.Context, p search.Problem, plan search.Plan) (string, error) {
	resp, err := o.Client.Complete(ctx, prompt.BuildValue(p, plan))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

func (o *LLMOracle) proposeJSON(ctx context.Context, p search.Problem, plan search.Plan) ([]string, error) {
	resp, err := o.Client.Complete(ctx, prompt.BuildJSONSteps(p, plan))
	if err != nil {
		return nil, err
	}

	steps, err := ParseSteps(resp)
	if err != nil {
		// A garbled answer yields no children rather than ending the search.
		logging.Warn(fmt.Sprintf("Discarding proposal: %v", err))
		return nil, nil
	}

	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		lines = append(lines, s.Line())
	}
	logging.Step("proposals", strings.Join(lines, "\n"))
	return lines, nil
}
