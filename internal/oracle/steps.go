package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/CodexForgeBR/llm-planner/internal/parser"
	"github.com/CodexForgeBR/llm-planner/internal/search"
)

// ErrMalformedSteps is returned when a structured proposal is missing or
// fails schema validation.
var ErrMalformedSteps = errors.New("malformed step proposal")

const stepsSchemaJSON = `{
  "type": "object",
  "required": ["steps"],
  "properties": {
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action", "state"],
        "properties": {
          "action": {"type": "string", "minLength": 1},
          "state": {"type": "string"}
        }
      }
    }
  }
}`

var stepsSchema = mustSchema(stepsSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile steps schema: %v", err))
	}
	return s
}

// Step is one proposed transition.
type Step struct {
	Action string `json:"action"`
	State  string `json:"state"`
}

// Line renders s in the "action -> state" form the search expects.
func (s Step) Line() string {
	return strings.TrimSpace(s.Action) + " " + search.StepSeparator + " " + strings.TrimSpace(s.State)
}

// ParseSteps extracts and validates a {"steps": [...]} document from text.
func ParseSteps(text string) ([]Step, error) {
	raw, err := parser.ExtractJSON(text, `"steps"`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSteps, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: no steps object", ErrMalformedSteps)
	}

	result, err := stepsSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSteps, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedSteps, strings.Join(msgs, "; "))
	}

	var doc struct {
		Steps []Step `json:"steps"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSteps, err)
	}
	return doc.Steps, nil
}
