package prompt

import (
	"strings"

	"github.com/CodexForgeBR/llm-planner/internal/search"
)

// fill substitutes every {{KEY}} in tmpl in a single pass, so text pulled
// from task files is never itself treated as a placeholder.
func fill(tmpl string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// BuildDirect asks the model for a natural-language plan with no example.
func BuildDirect(taskNL, domainNL string) string {
	return fill(DirectTemplate,
		"{{DOMAIN_NL}}", domainNL,
		"{{TASK_NL}}", taskNL,
	)
}

// BuildStepByStep is BuildDirect with a chain-of-thought nudge appended.
func BuildStepByStep(taskNL, domainNL string) string {
	return fill(StepByStepTemplate,
		"{{DOMAIN_NL}}", domainNL,
		"{{TASK_NL}}", taskNL,
	)
}

// BuildInContext asks for a natural-language plan after showing the domain's
// example problem and its solution.
func BuildInContext(taskNL, domainNL string, ex search.Example) string {
	return fill(InContextTemplate,
		"{{DOMAIN_NL}}", domainNL,
		"{{EXAMPLE_NL}}", ex.Description,
		"{{EXAMPLE_SOL}}", ex.Solution,
		"{{TASK_NL}}", taskNL,
	)
}

// BuildPDDL asks the model to translate the task into problem PDDL with only
// the domain rules as context.
func BuildPDDL(taskNL, domainNL string) string {
	return fill(PDDLTemplate,
		"{{DOMAIN_NL}}", domainNL,
		"{{TASK_NL}}", taskNL,
	)
}

// BuildInContextPDDL asks the model to translate the task into problem PDDL
// after showing the example description and its PDDL.
func BuildInContextPDDL(taskNL string, ex search.Example) string {
	return fill(InContextPDDLTemplate,
		"{{EXAMPLE_NL}}", ex.Description,
		"{{EXAMPLE_PDDL}}", ex.PDDL,
		"{{TASK_NL}}", taskNL,
	)
}

// BuildPropose asks for candidate next steps, one "action -> state" per line.
func BuildPropose(p search.Problem, plan search.Plan) string {
	return fill(ProposeTemplate,
		"{{DOMAIN_NL}}", p.Rules,
		"{{EXAMPLE_NL}}", p.Example.Description,
		"{{EXAMPLE_SOL}}", p.Example.Solution,
		"{{TASK_NL}}", p.Description,
		"{{PLAN}}", plan.String(),
	)
}

// BuildJSONSteps is the structured variant of BuildPropose.
func BuildJSONSteps(p search.Problem, plan search.Plan) string {
	return fill(JSONStepsTemplate,
		"{{DOMAIN_NL}}", p.Rules,
		"{{EXAMPLE_NL}}", p.Example.Description,
		"{{EXAMPLE_SOL}}", p.Example.Solution,
		"{{TASK_NL}}", p.Description,
		"{{PLAN}}", plan.String(),
	)
}

// ValueShots holds the few-shot plans shown before a value query. They are
// cut from the example solution: prefixes are promising, the full solution
// reaches the goal and suffixes missing the first step are impossible.
type ValueShots struct {
	Sure1       string
	Sure2       string
	Impossible1 string
	Impossible2 string
}

// NewValueShots derives the few-shot plans from an example solution.
func NewValueShots(solution string) ValueShots {
	lines := strings.Split(strings.TrimSpace(solution), "\n")
	prefix := func(n int) string {
		if n > len(lines) {
			n = len(lines)
		}
		return strings.Join(lines[:n], "\n")
	}
	shots := ValueShots{
		Sure1:       prefix(1),
		Sure2:       prefix(2),
		Impossible2: lines[len(lines)-1],
	}
	if len(lines) > 1 {
		shots.Impossible1 = strings.Join(lines[1:], "\n")
	}
	return shots
}

// BuildValue asks the model to classify a partial plan as reached,
// impossible or a progress score in [0,1].
func BuildValue(p search.Problem, plan search.Plan) string {
	shots := NewValueShots(p.Example.Solution)
	return fill(ValueTemplate,
		"{{DOMAIN_NL}}", p.Rules,
		"{{EXAMPLE_NL}}", p.Example.Description,
		"{{SURE_1}}", shots.Sure1,
		"{{SURE_2}}", shots.Sure2,
		"{{EXAMPLE_SOL}}", p.Example.Solution,
		"{{IMPOSSIBLE_1}}", shots.Impossible1,
		"{{IMPOSSIBLE_2}}", shots.Impossible2,
		"{{TASK_NL}}", p.Description,
		"{{PLAN}}", plan.String(),
	)
}

// BuildPlanToLanguage asks the model to restate a PDDL plan as behaviors.
// The domain PDDL is collapsed onto one line to keep the prompt short.
func BuildPlanToLanguage(plan, taskNL, domainPDDL string) string {
	return fill(PlanToLanguageTemplate,
		"{{TASK_NL}}", taskNL,
		"{{DOMAIN_PDDL}}", strings.Join(strings.Fields(domainPDDL), " "),
		"{{PLAN}}", plan,
	)
}
