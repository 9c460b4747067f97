package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/direct.txt
	DirectTemplate string

	//go:embed templates/step-by-step.txt
	StepByStepTemplate string

	//go:embed templates/in-context.txt
	InContextTemplate string

	//go:embed templates/pddl.txt
	PDDLTemplate string

	//go:embed templates/in-context-pddl.txt
	InContextPDDLTemplate string

	//go:embed templates/tot-propose.txt
	ProposeTemplate string

	//go:embed templates/tot-value.txt
	ValueTemplate string

	//go:embed templates/json-steps.txt
	JSONStepsTemplate string

	//go:embed templates/plan-to-language.txt
	PlanToLanguageTemplate string
)
