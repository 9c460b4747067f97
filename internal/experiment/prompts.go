package experiment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/llm-planner/internal/domain"
	"github.com/CodexForgeBR/llm-planner/internal/prompt"
)

// PrintPrompts writes the single-shot prompt of every method for every task
// of every domain to <out>/<tag>/<domain>/<task>.pddl.prompt.
func PrintPrompts(domainsRoot, out string) (int, error) {
	written := 0
	for _, name := range domain.Names() {
		d, err := domain.Open(domainsRoot, name)
		if err != nil {
			return written, err
		}
		if d.Len() == 0 {
			continue
		}
		ex, err := d.Context()
		if err != nil {
			return written, fmt.Errorf("%s: %w", name, err)
		}
		rules := d.DomainNL()

		for i := 0; i < d.Len(); i++ {
			nl, _, err := d.Task(i)
			if err != nil {
				return written, err
			}
			suffix, err := d.TaskSuffix(i)
			if err != nil {
				return written, err
			}

			prompts := map[Method]string{
				LLM:           prompt.BuildDirect(nl, rules),
				LLMStepByStep: prompt.BuildStepByStep(nl, rules),
				LLMIC:         prompt.BuildInContext(nl, rules, ex),
				LLMPDDL:       prompt.BuildPDDL(nl, rules),
				LLMICPDDL:     prompt.BuildInContextPDDL(nl, ex),
			}
			for m, text := range prompts {
				path := filepath.Join(out, m.Tag(), filepath.FromSlash(suffix)+".prompt")
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return written, fmt.Errorf("create prompt directory: %w", err)
				}
				if err := os.WriteFile(path, []byte(text), 0644); err != nil {
					return written, fmt.Errorf("write %s: %w", path, err)
				}
				written++
			}
		}
	}
	return written, nil
}
