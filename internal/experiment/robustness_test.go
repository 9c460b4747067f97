package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePerturbations(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blocksworld"), 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "blocksworld", name), []byte(content), 0644))
	}
}

func TestRobustness_RunsEveryVariant(t *testing.T) {
	client := answering("pick A, stack A B")
	env := newTestEnv(t, client, nil)
	dir := env.layout.PerturbationsDir()
	writePerturbations(t, dir, map[string]string{
		"p01_1.nl":  "Place A onto B.\n",
		"p01_2.nl":  "Put block A on block B.",
		"p010_1.nl": "other task",
	})

	reports, err := env.runner.Robustness(context.Background(), LLMIC, 0, dir)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "blocksworld/p01_1.pddl", reports[0].Task)
	assert.Equal(t, "blocksworld/p01_2.pddl", reports[1].Task)
	assert.Contains(t, client.prompts[0], "Place A onto B.")
	assert.Contains(t, client.prompts[1], "Put block A on block B.")
	assert.Equal(t, "pick A, stack A B", readFile(t, env.layout.Path(Results, "llm_ic", "blocksworld/p01_2.pddl")))
}

func TestRobustness_PDDLMethod(t *testing.T) {
	p := &mockPlanner{SolveFunc: writesPlan("(pick a)", 1)}
	env := newTestEnv(t, answering("(define (problem v))"), p)
	dir := env.layout.PerturbationsDir()
	writePerturbations(t, dir, map[string]string{"p02_1.nl": "Swap them."})

	reports, err := env.runner.Robustness(context.Background(), LLMICPDDL, 1, dir)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, OutcomeSolved, reports[0].Outcome)
	assert.Equal(t, []string{env.layout.Path(Problems, "llm_ic_pddl", "blocksworld/p02_1.pddl")}, p.problems)
}

func TestRobustness_RejectsUnsupportedMethod(t *testing.T) {
	env := newTestEnv(t, answering("x"), nil)
	_, err := env.runner.Robustness(context.Background(), LLMToTIC, 0, t.TempDir())
	assert.ErrorIs(t, err, ErrNotRobust)
}

func TestRobustness_NoVariants(t *testing.T) {
	client := answering("x")
	env := newTestEnv(t, client, nil)

	reports, err := env.runner.Robustness(context.Background(), LLMIC, 0, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Empty(t, client.prompts)
}

func TestRobustness_FailingVariantDoesNotStopOthers(t *testing.T) {
	boom := errors.New("service down")
	client := &mockClient{CompleteFunc: func(prompt string) (string, error) {
		if strings.Contains(prompt, "first wording") {
			return "", boom
		}
		return "pick A, stack A B", nil
	}}
	env := newTestEnv(t, client, nil)
	dir := env.layout.PerturbationsDir()
	writePerturbations(t, dir, map[string]string{
		"p01_1.nl": "first wording",
		"p01_2.nl": "second wording",
	})

	reports, err := env.runner.Robustness(context.Background(), LLMIC, 0, dir)
	assert.ErrorIs(t, err, boom)
	require.Len(t, reports, 1)
	assert.Equal(t, "blocksworld/p01_2.pddl", reports[0].Task)
	assert.Len(t, client.prompts, 2)
}
