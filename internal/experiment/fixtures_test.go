package experiment

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/llm-planner/internal/domain"
	"github.com/CodexForgeBR/llm-planner/internal/ledger"
)

// mockClient answers prompts through a function field and keeps them.
type mockClient struct {
	mu           sync.Mutex
	prompts      []string
	CompleteFunc func(prompt string) (string, error)
}

func (m *mockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.CompleteFunc(prompt)
}

func answering(s string) *mockClient {
	return &mockClient{CompleteFunc: func(string) (string, error) { return s, nil }}
}

// mockPlanner runs SolveFunc and records the problem files it was given.
type mockPlanner struct {
	mu        sync.Mutex
	problems  []string
	SolveFunc func(planFile string) error
}

func (p *mockPlanner) Solve(_ context.Context, _, problemFile, planFile string, _ time.Duration) error {
	p.mu.Lock()
	p.problems = append(p.problems, problemFile)
	p.mu.Unlock()
	if p.SolveFunc == nil {
		return nil
	}
	return p.SolveFunc(planFile)
}

func (p *mockPlanner) Binary() string { return "mock" }

// writesPlan returns a SolveFunc that leaves one plan with the given cost.
func writesPlan(body string, cost int) func(string) error {
	return func(planFile string) error {
		content := body + "\n; cost = " + strconv.Itoa(cost) + " (unit cost)\n"
		return os.WriteFile(planFile+".1", []byte(content), 0644)
	}
}

// memorySink collects records.
type memorySink struct {
	mu      sync.Mutex
	records []ledger.Record
}

func (s *memorySink) Record(_ context.Context, r ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func writeBlocksworld(t *testing.T, root string) *domain.Domain {
	t.Helper()
	dir := filepath.Join(root, "blocksworld")
	require.NoError(t, os.MkdirAll(dir, 0755))
	files := map[string]string{
		"domain.pddl":    "(define (domain blocksworld))",
		"domain.nl":      "Blocks can be stacked.",
		"p_example.nl":   "Put C on D.",
		"p_example.pddl": "(define (problem ex))",
		"p_example.sol":  "pick C\nstack C D",
		"p01.nl":         "Put A on B.",
		"p01.pddl":       "(define (problem p01))",
		"p02.nl":         "Put B on A.",
		"p02.pddl":       "(define (problem p02))",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	d, err := domain.Open(root, domain.Blocksworld)
	require.NoError(t, err)
	return d
}

type testEnv struct {
	runner *Runner
	sink   *memorySink
	layout Layout
}

func newTestEnv(t *testing.T, client *mockClient, p *mockPlanner) testEnv {
	t.Helper()
	root := t.TempDir()
	d := writeBlocksworld(t, filepath.Join(root, "domains"))
	layout := Layout{Root: filepath.Join(root, "experiments"), Run: 3}
	sink := &memorySink{}
	if p == nil {
		p = &mockPlanner{}
	}
	r := &Runner{
		Client:    client,
		Planner:   p,
		Domain:    d,
		Layout:    layout,
		TimeLimit: time.Second,
		Sinks:     []ResultSink{sink, FileSink{Layout: layout}},
	}
	return testEnv{runner: r, sink: sink, layout: layout}
}
