package planner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks.
var (
	_ Planner = (*FastDownward)(nil)
	_ Planner = (*Julia)(nil)
)

func TestFastDownward_BuildArgs(t *testing.T) {
	tests := []struct {
		name string
		fd   FastDownward
		want []string
	}{
		{
			name: "default configuration",
			fd:   FastDownward{},
			want: []string{
				DefaultFastDownwardScript,
				"--search-time-limit", "200",
				"--plan-file", "plans/p01.pddl",
				"--sas-file", "plans/p01.pddl.sas",
				"domain.pddl", "problems/p01.pddl",
			},
		},
		{
			name: "alias",
			fd:   FastDownward{Alias: "lama", Search: "ignored"},
			want: []string{
				DefaultFastDownwardScript,
				"--alias", "lama",
				"--search-time-limit", "200",
				"--plan-file", "plans/p01.pddl",
				"--sas-file", "plans/p01.pddl.sas",
				"domain.pddl", "problems/p01.pddl",
			},
		},
		{
			name: "search",
			fd:   FastDownward{Script: "fd.py", Search: "eager_greedy([add()])"},
			want: []string{
				"fd.py",
				"--search-time-limit", "200",
				"--plan-file", "plans/p01.pddl",
				"--sas-file", "plans/p01.pddl.sas",
				"domain.pddl", "problems/p01.pddl",
				"--search", "eager_greedy([add()])",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fd.BuildArgs("domain.pddl", "problems/p01.pddl", "plans/p01.pddl", 200*time.Second)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJulia_BuildArgs(t *testing.T) {
	j := &Julia{}
	assert.Equal(t, "julia", j.Binary())
	assert.Equal(t,
		[]string{DefaultJuliaScript, "d.pddl", "p.pddl", "plan"},
		j.BuildArgs("d.pddl", "p.pddl", "plan"))
}

func TestNew(t *testing.T) {
	p, err := New(KindFastDownward, Options{Alias: "lama"})
	require.NoError(t, err)
	assert.Equal(t, "lama", p.(*FastDownward).Alias)
	assert.Equal(t, "python", p.Binary())

	p, err = New(KindJulia, Options{Script: "x.jl"})
	require.NoError(t, err)
	assert.Equal(t, "x.jl", p.(*Julia).Script)

	_, err = New("pyperplan", Options{})
	assert.Error(t, err)
}

func TestJulia_SolveRunsScript(t *testing.T) {
	if !CheckAvailability("sh")["sh"] {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "planner.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo solving $1 $2\nprintf '(pick a)\\n; cost = 1 (unit cost)\\n' > \"$3\"\n"), 0755))

	planFile := filepath.Join(dir, "p01.pddl")
	j := &Julia{Julia: "sh", Script: script}
	require.NoError(t, j.Solve(context.Background(), "d.pddl", "p.pddl", planFile, time.Second))

	best, err := CollectBest(planFile)
	require.NoError(t, err)
	assert.Equal(t, "(pick a)", best.Plan)
	assert.Equal(t, 1.0, best.Cost)

	log, err := os.ReadFile(planFile + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(log), "solving d.pddl p.pddl")
}

func TestSolve_ReportsFailure(t *testing.T) {
	if !CheckAvailability("sh")["sh"] {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fail.sh")
	require.NoError(t, os.WriteFile(script, []byte("exit 12\n"), 0755))

	j := &Julia{Julia: "sh", Script: script}
	err := j.Solve(context.Background(), "d", "p", filepath.Join(dir, "plan"), time.Second)
	assert.Error(t, err)
}

func TestCheckAvailability(t *testing.T) {
	got := CheckAvailability("definitely-not-a-real-binary-xyz")
	assert.False(t, got["definitely-not-a-real-binary-xyz"])
}
