package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/CodexForgeBR/llm-planner/internal/domain"
)

// Artifact kinds under a run directory.
const (
	Problems = "problems"
	Plans    = "plans"
	Results  = "results"
)

const (
	runPrefix            = "run"
	argsFileName         = "cli_args.toml"
	perturbationsDirName = "perturbed_descriptions"
)

// Layout places a run's artifacts:
//
//	<root>/run<N>/{problems,plans,results}/<tag>/<domain>/<task>.pddl
type Layout struct {
	Root string
	Run  int
}

// RunDir is <root>/run<N>.
func (l Layout) RunDir() string {
	return filepath.Join(l.Root, runPrefix+strconv.Itoa(l.Run))
}

// Path returns the artifact path of kind for a task suffix.
func (l Layout) Path(kind, tag, suffix string) string {
	return filepath.Join(l.RunDir(), kind, tag, filepath.FromSlash(suffix))
}

// Ensure creates the problem, plan and result directories of tag for d.
func (l Layout) Ensure(tag string, d domain.Name) error {
	for _, kind := range []string{Problems, Plans, Results} {
		dir := filepath.Join(l.RunDir(), kind, tag, string(d))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// PerturbationsDir holds externally generated task paraphrases, laid out as
// <domain>/<task>_<k>.nl.
func (l Layout) PerturbationsDir() string {
	return filepath.Join(l.RunDir(), perturbationsDirName)
}

// ArgsFile is where the run's arguments are recorded.
func (l Layout) ArgsFile() string {
	return filepath.Join(l.RunDir(), argsFileName)
}

// NextRun returns one past the highest run<N> directory under root, or 0
// when there is none (including when root does not exist).
func NextRun(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", root, err)
	}

	next := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, runPrefix) {
			continue
		}
		n, err := strconv.Atoi(name[len(runPrefix):])
		if err != nil || n < 0 {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// SaveArgs records args as TOML in the run directory.
func SaveArgs(l Layout, args any) error {
	if err := os.MkdirAll(l.RunDir(), 0755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}
	data, err := toml.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	if err := os.WriteFile(l.ArgsFile(), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", l.ArgsFile(), err)
	}
	return nil
}
