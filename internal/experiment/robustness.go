package experiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodexForgeBR/llm-planner/internal/domain"
	"github.com/CodexForgeBR/llm-planner/internal/logging"
)

// Robustness runs m on every perturbed description of task i found under
// dir (<dir>/<domain>/<task>_*). Each variant is recorded under its own
// suffix, <domain>/<variant>.pddl. A failing variant does not stop the
// others; their errors are joined.
func (r *Runner) Robustness(ctx context.Context, m Method, i int, dir string) ([]TaskReport, error) {
	if !m.Robust() {
		return nil, fmt.Errorf("%w: %s", ErrNotRobust, m)
	}
	suffix, err := r.Domain.TaskSuffix(i)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.FromSlash(suffix), filepath.Ext(suffix))
	variants, err := filepath.Glob(filepath.Join(dir, stem+"_*"))
	if err != nil {
		return nil, fmt.Errorf("glob perturbations: %w", err)
	}
	sort.Strings(variants)
	if len(variants) == 0 {
		logging.Warn(fmt.Sprintf("No perturbed descriptions for %s in %s", suffix, dir))
		return nil, nil
	}

	var (
		reports = make([]TaskReport, 0, len(variants))
		errs    []error
	)
	for _, fn := range variants {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := r.runVariant(ctx, m, fn)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

func (r *Runner) runVariant(ctx context.Context, m Method, fn string) (TaskReport, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return TaskReport{}, fmt.Errorf("read perturbation: %w", err)
	}
	hash, err := domain.HashFile(fn)
	if err != nil {
		return TaskReport{}, err
	}

	base := filepath.Base(fn)
	suffix := string(r.Domain.Name) + "/" + strings.TrimSuffix(base, filepath.Ext(base)) + ".pddl"
	return r.runTask(ctx, m, suffix, strings.TrimSpace(string(data)), hash)
}
