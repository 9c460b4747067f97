package experiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CodexForgeBR/llm-planner/internal/domain"
	"github.com/CodexForgeBR/llm-planner/internal/ledger"
	"github.com/CodexForgeBR/llm-planner/internal/llm"
	"github.com/CodexForgeBR/llm-planner/internal/logging"
	"github.com/CodexForgeBR/llm-planner/internal/oracle"
	"github.com/CodexForgeBR/llm-planner/internal/parser"
	"github.com/CodexForgeBR/llm-planner/internal/planner"
	"github.com/CodexForgeBR/llm-planner/internal/prompt"
	"github.com/CodexForgeBR/llm-planner/internal/search"
)

// ToTConfig tunes the tree-of-thought method.
type ToTConfig struct {
	Budget       time.Duration
	MaxDepth     int
	PruneOnDepth bool
	JSONSteps    bool
}

// Runner executes methods against the tasks of one domain.
type Runner struct {
	Client    llm.Client
	Planner   planner.Planner
	Domain    *domain.Domain
	Layout    Layout
	TimeLimit time.Duration
	CleanPDDL bool
	ToT       ToTConfig
	Sinks     []ResultSink

	now func() time.Time
}

// TaskReport is what a single attempt produced.
type TaskReport struct {
	Method  Method
	Task    string
	Outcome Outcome
	Cost    float64
	HasCost bool
	Elapsed time.Duration
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// Run attempts task i of the runner's domain with method m.
func (r *Runner) Run(ctx context.Context, m Method, i int) (TaskReport, error) {
	suffix, err := r.Domain.TaskSuffix(i)
	if err != nil {
		return TaskReport{}, err
	}
	nl, _, err := r.Domain.Task(i)
	if err != nil {
		return TaskReport{}, err
	}
	nlPath, _, err := r.Domain.TaskFiles(i)
	if err != nil {
		return TaskReport{}, err
	}
	hash, err := domain.HashFile(nlPath)
	if err != nil {
		return TaskReport{}, err
	}
	return r.runTask(ctx, m, suffix, nl, hash)
}

// runTask runs m on one description and hands the record to every sink.
func (r *Runner) runTask(ctx context.Context, m Method, suffix, taskNL, taskHash string) (TaskReport, error) {
	if err := r.Layout.Ensure(m.Tag(), r.Domain.Name); err != nil {
		return TaskReport{}, err
	}
	ex, err := r.Domain.Context()
	if err != nil {
		return TaskReport{}, err
	}
	rules := r.Domain.DomainNL()

	start := r.clock()
	rec := ledger.Record{
		Run:      r.Layout.Run,
		Method:   string(m),
		Domain:   string(r.Domain.Name),
		Task:     suffix,
		TaskHash: taskHash,
	}

	switch m {
	case LLMICPDDL, LLMPDDL:
		err = r.runPDDL(ctx, m, suffix, taskNL, rules, ex, &rec)
	case LLMToTIC:
		err = r.runToT(ctx, search.Problem{Description: taskNL, Rules: rules, Example: ex}, &rec)
	case LLM, LLMStepByStep, LLMIC:
		err = r.runText(ctx, m, taskNL, rules, ex, &rec)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
	if err != nil {
		return TaskReport{}, fmt.Errorf("%s %s: %w", m, suffix, err)
	}

	rec.Duration = r.clock().Sub(start)
	report := TaskReport{
		Method:  m,
		Task:    suffix,
		Outcome: Outcome(rec.Outcome),
		Cost:    rec.Cost,
		HasCost: rec.HasCost,
		Elapsed: rec.Duration,
	}
	logReport(report)

	for _, sink := range r.Sinks {
		if err := sink.Record(ctx, rec); err != nil {
			return report, fmt.Errorf("record %s: %w", suffix, err)
		}
	}
	return report, nil
}

func (r *Runner) runPDDL(ctx context.Context, m Method, suffix, taskNL, rules string, ex search.Example, rec *ledger.Record) error {
	var p string
	if m == LLMICPDDL {
		p = prompt.BuildInContextPDDL(taskNL, ex)
	} else {
		p = prompt.BuildPDDL(taskNL, rules)
	}

	problemPDDL, err := r.Client.Complete(ctx, p)
	if err != nil {
		return err
	}
	if r.CleanPDDL {
		problemPDDL = parser.CleanPDDL(problemPDDL)
	}

	problemFile := r.Layout.Path(Problems, m.Tag(), suffix)
	if err := os.WriteFile(problemFile, []byte(problemPDDL), 0644); err != nil {
		return fmt.Errorf("write problem file: %w", err)
	}

	if r.Planner == nil {
		return errors.New("no classical planner configured")
	}
	planFile := r.Layout.Path(Plans, m.Tag(), suffix)
	if err := r.Planner.Solve(ctx, r.Domain.DomainPDDLFile(), problemFile, planFile, r.TimeLimit); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Unsolvable or malformed problems end with a non-zero exit; any plan
		// written before that still counts.
		logging.Warn(fmt.Sprintf("Planner on %s: %v", filepath.Base(problemFile), err))
	}

	best, err := planner.CollectBest(planFile)
	if errors.Is(err, planner.ErrNoPlan) {
		rec.Outcome = string(OutcomeNoPlan)
		return nil
	}
	if err != nil {
		return err
	}
	rec.Outcome = string(OutcomeSolved)
	rec.Plan = best.Plan
	rec.Cost, rec.HasCost = best.Cost, true
	return nil
}

func (r *Runner) runText(ctx context.Context, m Method, taskNL, rules string, ex search.Example, rec *ledger.Record) error {
	var p string
	switch m {
	case LLM:
		p = prompt.BuildDirect(taskNL, rules)
	case LLMStepByStep:
		p = prompt.BuildStepByStep(taskNL, rules)
	default:
		p = prompt.BuildInContext(taskNL, rules, ex)
	}

	answer, err := r.Client.Complete(ctx, p)
	if err != nil {
		return err
	}
	rec.Outcome = string(OutcomeAnswered)
	rec.Plan = answer
	return nil
}

func (r *Runner) runToT(ctx context.Context, problem search.Problem, rec *ledger.Record) error {
	budget, depth := r.ToT.Budget, r.ToT.MaxDepth
	if budget == 0 {
		budget = search.DefaultBudget
	}
	if depth == 0 {
		depth = search.DefaultMaxDepth
	}

	ctrl := search.NewController(
		&oracle.LLMOracle{Client: r.Client, JSONSteps: r.ToT.JSONSteps},
		search.Options{
			PruneOnDepth: r.ToT.PruneOnDepth,
			OnExpand: func(priority float64, plan search.Plan) {
				logging.Step(fmt.Sprintf("expand priority=%.3f", priority), plan.String())
			},
			OnEvaluate: func(plan search.Plan, v search.Verdict) {
				logging.Debug(fmt.Sprintf("verdict %s (%q) for %d-step plan", v.Kind, v.Raw, plan.Len()))
			},
		},
	)

	res, err := ctrl.Search(ctx, problem, budget, depth)
	if err != nil {
		return err
	}
	rec.Outcome = res.Outcome.String()
	if res.Outcome == search.Reached {
		rec.Plan = res.Plan.String()
	}
	return nil
}

func logReport(r TaskReport) {
	took := logging.FormatDuration(int(r.Elapsed.Seconds()))
	switch {
	case r.Outcome == OutcomeSolved:
		logging.Success(fmt.Sprintf("[%s] %s took %s, found a plan with cost %g", r.Method.Tag(), r.Task, took, r.Cost))
	case r.Outcome.Succeeded():
		logging.Success(fmt.Sprintf("[%s] %s took %s", r.Method.Tag(), r.Task, took))
	default:
		logging.Warn(fmt.Sprintf("[%s] %s took %s, no solution found (%s)", r.Method.Tag(), r.Task, took, r.Outcome))
	}
}
