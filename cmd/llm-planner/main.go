package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/llm-planner/internal/banner"
	"github.com/CodexForgeBR/llm-planner/internal/cli"
	"github.com/CodexForgeBR/llm-planner/internal/config"
	"github.com/CodexForgeBR/llm-planner/internal/credentials"
	"github.com/CodexForgeBR/llm-planner/internal/domain"
	"github.com/CodexForgeBR/llm-planner/internal/exitcode"
	"github.com/CodexForgeBR/llm-planner/internal/experiment"
	"github.com/CodexForgeBR/llm-planner/internal/ledger"
	"github.com/CodexForgeBR/llm-planner/internal/llm"
	"github.com/CodexForgeBR/llm-planner/internal/logging"
	"github.com/CodexForgeBR/llm-planner/internal/planner"
	"github.com/CodexForgeBR/llm-planner/internal/ratelimit"
	sighandler "github.com/CodexForgeBR/llm-planner/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const robustnessCommand = "robustness-experiment"

func main() {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "llm-planner",
		Short:   "LLM and classical-planner experiments on PDDL benchmarks",
		Long:    "llm-planner asks a language model to solve PDDL benchmark tasks, directly, through a classical planner, or by tree-of-thought search.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, cfg, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	robustnessCmd := &cobra.Command{
		Use:   robustnessCommand,
		Short: "Run methods on perturbed task descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, cfg, true)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindFlags(rootCmd, cfg)
	cli.BindRobustnessFlags(robustnessCmd, cfg)
	cli.SetCustomHelp(rootCmd)
	cli.SetRobustnessHelp(robustnessCmd)
	rootCmd.AddCommand(robustnessCmd)

	os.Exit(exitCodeFor(rootCmd.Execute()))
}

// exitError carries a specific process exit code. A nil err means the code
// has already been explained to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return exitcode.Name(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// exitCodeFor logs err (if any) and maps it to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			logging.Error(ee.err.Error())
		}
		return ee.code
	}
	logging.Error(err.Error())
	return exitcode.Error
}

func runExperiment(cmd *cobra.Command, flagsCfg *config.Config, robustness bool) error {
	if err := cli.ValidateFlags(cmd, flagsCfg, robustness); err != nil {
		return err
	}

	cfg, err := cli.Resolve(cmd, flagsCfg, config.GlobalPath(), config.ProjectFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.SetVerbose(cfg.Verbose)

	if cfg.PrintPrompts {
		n, err := experiment.PrintPrompts(cfg.DomainsDir, cfg.PromptsDir)
		if err != nil {
			return err
		}
		logging.Success(fmt.Sprintf("Wrote %d prompts to %s", n, cfg.PromptsDir))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var interrupted atomic.Bool
	stop := sighandler.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
		interrupted.Store(true)
		logging.Warn(fmt.Sprintf("Received %s, stopping after in-flight requests are cancelled", sig))
	})
	defer stop()

	if cfg.Run == -1 {
		if cfg.Run, err = experiment.NextRun(cfg.ExperimentsDir); err != nil {
			return err
		}
	}
	layout := experiment.Layout{Root: cfg.ExperimentsDir, Run: cfg.Run}
	if err := experiment.SaveArgs(layout, cfg); err != nil {
		return err
	}

	runner, closeSinks, err := buildRunner(ctx, cfg, layout)
	if err != nil {
		banner.PrintErrorBanner(err.Error())
		return &exitError{code: exitcode.Error}
	}
	defer closeSinks()

	info := banner.RunInfo{
		Run:     cfg.Run,
		Domain:  cfg.Domain,
		Tasks:   strconv.Itoa(cfg.Task),
		Methods: cfg.Methods,
		Model:   cfg.Model,
		Planner: "none",
	}
	if robustness {
		info.Command = robustnessCommand
	}
	if cfg.AllTasks {
		info.Tasks = fmt.Sprintf("all (%d)", runner.Domain.Len())
	}
	if runner.Planner != nil {
		info.Planner = string(cli.PlannerKind(cfg))
	}
	banner.PrintStartupBanner(info)

	start := time.Now()
	reports, runErr := runMethods(ctx, runner, cfg, robustness)

	if interrupted.Load() {
		banner.PrintInterruptedBanner(cfg.Run, len(reports))
		return &exitError{code: exitcode.Interrupted}
	}

	summary := summarize(reports, time.Since(start))
	summary.ResultsDir = layout.Path(experiment.Results, "", "")
	banner.PrintSummaryBanner(summary)

	if runErr != nil {
		return runErr
	}
	if summary.Succeeded < summary.Attempts {
		return &exitError{code: exitcode.NoPlan}
	}
	return nil
}

// buildRunner wires the domain, LLM client, planner and result sinks. The
// returned func closes the ledger, if one was opened.
func buildRunner(ctx context.Context, cfg *config.Config, layout experiment.Layout) (*experiment.Runner, func(), error) {
	d, err := domain.Open(cfg.DomainsDir, domain.Name(cfg.Domain))
	if err != nil {
		return nil, nil, err
	}
	if d.Len() == 0 {
		return nil, nil, fmt.Errorf("domain %s has no tasks under %s", d.Name, d.Dir)
	}

	keys, err := credentials.Load(cfg.KeysFile, cfg.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	logging.Debug(fmt.Sprintf("Loaded %d API key(s)", keys.Len()))

	client := &llm.RetryClient{
		Inner: llm.NewOpenAIClient(llm.OpenAIConfig{
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			CompletionMode:    cfg.CompletionMode,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}, keys),
		RetryCfg: llm.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Second,
			OnRetry: func(attempt int, delay time.Duration, err error) {
				logging.Warn(fmt.Sprintf("LLM request failed (attempt %d): %v; retrying in %s", attempt+1, err, delay))
			},
			OnRateLimit: func(info *ratelimit.RateLimitInfo) {
				if info != nil && info.Parseable {
					logging.Warn(fmt.Sprintf("Rate limited; waiting %s", info.RetryAfter))
					return
				}
				logging.Warn("Rate limited; backing off")
			},
		},
	}

	runner := &experiment.Runner{
		Client:    client,
		Domain:    d,
		Layout:    layout,
		TimeLimit: time.Duration(cfg.TimeLimit) * time.Second,
		CleanPDDL: cfg.CleanPDDL,
		ToT: experiment.ToTConfig{
			Budget:       time.Duration(cfg.ToTTimeBudget) * time.Second,
			MaxDepth:     cfg.ToTMaxDepth,
			PruneOnDepth: cfg.ToTPruneOnDepth,
			JSONSteps:    cfg.JSONSteps,
		},
		Sinks: []experiment.ResultSink{experiment.FileSink{Layout: layout}},
	}

	if usesPlanner(cfg.Methods) {
		p, err := planner.New(cli.PlannerKind(cfg), planner.Options{
			Script: cfg.PlannerScript,
			Alias:  cfg.FastDownwardAlias,
			Search: cfg.FastDownwardSearch,
		})
		if err != nil {
			return nil, nil, err
		}
		if !planner.CheckAvailability(p.Binary())[p.Binary()] {
			return nil, nil, fmt.Errorf("%s not found on PATH", p.Binary())
		}
		runner.Planner = p
	}

	closeSinks := func() {}
	if cfg.Ledger != "" {
		store, err := ledger.Open(ctx, cfg.Ledger)
		if err != nil {
			return nil, nil, err
		}
		runner.Sinks = append(runner.Sinks, store)
		closeSinks = func() {
			if err := store.Close(); err != nil {
				logging.Warn(fmt.Sprintf("Close ledger: %v", err))
			}
		}
	}

	return runner, closeSinks, nil
}

func usesPlanner(methods []string) bool {
	for _, s := range methods {
		if m, err := experiment.ParseMethod(s); err == nil && m.UsesPlanner() {
			return true
		}
	}
	return false
}

// taskIndices lists the tasks a run covers.
func taskIndices(cfg *config.Config, n int) []int {
	if !cfg.AllTasks {
		return []int{cfg.Task}
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// runMethods runs every configured method in order. Task failures are
// collected; an interrupt stops before the next method.
func runMethods(ctx context.Context, r *experiment.Runner, cfg *config.Config, robustness bool) ([]experiment.TaskReport, error) {
	var (
		reports []experiment.TaskReport
		errs    []error
	)

	for _, name := range cfg.Methods {
		m, err := experiment.ParseMethod(name)
		if err != nil {
			return reports, err
		}
		logging.Phase(fmt.Sprintf("%s on %s", m, cfg.Domain))

		switch {
		case robustness:
			dir := r.Layout.PerturbationsDir()
			for _, i := range taskIndices(cfg, r.Domain.Len()) {
				rs, err := r.Robustness(ctx, m, i, dir)
				reports = append(reports, rs...)
				if err != nil {
					errs = append(errs, err)
				}
			}
		case cfg.AllTasks:
			rs, err := r.RunAll(ctx, m, cfg.Jobs)
			for _, rep := range rs {
				if rep.Method != "" {
					reports = append(reports, rep)
				}
			}
			if err != nil {
				errs = append(errs, err)
			}
		default:
			rep, err := r.Run(ctx, m, cfg.Task)
			if err != nil {
				errs = append(errs, err)
			} else {
				reports = append(reports, rep)
			}
		}

		if ctx.Err() != nil {
			break
		}
	}
	return reports, errors.Join(errs...)
}

func summarize(reports []experiment.TaskReport, elapsed time.Duration) banner.Summary {
	s := banner.Summary{
		Attempts:     len(reports),
		Outcomes:     make(map[string]int),
		DurationSecs: int(elapsed.Seconds()),
	}
	for _, r := range reports {
		s.Outcomes[string(r.Outcome)]++
		if r.Outcome.Succeeded() {
			s.Succeeded++
		}
	}
	return s
}
