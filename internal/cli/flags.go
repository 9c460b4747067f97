// Package cli provides flag binding and validation for the llm-planner CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/llm-planner/internal/config"
	"github.com/CodexForgeBR/llm-planner/internal/domain"
	"github.com/CodexForgeBR/llm-planner/internal/experiment"
	"github.com/CodexForgeBR/llm-planner/internal/planner"
)

// BindFlags registers the flags shared by the root command and the
// robustness-experiment subcommand as persistent flags on cmd.
// The flags write directly into cfg, and their defaults are cfg's current
// values. Call ValidateFlags after parsing to check flag combinations.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Experiment selection
	flags.StringVar(&cfg.Domain, "domain", cfg.Domain, "Benchmark domain")
	flags.IntVar(&cfg.TimeLimit, "time-limit", cfg.TimeLimit, "Planner time limit in seconds")
	flags.IntVar(&cfg.Task, "task", cfg.Task, "Task index within the domain")
	flags.BoolVar(&cfg.AllTasks, "all-tasks", cfg.AllTasks, "Run every task of the domain")
	flags.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Tasks to run in parallel with --all-tasks")
	flags.IntVar(&cfg.Run, "run", cfg.Run, "Run number (-1 picks the next free one)")
	flags.BoolVar(&cfg.PrintPrompts, "print-prompts", cfg.PrintPrompts, "Write every prompt to the prompts directory and exit")
	flags.StringSliceVar(&cfg.Methods, "method", cfg.Methods, "Method to run (repeatable)")

	// LLM
	flags.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model name")
	flags.BoolVar(&cfg.CompletionMode, "completion-mode", cfg.CompletionMode, "Send prompts without the system message")
	flags.StringVar(&cfg.KeysFile, "keys-file", cfg.KeysFile, "File with one OpenAI API key per line")

	// Planner
	flags.StringVar(&cfg.Planner, "planner", cfg.Planner, "Classical planner: fast-downward or julia")
	flags.StringVar(&cfg.FastDownwardAlias, "fast-downward-alias", cfg.FastDownwardAlias, "Fast Downward --alias")
	flags.StringVar(&cfg.FastDownwardSearch, "fast-downward-search", cfg.FastDownwardSearch, "Fast Downward --search")

	// Directories
	flags.StringVar(&cfg.DomainsDir, "domains-dir", cfg.DomainsDir, "Directory holding the benchmark domains")
	flags.StringVar(&cfg.ExperimentsDir, "experiments-dir", cfg.ExperimentsDir, "Directory holding run<N> outputs")

	// Tree-of-thought
	flags.IntVar(&cfg.ToTTimeBudget, "tot-time-budget", cfg.ToTTimeBudget, "Tree-of-thought wall-clock budget in seconds")
	flags.IntVar(&cfg.ToTMaxDepth, "tot-max-depth", cfg.ToTMaxDepth, "Tree-of-thought maximum plan depth")
	flags.BoolVar(&cfg.ToTPruneOnDepth, "tot-prune-on-depth", cfg.ToTPruneOnDepth, "Drop over-deep candidates instead of aborting")
	flags.BoolVar(&cfg.JSONSteps, "json-steps", cfg.JSONSteps, "Ask for proposed steps as a JSON document")

	// Output
	flags.BoolVar(&cfg.CleanPDDL, "clean-pddl", cfg.CleanPDDL, "Strip fences and comments from generated PDDL")
	flags.StringVar(&cfg.Ledger, "ledger", cfg.Ledger, "SQLite file to record results in")

	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to additional config file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log search traces")
}

// BindRobustnessFlags registers the flags only robustness-experiment accepts.
func BindRobustnessFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	flags.StringVar(&cfg.PerturbationRecipe, "perturbation-recipe", cfg.PerturbationRecipe,
		"Recipe the perturbed descriptions were produced with: wordnet, charswap, back_trans, back_transcription")
	flags.Float64Var(&cfg.PctWordsToSwap, "pct-words-to-swap", cfg.PctWordsToSwap, "Fraction of words transformed, in [0,1]")
}

// ValidateFlags checks for invalid flag combinations after parsing and
// normalizes the domain and method names in cfg.
// Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config, robustness bool) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if cfg.AllTasks && cmd.Flags().Changed("task") {
		return fmt.Errorf("--task and --all-tasks are mutually exclusive")
	}
	if cfg.Task < 0 {
		return fmt.Errorf("--task must be >= 0, got: %d", cfg.Task)
	}

	name, err := domain.ParseName(cfg.Domain)
	if err != nil {
		return fmt.Errorf("--domain: %w", err)
	}
	cfg.Domain = string(name)

	for i, s := range cfg.Methods {
		m, err := experiment.ParseMethod(s)
		if err != nil {
			return fmt.Errorf("--method: %w", err)
		}
		if robustness && !m.Robust() {
			return fmt.Errorf("--method: %w: %s", experiment.ErrNotRobust, m)
		}
		cfg.Methods[i] = string(m)
	}

	if cfg.Planner != "" && cfg.Planner != string(planner.KindFastDownward) && cfg.Planner != string(planner.KindJulia) {
		return fmt.Errorf("--planner must be 'fast-downward' or 'julia', got: %s", cfg.Planner)
	}
	if cfg.Planner == string(planner.KindJulia) && (cfg.FastDownwardAlias != "" || cfg.FastDownwardSearch != "") {
		return errors.New("--fast-downward-alias and --fast-downward-search require --planner fast-downward")
	}

	if robustness && (cfg.PctWordsToSwap < 0 || cfg.PctWordsToSwap > 1) {
		return fmt.Errorf("--pct-words-to-swap must be in [0.0, 1.0], got: %g", cfg.PctWordsToSwap)
	}

	return nil
}

// PlannerKind picks the classical planner: the configured one if set,
// otherwise Fast Downward when an alias or search is given, else Julia.
func PlannerKind(cfg *config.Config) planner.Kind {
	switch {
	case cfg.Planner != "":
		return planner.Kind(cfg.Planner)
	case cfg.FastDownwardAlias != "" || cfg.FastDownwardSearch != "":
		return planner.KindFastDownward
	default:
		return planner.KindJulia
	}
}
