package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/llm-planner/internal/config"
)

// BuildOverrides converts explicitly-set CLI flags into a config override map
// keyed by config file variable names. Flags left at their defaults are
// omitted so config files can supply those values.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	m := make(map[string]string)
	flags := cmd.Flags()

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"domain":               {"DOMAIN", cfg.Domain},
		"model":                {"MODEL", cfg.Model},
		"keys-file":            {"KEYS_FILE", cfg.KeysFile},
		"planner":              {"PLANNER", cfg.Planner},
		"fast-downward-alias":  {"FAST_DOWNWARD_ALIAS", cfg.FastDownwardAlias},
		"fast-downward-search": {"FAST_DOWNWARD_SEARCH", cfg.FastDownwardSearch},
		"domains-dir":          {"DOMAINS_DIR", cfg.DomainsDir},
		"experiments-dir":      {"EXPERIMENTS_DIR", cfg.ExperimentsDir},
		"ledger":               {"LEDGER", cfg.Ledger},
		"method":               {"METHODS", strings.Join(cfg.Methods, ",")},
	}
	for flag, kv := range stringFlags {
		if flags.Changed(flag) {
			m[kv.key] = kv.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"time-limit":      {"TIME_LIMIT", cfg.TimeLimit},
		"jobs":            {"JOBS", cfg.Jobs},
		"tot-time-budget": {"TOT_TIME_BUDGET", cfg.ToTTimeBudget},
		"tot-max-depth":   {"TOT_MAX_DEPTH", cfg.ToTMaxDepth},
	}
	for flag, kv := range intFlags {
		if flags.Changed(flag) {
			m[kv.key] = strconv.Itoa(kv.val)
		}
	}

	boolFlags := map[string]struct {
		key string
		val bool
	}{
		"completion-mode":    {"COMPLETION_MODE", cfg.CompletionMode},
		"tot-prune-on-depth": {"TOT_PRUNE_ON_DEPTH", cfg.ToTPruneOnDepth},
		"json-steps":         {"JSON_STEPS", cfg.JSONSteps},
		"clean-pddl":         {"CLEAN_PDDL", cfg.CleanPDDL},
		"verbose":            {"VERBOSE", cfg.Verbose},
	}
	for flag, kv := range boolFlags {
		if flags.Changed(flag) {
			m[kv.key] = strconv.FormatBool(kv.val)
		}
	}

	return m
}

// Resolve merges defaults, config files and explicitly-set flags into the
// final configuration. Fields that only exist on the command line are copied
// from cfg as parsed. The result is validated before it is returned.
func Resolve(cmd *cobra.Command, cfg *config.Config, globalPath, projectPath string) (*config.Config, error) {
	final, err := config.LoadWithPrecedence(globalPath, projectPath, cfg.ConfigFile, BuildOverrides(cmd, cfg))
	if err != nil {
		return nil, err
	}

	final.ConfigFile = cfg.ConfigFile
	final.Task = cfg.Task
	final.AllTasks = cfg.AllTasks
	final.Run = cfg.Run
	final.PrintPrompts = cfg.PrintPrompts
	final.PerturbationRecipe = cfg.PerturbationRecipe
	final.PctWordsToSwap = cfg.PctWordsToSwap

	if err := config.Validate(final); err != nil {
		return nil, err
	}
	return final, nil
}
