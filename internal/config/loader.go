package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".llm-planner.env"

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// GlobalPath returns ~/.config/llm-planner/config, or "" when the home
// directory cannot be determined.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "llm-planner", "config")
}

// LoadFile parses a KEY=VALUE config file at the given path.
//
// Parsing follows dotenv rules (comments, quoting, an optional "export"
// prefix). Keys not present in WhitelistedVars are silently ignored.
func LoadFile(path string) (map[string]string, error) {
	all, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	result := make(map[string]string, len(all))
	for key, value := range all {
		if !whitelistSet[key] {
			continue
		}
		result[key] = strings.TrimSpace(value)
	}
	return result, nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. CLI overrides (cliOverrides map)
//
// Missing global and project files are skipped. The explicit file must exist.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, layer := range []struct {
		name string
		path string
	}{
		{"global", globalPath},
		{"project", projectPath},
	} {
		if layer.path == "" {
			continue
		}
		m, err := LoadFile(layer.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s config: %w", layer.name, err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Keys use the WhitelistedVars naming convention (e.g., "TIME_LIMIT").
// Unknown keys are ignored, and numeric values that fail to parse leave the
// previous value in place.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "DOMAIN":
			cfg.Domain = strings.ToLower(value)
		case "TIME_LIMIT":
			setInt(&cfg.TimeLimit, value)
		case "JOBS":
			setInt(&cfg.Jobs, value)
		case "METHODS":
			if methods := splitList(value); len(methods) > 0 {
				cfg.Methods = methods
			}
		case "MODEL":
			cfg.Model = value
		case "COMPLETION_MODE":
			cfg.CompletionMode = parseBool(value)
		case "OPENAI_BASE_URL":
			cfg.BaseURL = value
		case "REQUESTS_PER_SECOND":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.RequestsPerSecond = v
			}
		case "MAX_LLM_RETRY":
			setInt(&cfg.MaxRetries, value)
		case "KEYS_FILE":
			cfg.KeysFile = value
		case "ENV_FILE":
			cfg.EnvFile = value
		case "PLANNER":
			cfg.Planner = strings.ToLower(value)
		case "PLANNER_SCRIPT":
			cfg.PlannerScript = value
		case "FAST_DOWNWARD_ALIAS":
			cfg.FastDownwardAlias = value
		case "FAST_DOWNWARD_SEARCH":
			cfg.FastDownwardSearch = value
		case "DOMAINS_DIR":
			cfg.DomainsDir = value
		case "EXPERIMENTS_DIR":
			cfg.ExperimentsDir = value
		case "PROMPTS_DIR":
			cfg.PromptsDir = value
		case "TOT_TIME_BUDGET":
			setInt(&cfg.ToTTimeBudget, value)
		case "TOT_MAX_DEPTH":
			setInt(&cfg.ToTMaxDepth, value)
		case "TOT_PRUNE_ON_DEPTH":
			cfg.ToTPruneOnDepth = parseBool(value)
		case "JSON_STEPS":
			cfg.JSONSteps = parseBool(value)
		case "CLEAN_PDDL":
			cfg.CleanPDDL = parseBool(value)
		case "LEDGER":
			cfg.Ledger = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		}
	}
}

func setInt(dst *int, s string) {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*dst = v
	}
}

// splitList splits a comma- or space-separated list, dropping empty items.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
