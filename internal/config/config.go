// Package config defines the llm-planner configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides.
package config

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [25]string{
	"DOMAIN",
	"TIME_LIMIT",
	"JOBS",
	"METHODS",
	"MODEL",
	"COMPLETION_MODE",
	"OPENAI_BASE_URL",
	"REQUESTS_PER_SECOND",
	"MAX_LLM_RETRY",
	"KEYS_FILE",
	"ENV_FILE",
	"PLANNER",
	"PLANNER_SCRIPT",
	"FAST_DOWNWARD_ALIAS",
	"FAST_DOWNWARD_SEARCH",
	"DOMAINS_DIR",
	"EXPERIMENTS_DIR",
	"PROMPTS_DIR",
	"TOT_TIME_BUDGET",
	"TOT_MAX_DEPTH",
	"TOT_PRUNE_ON_DEPTH",
	"JSON_STEPS",
	"CLEAN_PDDL",
	"LEDGER",
	"VERBOSE",
}

// Config holds every configuration field for the llm-planner CLI.
//
// The toml tags name the keys written to cli_args.toml; the validate tags are
// checked by Validate once every source has been merged.
type Config struct {
	// Experiment selection.
	Domain    string   `toml:"domain" validate:"required,oneof=barman blocksworld floortile grippers manipulation storage termes tyreworld"`
	Methods   []string `toml:"methods" validate:"min=1,dive,required"`
	TimeLimit int      `toml:"time_limit" validate:"gt=0"`
	Jobs      int      `toml:"jobs" validate:"gte=1"`

	// LLM access.
	Model             string  `toml:"model" validate:"required"`
	CompletionMode    bool    `toml:"completion_mode"`
	BaseURL           string  `toml:"base_url" validate:"omitempty,url"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gte=0"`
	MaxRetries        int     `toml:"max_llm_retry" validate:"gte=0"`
	KeysFile          string  `toml:"keys_file"`
	EnvFile           string  `toml:"env_file"`

	// Classical planner.
	Planner            string `toml:"planner" validate:"omitempty,oneof=fast-downward julia"`
	PlannerScript      string `toml:"planner_script"`
	FastDownwardAlias  string `toml:"fast_downward_alias"`
	FastDownwardSearch string `toml:"fast_downward_search"`

	// Directories.
	DomainsDir     string `toml:"domains_dir" validate:"required"`
	ExperimentsDir string `toml:"experiments_dir" validate:"required"`
	PromptsDir     string `toml:"prompts_dir" validate:"required"`

	// Tree-of-thought search.
	ToTTimeBudget   int  `toml:"tot_time_budget" validate:"gt=0"`
	ToTMaxDepth     int  `toml:"tot_max_depth" validate:"gt=0"`
	ToTPruneOnDepth bool `toml:"tot_prune_on_depth"`
	JSONSteps       bool `toml:"json_steps"`

	CleanPDDL bool   `toml:"clean_pddl"`
	Ledger    string `toml:"ledger"`
	Verbose   bool   `toml:"verbose"`

	// CLI-only flags (not loaded from config files).
	ConfigFile   string `toml:"config,omitempty"`
	Task         int    `toml:"task" validate:"gte=0"`
	AllTasks     bool   `toml:"all_tasks"`
	Run          int    `toml:"run" validate:"gte=-1"`
	PrintPrompts bool   `toml:"print_prompts"`

	// Robustness experiment flags.
	PerturbationRecipe string  `toml:"perturbation_recipe,omitempty" validate:"omitempty,oneof=wordnet charswap back_trans back_transcription"`
	PctWordsToSwap     float64 `toml:"pct_words_to_swap,omitempty" validate:"gte=0,lte=1"`
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Domain:            "barman",
		Methods:           []string{"llm_ic_pddl_planner"},
		TimeLimit:         200,
		Jobs:              1,
		Model:             "gpt-4",
		RequestsPerSecond: 1,
		MaxRetries:        9,
		EnvFile:           ".env",
		DomainsDir:        "./domains",
		ExperimentsDir:    "./experiments",
		PromptsDir:        "./prompts",
		ToTTimeBudget:     200,
		ToTMaxDepth:       10,
		Run:               -1,
	}
}
