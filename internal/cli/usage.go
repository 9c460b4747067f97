package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `llm-planner - LLM and classical-planner experiments on PDDL benchmarks

USAGE
  llm-planner [flags]
  llm-planner robustness-experiment [flags]

FLAGS
  Experiment:
    --domain <name>                        barman, blocksworld, floortile, grippers, manipulation,
                                           storage, termes, tyreworld (default: barman)
    --method <name>                        Method to run, repeatable (default: llm_ic_pddl_planner)
                                           llm_ic_pddl_planner, llm_pddl_planner, llm_planner,
                                           llm_stepbystep_planner, llm_ic_planner, llm_tot_ic_planner
    --task <int>                           Task index within the domain (default: 0)
    --all-tasks                            Run every task of the domain
    --jobs <int>                           Tasks to run in parallel with --all-tasks (default: 1)
    --run <int>                            Run number, -1 picks the next free one (default: -1)
    --time-limit <int>                     Planner time limit in seconds (default: 200)
    --print-prompts                        Write every prompt to ./prompts and exit

  LLM:
    --model <name>                         OpenAI model name (default: gpt-4)
    --completion-mode                      Send prompts without the system message
    --keys-file <path>                     One API key per line (default: OPENAI_API_KEYS in .env)

  Planner:
    --planner <fast-downward|julia>        Classical planner (default: julia, or fast-downward
                                           when an alias or search is given)
    --fast-downward-alias <alias>          Fast Downward --alias, e.g. lama-first
    --fast-downward-search <search>        Fast Downward --search, e.g. "astar(lmcut())"

  Tree of Thought:
    --tot-time-budget <int>                Search budget in seconds (default: 200)
    --tot-max-depth <int>                  Maximum plan depth (default: 10)
    --tot-prune-on-depth                   Drop over-deep candidates instead of aborting
    --json-steps                           Ask for proposed steps as a JSON document

  Paths & Output:
    --domains-dir <path>                   Benchmark domains (default: ./domains)
    --experiments-dir <path>               Run outputs (default: ./experiments)
    --clean-pddl                           Strip fences and comments from generated PDDL
    --ledger <path>                        SQLite file to record results in
    --config <path>                        Path to additional config file

  Output Control:
    -v, --verbose                          Log search traces

  Help & Version:
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

EXIT CODES
  0   Success              Every attempt produced a plan
  1   Error                Invalid arguments, missing domain files, oracle failure
  2   NoPlan               At least one attempt found no plan
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Solve the first blocksworld task with the default method
  llm-planner --domain blocksworld

  # Compare two methods on every task, four at a time
  llm-planner --domain termes --method llm_ic_pddl_planner --method llm_tot_ic_planner --all-tasks --jobs 4

  # Use Fast Downward instead of the Julia planner
  llm-planner --domain barman --fast-downward-alias lama-first

  # Run on perturbed descriptions
  llm-planner robustness-experiment --domain grippers --method llm_ic_planner --perturbation-recipe charswap

For more information, see: https://github.com/CodexForgeBR/llm-planner
`

const robustnessHelpTemplate = `llm-planner robustness-experiment - run methods on perturbed task descriptions

USAGE
  llm-planner robustness-experiment [flags]

Perturbed descriptions are read from
  <experiments-dir>/run<N>/perturbed_descriptions/<domain>/<task>_<i>.nl
and each one is solved as its own task.

FLAGS
  Accepts every llm-planner flag, with --method limited to
  llm_ic_pddl_planner and llm_ic_planner.

  Robustness:
    --perturbation-recipe <name>           wordnet, charswap, back_trans, back_transcription
    --pct-words-to-swap <float>            Fraction of words transformed, in [0,1]

EXIT CODES
  0   Success              Every attempt produced a plan
  1   Error                Invalid arguments, missing domain files, oracle failure
  2   NoPlan               At least one attempt found no plan
  130 Interrupted          SIGINT or SIGTERM received
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}

// SetRobustnessHelp configures the robustness-experiment help template.
func SetRobustnessHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(robustnessHelpTemplate)
}
