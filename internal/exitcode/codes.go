// Package exitcode defines named exit codes for the llm-planner CLI.
package exitcode

const (
	Success     = 0   // Every requested method ran and produced a plan
	Error       = 1   // Invalid args, missing domain files, misconfiguration, oracle failure
	NoPlan      = 2   // Methods ran but at least one found no plan
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case NoPlan:
		return "NoPlan"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
