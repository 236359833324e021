// Package exitcode defines the exit codes of the selfevo CLI.
package exitcode

// Exit codes.
const (
	Success          = 0   // Command completed; every verdict met
	Error            = 1   // Invalid args, unreadable input, misconfiguration
	ValidationFailed = 2   // validate saw at least one failed verdict
	ParseFailed      = 3   // parse fell through every strategy
	Interrupted      = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case ValidationFailed:
		return "ValidationFailed"
	case ParseFailed:
		return "ParseFailed"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// ExitError carries an exit code out of a command. Message may be empty
// when the command already reported the failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return Name(e.Code)
}
