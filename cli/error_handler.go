package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/focusguard/errors"
)

// Exit codes returned by the focus binary.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitConfigInvalid  = 2
	ExitAlreadyRunning = 3
	ExitUnavailable    = 4
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

// Handle prints a message for err and returns the process exit code.
func (h *ErrorHandler) Handle(err error) int {
	if err == nil {
		return ExitOK
	}

	focusErr, _ := err.(*errors.FocusError)
	detail := func(key string) interface{} {
		if focusErr == nil {
			return ""
		}
		if v, ok := focusErr.Details[key]; ok {
			return v
		}
		return ""
	}

	code := ExitError
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "Configuration not found at %v. Run 'focus config show' to see the defaults.\n", detail("path"))

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "Invalid configuration: %v\n", err)
		if field := detail("field"); field != "" {
			fmt.Fprintf(h.Out, "Check the %v setting.\n", field)
		}
		code = ExitConfigInvalid

	case errors.ErrCodeAlreadyRunning:
		fmt.Fprintf(h.Out, "Another focus daemon is already running")
		if pid := detail("pid"); pid != "" {
			fmt.Fprintf(h.Out, " (PID %v)", pid)
		}
		fmt.Fprintln(h.Out, ".")
		code = ExitAlreadyRunning

	case errors.ErrCodeDaemonUnavailable:
		fmt.Fprintln(h.Out, "The focus daemon is not running. Start it with 'focus daemon start'.")
		code = ExitUnavailable

	default:
		fmt.Fprintf(h.Out, "Error: %v\n", err)
	}

	if h.Verbose && focusErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", focusErr.ToJSON())
	}
	return code
}
