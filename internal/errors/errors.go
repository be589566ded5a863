package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, calendar.ErrInvalidDay) {
		return fmt.Sprintf("Error: %v (days run from 1 to 365, or 366 in leap years)", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
