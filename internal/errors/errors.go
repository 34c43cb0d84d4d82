package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/hearth/internal/logger"
)

// Format prefixes err with "Error: " for terminal output.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
