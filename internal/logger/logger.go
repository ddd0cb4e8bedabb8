package logger

import (
	"io"
	"log"
	"os"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

// Logger wraps the standard log.Logger with verbose gating. Diagnostics
// go to stderr so the result line on stdout stays machine-readable.
type Logger struct {
	*log.Logger
	verbose bool
}

// New creates a new logger writing to stderr
func New() *Logger {
	return &Logger{
		Logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// SetVerbose enables or disables verbose output
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// Verbosef logs only when verbose output is enabled
func (l *Logger) Verbosef(format string, args ...any) {
	if l.verbose {
		l.Printf(format, args...)
	}
}
