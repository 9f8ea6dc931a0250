// Package output provides plain-text logging for CI log streams.
package output

import (
	"fmt"
	"io"
	"os"
)

// Splog provides structured logging and output
type Splog struct {
	writer  io.Writer
	verbose bool
}

// NewSplog creates a new splog instance writing to stdout
func NewSplog() *Splog {
	return &Splog{
		writer:  os.Stdout,
		verbose: os.Getenv("SHIPIT_VERBOSE") != "",
	}
}

// NewSplogWithWriter creates a splog writing to the given writer.
// Used by tests to capture diagnostic output.
func NewSplogWithWriter(w io.Writer) *Splog {
	return &Splog{writer: w, verbose: true}
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, "warning: "+format+"\n", args...)
}

// Debug writes a debug message, shown only in verbose mode
func (s *Splog) Debug(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Diagnostic writes a multi-line diagnostic block. Always shown: these carry
// the information needed to recover from a partial failure.
func (s *Splog) Diagnostic(header string, lines ...string) {
	fmt.Fprintf(s.writer, "%s\n", header)
	for _, line := range lines {
		fmt.Fprintf(s.writer, "  %s\n", line)
	}
}
