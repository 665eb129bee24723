package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the verbosity level of logging
type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// String returns a string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case ErrorLevel:
		return "ERROR"
	case WarningLevel:
		return "WARNING"
	case InfoLevel:
		return "INFO"
	case DebugLevel:
		return "DEBUG"
	case TraceLevel:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a level name such as "debug" to a LogLevel
func ParseLogLevel(name string) (LogLevel, bool) {
	for l := ErrorLevel; l <= TraceLevel; l++ {
		if strings.EqualFold(name, l.String()) {
			return l, true
		}
	}
	return InfoLevel, false
}

// Logger represents a logging utility. It is safe for use by the
// simulation workers of one batch run.
type Logger struct {
	Level    LogLevel
	Output   io.Writer
	ShowTime bool

	mu     sync.Mutex
	closer io.Closer
}

// NewLogger creates a new logger with the specified verbosity level
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		Level:    level,
		Output:   os.Stdout,
		ShowTime: true,
	}
}

// NewFileLogger creates a new logger that writes to a file
func NewFileLogger(level LogLevel, filename string) (*Logger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &Logger{
		Level:    level,
		Output:   file,
		ShowTime: true,
		closer:   file,
	}, nil
}

// Close closes the log file of a logger made by NewFileLogger
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Enabled reports whether messages at level would be written
func (l *Logger) Enabled(level LogLevel) bool {
	return level <= l.Level
}

// log logs a message at the specified level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level > l.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var builder strings.Builder

	// Add timestamp if enabled
	if l.ShowTime {
		builder.WriteString(time.Now().Format("15:04:05.000 "))
	}

	// Add level indicator
	builder.WriteString(fmt.Sprintf("[%s] ", level.String()))

	// Add the main message
	builder.WriteString(fmt.Sprintf(format, args...))
	builder.WriteString("\n")

	fmt.Fprint(l.Output, builder.String())
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Trace logs a trace message (highest verbosity)
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(TraceLevel, format, args...)
}

// Netlist logs information about netlist construction
func (l *Logger) Netlist(format string, args ...interface{}) {
	l.log(DebugLevel, "NETLIST: "+format, args...)
}

// Vector logs information about vector application and results
func (l *Logger) Vector(format string, args ...interface{}) {
	l.log(DebugLevel, "VECTOR: "+format, args...)
}

// Fault logs information about fault injection
func (l *Logger) Fault(format string, args ...interface{}) {
	l.log(DebugLevel, "FAULT: "+format, args...)
}

// Solver logs information about SAT-based test generation
func (l *Logger) Solver(format string, args ...interface{}) {
	l.log(DebugLevel, "SOLVER: "+format, args...)
}

// Schedule logs information about individual gate evaluations
func (l *Logger) Schedule(format string, args ...interface{}) {
	l.log(TraceLevel, "SCHEDULE: "+format, args...)
}

// DefaultLogger is the default logger instance
var DefaultLogger = NewLogger(InfoLevel)

// SetDefaultLogLevel sets the log level of the default logger
func SetDefaultLogLevel(level LogLevel) {
	DefaultLogger.Level = level
}
