package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for console output
const (
	ColorReset        = "\033[0m"
	ColorGreen        = "\033[32m"
	ColorCyan         = "\033[36m"
	ColorBrightRed    = "\033[91m"
	ColorBrightYellow = "\033[93m"
	ColorBrightGray   = "\033[90m"
)

// Column widths for better alignment
const (
	ServiceNameWidth = 20 // Fixed width for component names
	LogLevelWidth    = 7  // Fixed width for log levels (ERROR, WARN, etc.) - icons add +2
)

// Level is a log severity. Messages below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// LogEntry represents a single log entry
type LogEntry struct {
	Time    time.Time
	Level   string
	Service string
	Message string
	Fields  map[string]string
}

// sink is shared by a logger and all of its named children.
type sink struct {
	mu           sync.RWMutex
	out          io.Writer
	level        Level
	subscribers  []chan LogEntry
	colorEnabled bool
}

// Logger provides leveled console logging with streaming support.
// Child loggers created with Named share output, level and subscribers.
type Logger struct {
	serviceName string
	version     string
	fields      map[string]string
	sink        *sink
}

// New creates a new logger instance writing to stderr at INFO level.
func New(serviceName, version string) *Logger {
	return &Logger{
		serviceName: serviceName,
		version:     version,
		sink: &sink{
			out:          os.Stderr,
			level:        LevelInfo,
			subscribers:  make([]chan LogEntry, 0),
			colorEnabled: isTerminal(os.Stderr),
		},
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	l := New("discard", "")
	l.SetOutput(io.Discard)
	l.SetLevel(LevelError + 1)
	return l
}

// isTerminal checks if we're outputting to a terminal (for color support)
func isTerminal(f *os.File) bool {
	if os.Getenv("TERM") == "dumb" || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Named returns a child logger whose component name is "<parent>.<name>".
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		serviceName: l.serviceName + "." + name,
		version:     l.version,
		fields:      l.fields,
		sink:        l.sink,
	}
}

// Name returns the component name of the logger.
func (l *Logger) Name() string {
	return l.serviceName
}

// SetOutput redirects console output. Color is disabled for non-terminals.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out = w
	if f, ok := w.(*os.File); ok {
		l.sink.colorEnabled = isTerminal(f)
	} else {
		l.sink.colorEnabled = false
	}
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return level >= l.sink.level
}

// getColorForLevel returns the appropriate color for a log level
func (l *Logger) getColorForLevel(level Level) string {
	if !l.sink.colorEnabled {
		return ""
	}

	switch level {
	case LevelDebug:
		return ColorBrightGray
	case LevelInfo:
		return ColorGreen
	case LevelWarn:
		return ColorBrightYellow
	case LevelError:
		return ColorBrightRed
	default:
		return ColorReset
	}
}

// formatServiceName truncates and pads the component name for consistent column width
func formatServiceName(serviceName string) string {
	if len(serviceName) > ServiceNameWidth {
		return "…" + serviceName[len(serviceName)-ServiceNameWidth+1:]
	}
	return fmt.Sprintf("%-*s", ServiceNameWidth, serviceName)
}

// formatLogLevel pads log level for consistent column width and adds visual indicators
func formatLogLevel(level Level) string {
	levelStr := level.String()

	switch level {
	case LevelError:
		levelStr = "✗ " + levelStr
	case LevelWarn:
		levelStr = "⚠ " + levelStr
	case LevelInfo:
		levelStr = "ℹ " + levelStr
	case LevelDebug:
		levelStr = "◦ " + levelStr
	}

	return fmt.Sprintf("%-*s", LogLevelWidth+2, levelStr) // +2 for the icon
}

// Subscribe returns a channel to receive log entries regardless of level
func (l *Logger) Subscribe() <-chan LogEntry {
	ch := make(chan LogEntry, 100)

	l.sink.mu.Lock()
	l.sink.subscribers = append(l.sink.subscribers, ch)
	l.sink.mu.Unlock()

	return ch
}

func (l *Logger) log(level Level, message string) {
	now := time.Now()
	entry := LogEntry{
		Time:    now,
		Level:   level.String(),
		Service: l.serviceName,
		Message: message,
		Fields:  l.fields,
	}

	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	if level >= l.sink.level {
		timestamp := now.Format("2006-01-02 15:04:05.000")

		color := l.getColorForLevel(level)
		cyan, resetColor := "", ""
		if l.sink.colorEnabled {
			cyan, resetColor = ColorCyan, ColorReset
		}

		line := fmt.Sprintf("%s[%s] [%s] [%s%s%s] %s%s",
			cyan, timestamp, formatServiceName(l.serviceName), color, formatLogLevel(level), resetColor,
			message, formatFields(l.fields))

		fmt.Fprintln(l.sink.out, line+resetColor)
	}

	for _, ch := range l.sink.subscribers {
		select {
		case ch <- entry:
		default:
			// Skip if channel is full
		}
	}
}

func formatFields(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, fields[k])
	}
	return b.String()
}

// Debug logs a debug message with optional formatting
func (l *Logger) Debug(message string, args ...interface{}) {
	if len(args) > 0 {
		l.log(LevelDebug, fmt.Sprintf(message, args...))
	} else {
		l.log(LevelDebug, message)
	}
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs an info message with optional formatting
func (l *Logger) Info(message string, args ...interface{}) {
	if len(args) > 0 {
		l.log(LevelInfo, fmt.Sprintf(message, args...))
	} else {
		l.log(LevelInfo, message)
	}
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning message with optional formatting
func (l *Logger) Warn(message string, args ...interface{}) {
	if len(args) > 0 {
		l.log(LevelWarn, fmt.Sprintf(message, args...))
	} else {
		l.log(LevelWarn, message)
	}
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs an error message with optional formatting
func (l *Logger) Error(message string, args ...interface{}) {
	if len(args) > 0 {
		l.log(LevelError, fmt.Sprintf(message, args...))
	} else {
		l.log(LevelError, message)
	}
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// WithFields returns a logger that appends the given fields to every message.
func (l *Logger) WithFields(fields map[string]string) *Logger {
	merged := make(map[string]string, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		serviceName: l.serviceName,
		version:     l.version,
		fields:      merged,
		sink:        l.sink,
	}
}
