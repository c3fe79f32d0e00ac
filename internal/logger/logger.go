package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Debug level for detailed troubleshooting
	Debug LogLevel = iota
	// Info level for general operational entries
	Info
	// Warn level for non-critical issues
	Warn
	// Error level for errors that need attention
	Error
)

var levelNames = map[LogLevel]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// DirMode defines platform-specific directory permissions
var DirMode os.FileMode

func init() {
	if runtime.GOOS == "windows" {
		DirMode = 0666
	} else {
		DirMode = 0755
	}
}

// Logger writes levelled, prefixed lines to stdout and an optional rotating file.
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	level       LogLevel
	mu          sync.Mutex
	file        io.Closer
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Config holds logger configuration
type Config struct {
	// LogLevel sets the minimum level to log
	LogLevel LogLevel
	// LogFile is the path to the log file. If empty, logs to Output only
	LogFile string
	// MaxSizeMB is the size in megabytes at which the log file is rotated
	MaxSizeMB int
	// MaxAgeDays is how long rotated files are kept
	MaxAgeDays int
	// MaxBackups is the number of rotated files kept
	MaxBackups int
	// Output replaces stdout as the console writer when set
	Output io.Writer
}

// Initialize sets up the default logger with configuration
func Initialize(config Config) error {
	var err error
	once.Do(func() {
		defaultLogger, err = NewLogger(config)
	})
	return err
}

// NewLogger creates a new logger instance
func NewLogger(config Config) (*Logger, error) {
	console := config.Output
	if console == nil {
		console = os.Stdout
	}
	writers := []io.Writer{console}

	var rotator *lumberjack.Logger
	if config.LogFile != "" {
		config.LogFile = filepath.Clean(config.LogFile)

		logDir := filepath.Dir(config.LogFile)
		if err := os.MkdirAll(logDir, DirMode); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		maxBackups := config.MaxBackups
		if maxBackups == 0 {
			maxBackups = 3
		}
		rotator = &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    config.MaxSizeMB,
			MaxAge:     config.MaxAgeDays,
			MaxBackups: maxBackups,
			Compress:   true,
		}
		writers = append(writers, rotator)
	}

	l := NewWithWriter(io.MultiWriter(writers...), config.LogLevel)
	if rotator != nil {
		l.file = rotator
	}
	return l, nil
}

// NewWithWriter creates a logger that writes every line to w.
func NewWithWriter(w io.Writer, level LogLevel) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		debugLogger: log.New(w, "DEBUG: ", flags),
		infoLogger:  log.New(w, "INFO: ", flags),
		warnLogger:  log.New(w, "WARN: ", flags),
		errorLogger: log.New(w, "ERROR: ", flags),
		level:       level,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, Error+1)
}

// Close properly closes the logger's file handle if one exists
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(Debug, l.debugLogger, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(Info, l.infoLogger, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(Warn, l.warnLogger, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(Error, l.errorLogger, format, v...)
}

func (l *Logger) logf(level LogLevel, target *log.Logger, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= level {
		target.Printf(format, v...)
	}
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		panic("logger not initialized")
	}
	return defaultLogger
}

// ParseLogLevel converts a string level to LogLevel
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("unknown log level: %s", level)
	}
}
