// Package output renders console feedback for the musicnft CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// SeparatorWidth is the width of separator lines.
const SeparatorWidth = 60

// SeparatorChar is the character used for separator lines.
const SeparatorChar = "─"

var (
	styleSuccess = color.New(color.FgGreen)
	styleWarn    = color.New(color.FgYellow)
	styleError   = color.New(color.FgRed)
	styleDebug   = color.New(color.FgHiBlack)
	styleBold    = color.New(color.Bold)
	styleCyan    = color.New(color.FgCyan)
)

// Logger writes human-readable progress to out and problems to errOut.
// In JSON mode everything except errors is dropped, so stdout carries only
// the machine-readable result.
type Logger struct {
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	jsonMode bool
}

// DefaultLogger writes to the process stdout and stderr.
var DefaultLogger = NewLogger()

// NewLogger creates a Logger writing to stdout and stderr.
func NewLogger() *Logger {
	return NewLoggerWithWriters(os.Stdout, os.Stderr)
}

// NewLoggerWithWriters creates a Logger writing to the given writers.
func NewLoggerWithWriters(out, errOut io.Writer) *Logger {
	return &Logger{out: out, errOut: errOut}
}

// SetNoColor toggles colored output. Color state is process-wide.
func (l *Logger) SetNoColor(noColor bool) {
	color.NoColor = noColor
}

func (l *Logger) SetVerbose(verbose bool)   { l.verbose = verbose }
func (l *Logger) SetJSONMode(jsonMode bool) { l.jsonMode = jsonMode }
func (l *Logger) IsVerbose() bool           { return l.verbose }
func (l *Logger) IsJSONMode() bool          { return l.jsonMode }

// Writer returns the standard output writer.
func (l *Logger) Writer() io.Writer { return l.out }

// ErrWriter returns the error output writer.
func (l *Logger) ErrWriter() io.Writer { return l.errOut }

// emit writes one formatted line unless JSON mode suppresses text.
func (l *Logger) emit(w io.Writer, style *color.Color, prefix, format string, args []interface{}) {
	if l.jsonMode {
		return
	}
	write(w, style, prefix+fmt.Sprintf(format, args...))
}

func write(w io.Writer, style *color.Color, line string) {
	if style == nil {
		fmt.Fprintln(w, line)
		return
	}
	style.Fprintln(w, line)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(l.out, nil, "", format, args)
}

func (l *Logger) Println(format string, args ...interface{}) {
	l.emit(l.out, nil, "", format, args)
}

func (l *Logger) Success(format string, args ...interface{}) {
	l.emit(l.out, styleSuccess, "✓ ", format, args)
}

func (l *Logger) Bold(format string, args ...interface{}) {
	l.emit(l.out, styleBold, "", format, args)
}

// Cyan is used for links and other highlights.
func (l *Logger) Cyan(format string, args ...interface{}) {
	l.emit(l.out, styleCyan, "", format, args)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(l.errOut, styleWarn, "Warning: ", format, args)
}

// Debug writes only in verbose mode.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.emit(l.out, styleDebug, "[DEBUG] ", format, args)
}

// Error is written in JSON mode too since it goes to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	write(l.errOut, styleError, "Error: "+fmt.Sprintf(format, args...))
}

// Info prints an informational message using the default logger.
func Info(format string, args ...interface{}) {
	DefaultLogger.Info(format, args...)
}

// Separator returns a separator line of the default width.
func Separator() string {
	return strings.Repeat(SeparatorChar, SeparatorWidth)
}

// CyanSeparator returns a cyan separator line.
func CyanSeparator() string {
	return styleCyan.Sprint(Separator())
}
