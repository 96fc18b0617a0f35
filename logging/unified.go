package logging

import (
	"context"
	"fmt"

	"github.com/grovetools/hydrate/tui/theme"
	"github.com/sirupsen/logrus"
)

// UnifiedLogger writes each message twice: a styled line for the user and a
// structured entry for the log file.
//
//	ulog := logging.NewUnifiedLogger("cmd.add")
//	ulog.Success("Logged a cup").Field("ounces", 8).Log(ctx)
type UnifiedLogger struct {
	component  string
	structured *logrus.Entry
}

// NewUnifiedLogger creates a new unified logger for a specific component.
func NewUnifiedLogger(component string) *UnifiedLogger {
	return &UnifiedLogger{
		component:  component,
		structured: NewLogger(component),
	}
}

func (u *UnifiedLogger) entry(level logrus.Level, msg, icon string, fields logrus.Fields) *LogEntry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	return &LogEntry{logger: u, msg: msg, level: level, icon: icon, fields: fields}
}

// Info returns a LogEntry at INFO level.
func (u *UnifiedLogger) Info(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, msg, theme.IconBullet, nil)
}

// Warn returns a LogEntry at WARN level.
func (u *UnifiedLogger) Warn(msg string) *LogEntry {
	return u.entry(logrus.WarnLevel, msg, theme.IconWarning, nil)
}

// Error returns a LogEntry at ERROR level.
func (u *UnifiedLogger) Error(msg string) *LogEntry {
	return u.entry(logrus.ErrorLevel, msg, theme.IconError, nil)
}

// Success returns an INFO entry tagged status=success.
func (u *UnifiedLogger) Success(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, msg, theme.IconSuccess, logrus.Fields{"status": "success"})
}

// Status returns an INFO entry tagged status=info.
func (u *UnifiedLogger) Status(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, msg, theme.IconInfo, logrus.Fields{"status": "info"})
}

// WithStructured returns the underlying logrus entry.
func (u *UnifiedLogger) WithStructured() *logrus.Entry {
	return u.structured
}

// LogEntry accumulates options before writing to both outputs. Nothing is
// written until Log is called.
type LogEntry struct {
	logger     *UnifiedLogger
	msg        string
	level      logrus.Level
	fields     logrus.Fields
	icon       string
	prettyMsg  string
	prettyOnly bool
	structOnly bool
}

// Field adds a structured field.
func (e *LogEntry) Field(key string, value interface{}) *LogEntry {
	e.fields[key] = value
	return e
}

// Err attaches an error as the "error" field.
func (e *LogEntry) Err(err error) *LogEntry {
	if err != nil {
		e.fields["error"] = err.Error()
	}
	return e
}

// Pretty replaces the styled console line; the structured entry keeps msg.
func (e *LogEntry) Pretty(styled string) *LogEntry {
	e.prettyMsg = styled
	return e
}

// PrettyOnly skips structured output.
func (e *LogEntry) PrettyOnly() *LogEntry {
	e.prettyOnly = true
	return e
}

// StructuredOnly skips pretty output.
func (e *LogEntry) StructuredOnly() *LogEntry {
	e.structOnly = true
	return e
}

// Log writes the entry. Pretty output goes to the writer attached to ctx.
func (e *LogEntry) Log(ctx context.Context) {
	if !e.structOnly {
		fmt.Fprintln(GetWriter(ctx), e.render())
	}
	if !e.prettyOnly {
		e.logger.structured.WithFields(e.fields).Log(e.level, e.msg)
	}
}

func (e *LogEntry) render() string {
	if e.prettyMsg != "" {
		return e.prettyMsg
	}
	styles := DefaultPrettyStyles()
	line := e.msg
	if e.icon != "" {
		line = e.icon + " " + e.msg
	}
	switch {
	case e.level == logrus.WarnLevel:
		return styles.Warning.Render(line)
	case e.level <= logrus.ErrorLevel:
		return styles.Error.Render(line)
	case e.fields["status"] == "success":
		return styles.Success.Render(line)
	case e.fields["status"] == "info":
		return styles.Info.Render(line)
	default:
		return line
	}
}
