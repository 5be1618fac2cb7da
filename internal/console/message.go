// Package console implements the console screen: a scrollback of messages
// above a syntax highlighted input, command execution through the registry,
// history traversal and completions.
package console

import (
	"time"

	"github.com/zirconconsole/zircon/internal/log"
)

// MessageType identifies the kind of a console message.
type MessageType string

const (
	TypeOutput          MessageType = "zr:output"
	TypeError           MessageType = "zr:error"
	TypeExecution       MessageType = "zr:execute"
	TypeLogOutput       MessageType = "log:output"
	TypeStructuredLog   MessageType = "slog:output"
	TypeStructuredError MessageType = "slog:err"
	TypePlain           MessageType = "plain"
	TypeScriptError     MessageType = "script:error"
)

// Context is the side that produced a message.
type Context int

const (
	ContextServer Context = iota
	ContextClient
)

func (c Context) String() string {
	if c == ContextServer {
		return "server"
	}
	return "client"
}

// Level is a log severity. The order matters: filters compare levels.
type Level int

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelWtf
)

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "VERBOSE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelWtf:
		return "WTF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level member name ("Info", "Warning") to a Level.
func ParseLevel(name string) (Level, bool) {
	for l := LevelVerbose; l <= LevelWtf; l++ {
		if levelNames[l] == name {
			return l, true
		}
	}
	return LevelInfo, false
}

var levelNames = map[Level]string{
	LevelVerbose: "Verbose",
	LevelDebug:   "Debug",
	LevelInfo:    "Info",
	LevelWarning: "Warning",
	LevelError:   "Error",
	LevelWtf:     "Wtf",
}

// LevelNames returns the level member names in severity order.
func LevelNames() []string {
	names := make([]string, 0, len(levelNames))
	for l := LevelVerbose; l <= LevelWtf; l++ {
		names = append(names, levelNames[l])
	}
	return names
}

// LogEvent is the payload of a structured log message.
type LogEvent struct {
	Level    Level
	Template string
	// Variables fill template holes in order.
	Variables []any
	// Fields are extra properties shown after the text.
	Fields []any
	// Tag names the source, such as a log category.
	Tag string
}

// Message is one scrollback entry.
type Message struct {
	Type    MessageType
	Context Context
	Time    time.Time

	// Text is the output, error text, executed source or plain text.
	Text string
	// Script names the script that produced output or an error, if any.
	Script     string
	StackTrace []string
	TraceID    string

	// Log is set for log messages.
	Log *LogEvent
}

// MessageText returns the display text of m without styling. Log messages
// return their formatted template.
func MessageText(m Message) string {
	switch m.Type {
	case TypeOutput, TypeError, TypeExecution, TypePlain, TypeScriptError:
		return m.Text
	case TypeLogOutput, TypeStructuredLog, TypeStructuredError:
		if m.Log == nil {
			return m.Text
		}
		return Format(m.Log.Template, m.Log.Variables)
	default:
		return ""
	}
}

// IsLogMessage reports whether m carries a log event.
func IsLogMessage(m Message) bool {
	switch m.Type {
	case TypeLogOutput, TypeStructuredLog, TypeStructuredError:
		return true
	}
	return false
}

// IsContextMessage reports whether m records the side that produced it.
func IsContextMessage(m Message) bool {
	switch m.Type {
	case TypeOutput, TypeError, TypeLogOutput, TypeStructuredLog:
		return true
	}
	return false
}

// LogLevelOf returns the severity used to color and filter m.
func LogLevelOf(m Message) Level {
	switch m.Type {
	case TypeLogOutput, TypeStructuredLog, TypeStructuredError:
		if m.Log != nil {
			return m.Log.Level
		}
		if m.Type == TypeStructuredError {
			return LevelError
		}
	case TypeError:
		return LevelError
	}
	return LevelInfo
}

// Output creates a command output message.
func Output(text string) Message {
	return Message{Type: TypeOutput, Context: ContextClient, Time: time.Now(), Text: text}
}

// ErrorMessage creates a command error message.
func ErrorMessage(err error, traceID string) Message {
	return Message{Type: TypeError, Context: ContextClient, Time: time.Now(), Text: err.Error(), TraceID: traceID}
}

// Execution creates the echo of a submitted source.
func Execution(source string) Message {
	return Message{Type: TypeExecution, Time: time.Now(), Text: source}
}

// Plain creates an unstyled message.
func Plain(text string) Message {
	return Message{Type: TypePlain, Time: time.Now(), Text: text}
}

// StructuredLog creates a structured log message.
func StructuredLog(ctx Context, ev LogEvent) Message {
	typ := TypeStructuredLog
	if ev.Level >= LevelError {
		typ = TypeStructuredError
	}
	return Message{Type: typ, Context: ctx, Time: time.Now(), Log: &ev}
}

// FromLogEntry converts a debug log entry into a structured log message.
func FromLogEntry(e log.Entry) Message {
	level := LevelInfo
	switch e.Level {
	case log.LevelDebug:
		level = LevelDebug
	case log.LevelWarn:
		level = LevelWarning
	case log.LevelError:
		level = LevelError
	}
	m := StructuredLog(ContextClient, LogEvent{
		Level:    level,
		Template: EscapeTemplate(e.Message),
		Fields:   e.Fields,
		Tag:      string(e.Category),
	})
	m.Time = e.Time
	return m
}
