// Package logging provides the small leveled logger used across
// kabi-tools commands. There is no global/singleton logger: callers
// construct one and pass it explicitly down the call stack.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Format selects the output encoding of a Logger.
type Format int

const (
	FormatHuman Format = iota
	FormatJSON
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger is a small leveled, structured logger.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format Format
	out    io.Writer
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	return &Logger{level: cfg.Level, format: cfg.Format, out: cfg.Output}
}

func (l *Logger) log(level Level, msg string, fields map[string]any) {
	if level > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.format == FormatJSON {
		rec := map[string]any{
			"time":  time.Now().UTC().Format(time.RFC3339Nano),
			"level": level.String(),
			"msg":   msg,
		}
		for k, v := range fields {
			rec[k] = v
		}
		enc := json.NewEncoder(l.out)
		_ = enc.Encode(rec)
		return
	}
	fmt.Fprintf(l.out, "%s %-5s %s", time.Now().Format("15:04:05.000"), level.String(), msg)
	for k, v := range fields {
		fmt.Fprintf(l.out, " %s=%v", k, v)
	}
	fmt.Fprintln(l.out)
}

func (l *Logger) Debug(msg string, fields map[string]any) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.log(LevelError, msg, fields) }

// SetLevel adjusts the minimum level logged, used by -d/--debug handling.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}
