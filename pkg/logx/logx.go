package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// ============================================================================
// Levels
// ============================================================================

type Level int32

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
	default:
		return "ERROR"
	}
}

var currentLevel atomic.Int32

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetLevel establece el nivel mínimo de log
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func output(l Level, msg string) {
	if enabled(l) {
		std.Printf("[%s] %s", l, msg)
	}
}

// ============================================================================
// Package-level helpers
// ============================================================================

func Debug(msg string)                  { output(LevelDebug, msg) }
func Debugf(format string, args ...any) { output(LevelDebug, fmt.Sprintf(format, args...)) }

func Info(msg string)                  { output(LevelInfo, msg) }
func Infof(format string, args ...any) { output(LevelInfo, fmt.Sprintf(format, args...)) }

func Warn(msg string)                  { output(LevelWarn, msg) }
func Warnf(format string, args ...any) { output(LevelWarn, fmt.Sprintf(format, args...)) }

func Error(msg string)                  { output(LevelError, msg) }
func Errorf(format string, args ...any) { output(LevelError, fmt.Sprintf(format, args...)) }

// Fatalf loguea y termina el proceso
func Fatalf(format string, args ...any) {
	std.Printf("[FATAL] %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// ============================================================================
// Structured fields
// ============================================================================

// Fields son pares clave/valor adjuntos a una entrada de log
type Fields map[string]any

// Entry es una entrada de log con campos estructurados
type Entry struct {
	fields Fields
}

// WithFields crea una entrada con campos estructurados
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// WithField agrega un campo a la entrada
func (e *Entry) WithField(key string, value any) *Entry {
	next := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		next[k] = v
	}
	next[key] = value
	return &Entry{fields: next}
}

func (e *Entry) format(msg string) string {
	if len(e.fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.fields[k])
	}
	return b.String()
}

func (e *Entry) Debug(msg string)                  { output(LevelDebug, e.format(msg)) }
func (e *Entry) Debugf(format string, args ...any) { output(LevelDebug, e.format(fmt.Sprintf(format, args...))) }

func (e *Entry) Info(msg string)                  { output(LevelInfo, e.format(msg)) }
func (e *Entry) Infof(format string, args ...any) { output(LevelInfo, e.format(fmt.Sprintf(format, args...))) }

func (e *Entry) Warn(msg string)                  { output(LevelWarn, e.format(msg)) }
func (e *Entry) Warnf(format string, args ...any) { output(LevelWarn, e.format(fmt.Sprintf(format, args...))) }

func (e *Entry) Error(msg string)                  { output(LevelError, e.format(msg)) }
func (e *Entry) Errorf(format string, args ...any) { output(LevelError, e.format(fmt.Sprintf(format, args...))) }
