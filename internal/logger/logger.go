// Package logger defines the structured logging interface used across
// the module, decoupling callers from the concrete backend (zap, in
// internal/logger/zap).
package logger

import "ringscrape/internal/domain"

// Field is a structured key/value pair attached to a log line.
type Field struct {
	Key string
	Val any
}

// Logger is the minimal structured-logging interface required by the
// ring, storage and front door packages.
type Logger interface {
	Named(name string) Logger
	With(fields ...Field) Logger
	WithNode(n domain.Node) Logger
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// F builds a Field concisely.
func F(key string, val any) Field { return Field{Key: key, Val: val} }

// FNode serializes a domain.Node into a readable structured field.
func FNode(key string, n domain.Node) Field {
	return Field{
		Key: key,
		Val: map[string]any{
			"id":   n.ID.String(),
			"addr": n.Addr,
		},
	}
}

// NopLogger discards everything logged through it.
type NopLogger struct{}

func (l *NopLogger) Named(name string) Logger      { return l }
func (l *NopLogger) With(fields ...Field) Logger   { return l }
func (l *NopLogger) WithNode(n domain.Node) Logger { return l }
func (l *NopLogger) Debug(msg string, fields ...Field) {}
func (l *NopLogger) Info(msg string, fields ...Field)  {}
func (l *NopLogger) Warn(msg string, fields ...Field)  {}
func (l *NopLogger) Error(msg string, fields ...Field) {}
