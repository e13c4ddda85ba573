// Package logger wraps zap with the small surface the application needs.
package logger

import (
	"go.uber.org/zap"
)

// Logger is a sugared zap logger.
type Logger struct {
	*zap.SugaredLogger
}

// New returns a development logger writing to stderr when verbose is set,
// and a no-op logger otherwise.
func New(verbose bool) (*Logger, error) {
	if !verbose {
		return Nop(), nil
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	return &Logger{l.Sugar()}, nil
}

// Nop returns a logger that discards everything. Tests use it too.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

