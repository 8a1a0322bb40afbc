package config

import (
	"github.com/MonkyMars/gecho"
)

// InitializeLogger builds the process logger at the level that matches the
// environment.
func InitializeLogger() *gecho.Logger {
	return NewLogger(true)
}

// NewLogger returns a logger at the configured level. Request logging runs
// without caller info.
func NewLogger(showCaller bool) *gecho.Logger {
	logLevel := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(logLevel)))
}
