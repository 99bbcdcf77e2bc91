package logger

import (
	"github.com/golang/glog"
)

// debugVerbosity is the glog -v level at which Debugf output is emitted.
const debugVerbosity = 2

// GlogLogger implements the Logger interface on top of glog with a configurable call depth,
// so that file:line in the output points at the caller rather than at this package.
type GlogLogger struct {
	depth int
}

func (logger *GlogLogger) Debugf(msg string, args ...any) {
	if glog.V(debugVerbosity) {
		glog.InfoDepthf(logger.depth, msg, args...)
	}
}

func (logger *GlogLogger) Infof(msg string, args ...any) {
	glog.InfoDepthf(logger.depth, msg, args...)
}

func (logger *GlogLogger) Warnf(msg string, args ...any) {
	glog.WarningDepthf(logger.depth, msg, args...)
}

func (logger *GlogLogger) Errorf(msg string, args ...any) {
	glog.ErrorDepthf(logger.depth, msg, args...)
}

func (logger *GlogLogger) Fatalf(msg string, args ...any) {
	glog.FatalDepthf(logger.depth, msg, args...)
}

// NewGlogLogger returns a glog-backed Logger reporting the caller of the Logger methods.
func NewGlogLogger() Logger {
	return NewGlogLoggerWithDepth(1)
}

// NewGlogLoggerWithDepth returns a glog-backed Logger which skips depth extra stack frames.
func NewGlogLoggerWithDepth(depth int) Logger {
	return &GlogLogger{
		depth: depth,
	}
}
