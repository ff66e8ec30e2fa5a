// Package tmtlog is a thin structured-logging facade over the standard
// library's log package, in the style korel's cmd/* programs use directly
// (no third-party logging framework appears anywhere in the retrieval
// pack's teacher repo).
package tmtlog

import (
	"log"
	"os"
)

// Logger prefixes every line with a component tag, e.g. "[translate]".
type Logger struct {
	prefix string
	std    *log.Logger
}

// New creates a Logger writing to stderr with the given component tag.
func New(component string) *Logger {
	return &Logger{
		prefix: "[" + component + "] ",
		std:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.std.Printf(l.prefix+"DEBUG "+format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.std.Printf(l.prefix+"INFO  "+format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.std.Printf(l.prefix+"WARN  "+format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.std.Printf(l.prefix+"ERROR "+format, args...)
}
