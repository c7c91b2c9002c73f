package main

import (
	"fmt"
	"io"
	"log"
	"strings"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

// leveledLogger implements calculation.Logger on top of the standard logger,
// dropping messages below the configured level
type leveledLogger struct {
	min level
	l   *log.Logger
}

func newLogger(w io.Writer, lvl string) *leveledLogger {
	return &leveledLogger{min: parseLevel(lvl), l: log.New(w, "rentcalc ", log.LstdFlags)}
}

func (lg *leveledLogger) logf(lvl level, tag, format string, args ...any) {
	if lvl < lg.min {
		return
	}
	lg.l.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

func (lg *leveledLogger) Debugf(format string, args ...any) { lg.logf(levelDebug, "DEBUG", format, args...) }
func (lg *leveledLogger) Infof(format string, args ...any)  { lg.logf(levelInfo, "INFO", format, args...) }
func (lg *leveledLogger) Warnf(format string, args ...any)  { lg.logf(levelWarn, "WARN", format, args...) }
func (lg *leveledLogger) Errorf(format string, args ...any) { lg.logf(levelError, "ERROR", format, args...) }
