// Package corelog is the hot-path logger for the collective path:
// dispatcher decisions, topology classification, and
// configuration/capability diagnostics. Generalized directly from
// KungFu's srcs/go/log package
// (same Logger shape, level gating, xterm-colored error/fatal prefix),
// kept deliberately free of any third-party logging dependency so the
// collective path never pays for a leveled-logging abstraction — the
// benchmark CLI uses k8s.io/klog/v2 instead, for its own run reports.
package corelog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lsds/nvreduce/internal/config"
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = map[string]Level{
	"DEBUG": Debug,
	"INFO":  Info,
	"WARN":  Warn,
	"ERROR": Error,
}

type Logger struct {
	sync.Mutex
	w     io.Writer
	level Level
}

func New() *Logger {
	level, ok := levelNames[config.LogLevel]
	if !ok {
		level = Info
	}
	return &Logger{w: os.Stderr, level: level}
}

var std = New()

func (l *Logger) output(prefix, format string, v ...interface{}) {
	l.Lock()
	defer l.Unlock()
	s := fmt.Sprintf(format, v...)
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	fmt.Fprintf(l.w, "%s %s", prefix, s)
}

func (l *Logger) logf(level Level, prefix, format string, v ...interface{}) {
	if level >= l.level {
		l.output(prefix, format, v...)
	}
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(Debug, "[D]", format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(Info, "[I]", format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(Warn, "[W]", format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(Error, warnColor.S("[E]"), format, v...)
}

func (l *Logger) SetOutput(w io.Writer) {
	l.Lock()
	defer l.Unlock()
	l.w = w
}

var (
	Debugf    = std.Debugf
	Infof     = std.Infof
	Warnf     = std.Warnf
	Errorf    = std.Errorf
	SetOutput = std.SetOutput
)
