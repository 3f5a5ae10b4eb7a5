// Package enginelog is a thin structured-logging façade over
// github.com/astaxie/beego/logs, used by the cmd/scriptvm CLI only (the
// codec packages do not log) -- never inside the interpreter's hot loop, per spec.md's "no
// I/O is performed by the engine" rule. Grounded on the teacher's
// log/log.go (level-name parsing, module-gated Print).
package enginelog

import (
	"strings"

	"github.com/astaxie/beego/logs"
)

// Logger wraps a beego logs.BeeLogger configured for this module's use.
type Logger struct {
	bee *logs.BeeLogger
}

// New builds a Logger writing to stdout at level, matching the
// teacher's InitLogger(dataDir, level) except this module never touches
// a data directory -- the console adapter is enough for a script-VM CLI.
func New(level string) *Logger {
	bee := logs.NewLogger(1000)
	bee.SetLogger(logs.AdapterConsole)
	bee.SetLevel(parseLevel(level))
	return &Logger{bee: bee}
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "emergency":
		return logs.LevelEmergency
	case "alert":
		return logs.LevelAlert
	case "critical":
		return logs.LevelCritical
	case "error":
		return logs.LevelError
	case "warn", "warning":
		return logs.LevelWarn
	case "notice":
		return logs.LevelNotice
	case "debug":
		return logs.LevelDebug
	default:
		return logs.LevelInfo
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.bee.Debug(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.bee.Info(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.bee.Warn(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.bee.Error(format, args...) }
