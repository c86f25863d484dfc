package logsvc

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/trezcool/studyplan/core"
)

// NewZerolog returns a zerolog.Logger writing to w at the configured level.
// Format "console" writes human-friendly lines, "json" one JSON object per line;
// "auto" picks console when w is a terminal.
func NewZerolog(w io.Writer, conf core.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil || conf.Level == "" {
		level = zerolog.InfoLevel
	}

	console := conf.Format == "console"
	if conf.Format == "auto" || conf.Format == "" {
		if f, ok := w.(*os.File); ok {
			console = term.IsTerminal(int(f.Fd()))
		}
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ZeroLogger adapts a zerolog.Logger to core.Logger.
type ZeroLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*ZeroLogger)(nil)

func NewZeroLogger(zl zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{zl: zl}
}

// Zerolog returns the underlying logger.
func (l ZeroLogger) Zerolog() zerolog.Logger {
	return l.zl
}

// log attaches args to the event: errors as "error", maps as fields, anything else under "args".
func (l ZeroLogger) log(evt *zerolog.Event, msg string, args []interface{}) {
	if evt == nil { // level disabled
		return
	}
	extra := make([]string, 0)
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			evt = evt.Err(a)
		case map[string]interface{}:
			evt = evt.Fields(a)
		default:
			extra = append(extra, fmt.Sprintf("%+v", a))
		}
	}
	if len(extra) > 0 {
		evt = evt.Strs("args", extra)
	}
	evt.Msg(msg)
}

func (l ZeroLogger) Debug(msg string, args ...interface{}) { l.log(l.zl.Debug(), msg, args) }
func (l ZeroLogger) Info(msg string, args ...interface{})  { l.log(l.zl.Info(), msg, args) }
func (l ZeroLogger) Warn(msg string, args ...interface{})  { l.log(l.zl.Warn(), msg, args) }
func (l ZeroLogger) Error(msg string, args ...interface{}) { l.log(l.zl.Error(), msg, args) }
func (l ZeroLogger) Fatal(msg string, args ...interface{}) { l.log(l.zl.Fatal(), msg, args) }
