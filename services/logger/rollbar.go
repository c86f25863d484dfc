package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
)

// RollbarLogger reports to Rollbar, then logs locally through a ZeroLogger.
type RollbarLogger struct {
	local *ZeroLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(local *ZeroLogger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Address)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{local: local}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, planner.Profile
func (l RollbarLogger) prepare(msg string, args []interface{}) (rbArgs, localArgs []interface{}) {
	var personSet bool
	rbArgs = make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	localArgs = make([]interface{}, 0, len(args))
	for _, arg := range args {
		if p, ok := arg.(planner.Profile); ok {
			if !personSet { // only set one person
				rollbar.SetPerson(p.Email, p.Name, p.Email)
				personSet = true
			}
			continue
		}
		rbArgs = append(rbArgs, arg)
		localArgs = append(localArgs, arg)
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return rbArgs, localArgs
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, localArgs := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.local.Debug(msg, localArgs...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, localArgs := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.local.Info(msg, localArgs...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, localArgs := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.local.Warn(msg, localArgs...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, localArgs := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.local.Error(msg, localArgs...)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, localArgs := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	rollbar.Wait()
	l.local.Fatal(msg, localArgs...)
}
