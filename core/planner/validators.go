package planner

import (
	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core"
)

var (
	errInvalidClock   = errors.New("invalid wall-clock time")
	errEndBeforeStart = errors.New("end time must be after start time")
)

// checkTimeRange returns a validation error unless start < end.
// Field tags only check each clock on its own; the range is checked here on create and update.
func checkTimeRange(start, end string) error {
	s, err := clockMinutes(start)
	if err != nil {
		return core.NewValidationError(errInvalidClock, core.FieldError{Field: "startTime", Error: errInvalidClock.Error()})
	}
	e, err := clockMinutes(end)
	if err != nil {
		return core.NewValidationError(errInvalidClock, core.FieldError{Field: "endTime", Error: errInvalidClock.Error()})
	}
	if e <= s {
		return core.NewValidationError(errEndBeforeStart, core.FieldError{Field: "endTime", Error: errEndBeforeStart.Error()})
	}
	return nil
}
