package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
)

const dateLayout = "2006-01-02"

var nowFunc = time.Now // mockable

func invalidParam(field, msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
}

// MonthWindow holds the month to project the calendar onto; it defaults to the current one.
type MonthWindow struct {
	Year  int
	Month time.Month
}

func (w *MonthWindow) Bind(ctx echo.Context) error {
	now := nowFunc()
	w.Year, w.Month = now.Year(), now.Month()

	if s := ctx.QueryParam("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil || year < 1 || year > 9999 {
			return invalidParam("year", "must be a valid year")
		}
		w.Year = year
	}
	if s := ctx.QueryParam("month"); s != "" {
		month, err := strconv.Atoi(s)
		if err != nil || month < 1 || month > 12 {
			return invalidParam("month", "must be between 1 and 12")
		}
		w.Month = time.Month(month)
	}
	return nil
}

func (w MonthWindow) Days() []time.Time {
	return planner.MonthDays(w.Year, w.Month, time.Local)
}

// bindDate parses the "date" query param (YYYY-MM-DD, local time); it defaults to today.
func bindDate(ctx echo.Context) (time.Time, error) {
	s := ctx.QueryParam("date")
	if s == "" {
		return planner.StartOfDay(nowFunc()), nil
	}
	day, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, invalidParam("date", "must be a date in YYYY-MM-DD format")
	}
	return day, nil
}
