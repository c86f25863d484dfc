package planner

import (
	"sort"
	"time"
)

// MonthDays returns every day of the given month, at midnight in loc.
func MonthDays(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := make([]time.Time, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekDays returns the seven days, Sunday first, of the week containing t.
func WeekDays(t time.Time) []time.Time {
	start := StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// StartOfDay returns midnight of t's day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a & b fall on the same calendar day, as seen from b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EventsOn returns the events starting on the given day, keeping their order.
func EventsOn(events []CalendarEvent, day time.Time) []CalendarEvent {
	res := make([]CalendarEvent, 0)
	for _, e := range events {
		if SameDay(e.Start, day) {
			res = append(res, e)
		}
	}
	return res
}

// SortEvents orders events by start time, then by id.
func SortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}
