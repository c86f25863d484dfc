package planner

import (
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// Display colors
const (
	FallbackColor         = "#6B7280"
	ReminderColorDeadline = "#EF4444"
	ReminderColorExam     = "#F59E0B"
	ReminderColorOther    = "#10B981"

	defaultClassTitle = "Class"
	dayLayout         = "2006-01-02"
)

// ProjectEvents merges assignments, weekly schedule entries & reminders into calendar events.
//
// Assignments and reminders are projected once each, wherever their date falls.
// Schedule entries are expanded into one occurrence per day of windowDays matching their weekday,
// in windowDays order. Entries whose start or end time cannot be parsed produce no occurrence.
// The result lists assignments, then schedule occurrences, then reminders.
func ProjectEvents(courses []Course, assignments []Assignment, schedule []ScheduleEntry, reminders []Reminder, windowDays []time.Time) []CalendarEvent {
	byID := make(map[string]Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	courseColor := func(id string) string {
		if c, ok := byID[id]; ok && c.Color != "" {
			return c.Color
		}
		return FallbackColor
	}

	events := make([]CalendarEvent, 0, len(assignments)+len(reminders))

	for _, a := range assignments {
		events = append(events, CalendarEvent{
			ID:       "assignment-" + a.ID,
			Title:    a.Title,
			Start:    a.DueDate,
			End:      a.DueDate,
			Type:     EventAssignment,
			CourseID: null.StringFrom(a.CourseID),
			Color:    courseColor(a.CourseID),
		})
	}

	for _, entry := range schedule {
		startH, startM, err := parseClock(entry.StartTime)
		if err != nil {
			continue
		}
		endH, endM, err := parseClock(entry.EndTime)
		if err != nil {
			continue
		}
		title := defaultClassTitle
		if c, ok := byID[entry.CourseID]; ok && c.Name != "" {
			title = c.Name
		}
		for _, day := range windowDays {
			if int(day.Weekday()) != entry.DayOfWeek {
				continue
			}
			events = append(events, CalendarEvent{
				ID:       occurrenceID(entry.ID, day),
				Title:    title,
				Start:    atClock(day, startH, startM),
				End:      atClock(day, endH, endM),
				Type:     EventClass,
				CourseID: null.StringFrom(entry.CourseID),
				Color:    courseColor(entry.CourseID),
			})
		}
	}

	for _, r := range reminders {
		events = append(events, CalendarEvent{
			ID:    "reminder-" + r.ID,
			Title: r.Title,
			Start: r.Date,
			End:   r.Date,
			Type:  EventEvent,
			Color: ReminderColor(r.Type),
		})
	}

	return events
}

// ReminderColor returns the display color of a reminder of the given type.
func ReminderColor(typ ReminderType) string {
	switch typ {
	case ReminderAssignment:
		return ReminderColorDeadline
	case ReminderExam:
		return ReminderColorExam
	default:
		return ReminderColorOther
	}
}

func occurrenceID(entryID string, day time.Time) string {
	return "schedule-" + entryID + "-" + day.Format(dayLayout)
}

// atClock returns the given day at hh:mm, in the day's location.
func atClock(day time.Time, hh, mm int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hh, mm, 0, 0, day.Location())
}

// parseClock parses a "HH:MM" wall-clock time.
func parseClock(s string) (hh, mm int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, errInvalidClock
	}
	if hh, err = strconv.Atoi(parts[0]); err != nil || hh < 0 || hh > 23 {
		return 0, 0, errInvalidClock
	}
	if mm, err = strconv.Atoi(parts[1]); err != nil || mm < 0 || mm > 59 {
		return 0, 0, errInvalidClock
	}
	return hh, mm, nil
}

// clockMinutes returns the number of minutes since midnight of a "HH:MM" time.
func clockMinutes(s string) (int, error) {
	hh, mm, err := parseClock(s)
	if err != nil {
		return 0, err
	}
	return hh*60 + mm, nil
}
