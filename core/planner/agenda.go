package planner

import (
	"math"
	"sort"
	"time"
)

// DefaultUpcomingLimit is the number of upcoming assignments shown on the dashboard.
const DefaultUpcomingLimit = 5

// Dashboard summarizes the planner at a given instant.
type Dashboard struct {
	GPA                 GPACalculation  `json:"gpa"`
	CourseCount         int             `json:"courseCount"`
	PendingCount        int             `json:"pendingCount"`
	CompletedCount      int             `json:"completedCount"`
	UpcomingAssignments []Assignment    `json:"upcomingAssignments"`
	OverdueAssignments  []Assignment    `json:"overdueAssignments"`
	TodaySchedule       []ScheduleEntry `json:"todaySchedule"`
	PendingReminders    []Reminder      `json:"pendingReminders"`
}

// BuildDashboard computes the dashboard of snap as seen at now.
func BuildDashboard(snap Snapshot, now time.Time, reminderHorizon time.Duration) Dashboard {
	dash := Dashboard{
		GPA:                 ComputeGPA(snap.Grades, snap.Courses),
		CourseCount:         len(snap.Courses),
		UpcomingAssignments: UpcomingAssignments(snap.Assignments, now, DefaultUpcomingLimit),
		OverdueAssignments:  OverdueAssignments(snap.Assignments, now),
		TodaySchedule:       DaySchedule(snap.Schedule, now.Weekday()),
		PendingReminders:    PendingReminders(snap.Reminders, now, reminderHorizon),
	}
	for _, a := range snap.Assignments {
		switch a.Status {
		case StatusPending:
			dash.PendingCount++
		case StatusCompleted:
			dash.CompletedCount++
		}
	}
	return dash
}

// IsOverdue reports whether due is strictly before now.
func IsOverdue(due, now time.Time) bool {
	return due.Before(now)
}

// DaysUntil returns the number of calendar days from now's day to date's day; negative if date is past.
func DaysUntil(date, now time.Time) int {
	from := StartOfDay(now)
	to := StartOfDay(date.In(now.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// UpcomingAssignments returns the unfinished assignments not yet due, soonest first.
// A limit <= 0 returns all of them.
func UpcomingAssignments(assignments []Assignment, now time.Time, limit int) []Assignment {
	res := filterAssignments(assignments, func(a Assignment) bool {
		return a.Status != StatusCompleted && !IsOverdue(a.DueDate, now)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// OverdueAssignments returns the unfinished assignments past their due date, oldest first.
func OverdueAssignments(assignments []Assignment, now time.Time) []Assignment {
	return filterAssignments(assignments, func(a Assignment) bool {
		return a.Status != StatusCompleted && IsOverdue(a.DueDate, now)
	})
}

func filterAssignments(assignments []Assignment, keep func(Assignment) bool) []Assignment {
	res := make([]Assignment, 0)
	for _, a := range assignments {
		if keep(a) {
			res = append(res, a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].DueDate.Before(res[j].DueDate) })
	return res
}

// DaySchedule returns the classes held on the given weekday, by start time.
func DaySchedule(schedule []ScheduleEntry, day time.Weekday) []ScheduleEntry {
	res := make([]ScheduleEntry, 0)
	for _, s := range schedule {
		if s.DayOfWeek == int(day) {
			res = append(res, s)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].StartTime < res[j].StartTime })
	return res
}

// WeeklyHours returns the total class time per week, in hours.
func WeeklyHours(schedule []ScheduleEntry) float64 {
	var minutes int
	for _, s := range schedule {
		start, err := clockMinutes(s.StartTime)
		if err != nil {
			continue
		}
		end, err := clockMinutes(s.EndTime)
		if err != nil || end <= start {
			continue
		}
		minutes += end - start
	}
	return float64(minutes) / 60
}

// UniqueLocations returns the distinct non-empty class locations, in order of first appearance.
func UniqueLocations(schedule []ScheduleEntry) []string {
	seen := make(map[string]bool)
	res := make([]string, 0)
	for _, s := range schedule {
		if !s.Location.Valid || s.Location.String == "" || seen[s.Location.String] {
			continue
		}
		seen[s.Location.String] = true
		res = append(res, s.Location.String)
	}
	return res
}

// PendingReminders returns the uncompleted reminders dated up to now+horizon (overdue ones included), soonest first.
func PendingReminders(reminders []Reminder, now time.Time, horizon time.Duration) []Reminder {
	limit := now.Add(horizon)
	res := make([]Reminder, 0)
	for _, r := range reminders {
		if !r.IsCompleted && !r.Date.After(limit) {
			res = append(res, r)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res
}
