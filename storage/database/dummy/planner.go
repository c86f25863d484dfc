package dummydb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core/planner"
)

type plannerRepository struct {
	db *DB
}

var _ planner.Repository = (*plannerRepository)(nil) // interface compliance check

func NewPlannerRepository(db *DB) planner.Repository {
	return &plannerRepository{db: db}
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if !drop(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func newID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func notFound(kind, id string) error {
	return errors.Wrapf(planner.ErrNotFound, "%s %q", kind, id)
}

func courseID(c planner.Course) string               { return c.ID }
func gradeID(g planner.Grade) string                 { return g.ID }
func assignmentID(a planner.Assignment) string       { return a.ID }
func scheduleEntryID(s planner.ScheduleEntry) string { return s.ID }
func reminderID(r planner.Reminder) string           { return r.ID }

// Courses

func (repo *plannerRepository) QueryCourses(_ context.Context) ([]planner.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]planner.Course{}, repo.db.courses...), nil
}

func (repo *plannerRepository) GetCourse(_ context.Context, id string) (planner.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := indexOf(repo.db.courses, id, courseID); i >= 0 {
		return repo.db.courses[i], nil
	}
	return planner.Course{}, notFound("course", id)
}

func (repo *plannerRepository) CreateCourse(_ context.Context, course planner.Course) (planner.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	course.ID = newID(course.ID)
	if err := repo.db.apply(func() { repo.db.courses = append(repo.db.courses, course) }); err != nil {
		return planner.Course{}, err
	}
	return course, nil
}

func (repo *plannerRepository) UpdateCourse(_ context.Context, course planner.Course) (planner.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := indexOf(repo.db.courses, course.ID, courseID)
	if i < 0 {
		return planner.Course{}, notFound("course", course.ID)
	}
	if err := repo.db.apply(func() { repo.db.courses[i] = course }); err != nil {
		return planner.Course{}, err
	}
	return course, nil
}

func (repo *plannerRepository) DeleteCourse(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if indexOf(repo.db.courses, id, courseID) < 0 {
		return notFound("course", id)
	}
	return repo.db.apply(func() {
		repo.db.courses = removeWhere(repo.db.courses, func(c planner.Course) bool { return c.ID == id })
		repo.db.grades = removeWhere(repo.db.grades, func(g planner.Grade) bool { return g.CourseID == id })
		repo.db.assignments = removeWhere(repo.db.assignments, func(a planner.Assignment) bool { return a.CourseID == id })
		repo.db.schedule = removeWhere(repo.db.schedule, func(s planner.ScheduleEntry) bool { return s.CourseID == id })
	})
}

// Grades

func (repo *plannerRepository) QueryGrades(_ context.Context) ([]planner.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]planner.Grade{}, repo.db.grades...), nil
}

func (repo *plannerRepository) GetGrade(_ context.Context, id string) (planner.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := indexOf(repo.db.grades, id, gradeID); i >= 0 {
		return repo.db.grades[i], nil
	}
	return planner.Grade{}, notFound("grade", id)
}

func (repo *plannerRepository) CreateGrade(_ context.Context, grade planner.Grade) (planner.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	grade.ID = newID(grade.ID)
	if err := repo.db.apply(func() { repo.db.grades = append(repo.db.grades, grade) }); err != nil {
		return planner.Grade{}, err
	}
	return grade, nil
}

func (repo *plannerRepository) UpdateGrade(_ context.Context, grade planner.Grade) (planner.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := indexOf(repo.db.grades, grade.ID, gradeID)
	if i < 0 {
		return planner.Grade{}, notFound("grade", grade.ID)
	}
	if err := repo.db.apply(func() { repo.db.grades[i] = grade }); err != nil {
		return planner.Grade{}, err
	}
	return grade, nil
}

func (repo *plannerRepository) DeleteGrade(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if indexOf(repo.db.grades, id, gradeID) < 0 {
		return notFound("grade", id)
	}
	return repo.db.apply(func() {
		repo.db.grades = removeWhere(repo.db.grades, func(g planner.Grade) bool { return g.ID == id })
	})
}

// Assignments

func (repo *plannerRepository) QueryAssignments(_ context.Context) ([]planner.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]planner.Assignment{}, repo.db.assignments...), nil
}

func (repo *plannerRepository) GetAssignment(_ context.Context, id string) (planner.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := indexOf(repo.db.assignments, id, assignmentID); i >= 0 {
		return repo.db.assignments[i], nil
	}
	return planner.Assignment{}, notFound("assignment", id)
}

func (repo *plannerRepository) CreateAssignment(_ context.Context, assignment planner.Assignment) (planner.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	assignment.ID = newID(assignment.ID)
	if err := repo.db.apply(func() { repo.db.assignments = append(repo.db.assignments, assignment) }); err != nil {
		return planner.Assignment{}, err
	}
	return assignment, nil
}

func (repo *plannerRepository) UpdateAssignment(_ context.Context, assignment planner.Assignment) (planner.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := indexOf(repo.db.assignments, assignment.ID, assignmentID)
	if i < 0 {
		return planner.Assignment{}, notFound("assignment", assignment.ID)
	}
	if err := repo.db.apply(func() { repo.db.assignments[i] = assignment }); err != nil {
		return planner.Assignment{}, err
	}
	return assignment, nil
}

func (repo *plannerRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if indexOf(repo.db.assignments, id, assignmentID) < 0 {
		return notFound("assignment", id)
	}
	return repo.db.apply(func() {
		repo.db.assignments = removeWhere(repo.db.assignments, func(a planner.Assignment) bool { return a.ID == id })
	})
}

// Schedule

func (repo *plannerRepository) QueryScheduleEntries(_ context.Context) ([]planner.ScheduleEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]planner.ScheduleEntry{}, repo.db.schedule...), nil
}

func (repo *plannerRepository) GetScheduleEntry(_ context.Context, id string) (planner.ScheduleEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := indexOf(repo.db.schedule, id, scheduleEntryID); i >= 0 {
		return repo.db.schedule[i], nil
	}
	return planner.ScheduleEntry{}, notFound("schedule entry", id)
}

func (repo *plannerRepository) CreateScheduleEntry(_ context.Context, entry planner.ScheduleEntry) (planner.ScheduleEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	entry.ID = newID(entry.ID)
	if err := repo.db.apply(func() { repo.db.schedule = append(repo.db.schedule, entry) }); err != nil {
		return planner.ScheduleEntry{}, err
	}
	return entry, nil
}

func (repo *plannerRepository) UpdateScheduleEntry(_ context.Context, entry planner.ScheduleEntry) (planner.ScheduleEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := indexOf(repo.db.schedule, entry.ID, scheduleEntryID)
	if i < 0 {
		return planner.ScheduleEntry{}, notFound("schedule entry", entry.ID)
	}
	if err := repo.db.apply(func() { repo.db.schedule[i] = entry }); err != nil {
		return planner.ScheduleEntry{}, err
	}
	return entry, nil
}

func (repo *plannerRepository) DeleteScheduleEntry(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if indexOf(repo.db.schedule, id, scheduleEntryID) < 0 {
		return notFound("schedule entry", id)
	}
	return repo.db.apply(func() {
		repo.db.schedule = removeWhere(repo.db.schedule, func(s planner.ScheduleEntry) bool { return s.ID == id })
	})
}

// Reminders

func (repo *plannerRepository) QueryReminders(_ context.Context) ([]planner.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]planner.Reminder{}, repo.db.reminders...), nil
}

func (repo *plannerRepository) GetReminder(_ context.Context, id string) (planner.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := indexOf(repo.db.reminders, id, reminderID); i >= 0 {
		return repo.db.reminders[i], nil
	}
	return planner.Reminder{}, notFound("reminder", id)
}

func (repo *plannerRepository) CreateReminder(_ context.Context, reminder planner.Reminder) (planner.Reminder, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	reminder.ID = newID(reminder.ID)
	if err := repo.db.apply(func() { repo.db.reminders = append(repo.db.reminders, reminder) }); err != nil {
		return planner.Reminder{}, err
	}
	return reminder, nil
}

func (repo *plannerRepository) UpdateReminder(_ context.Context, reminder planner.Reminder) (planner.Reminder, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := indexOf(repo.db.reminders, reminder.ID, reminderID)
	if i < 0 {
		return planner.Reminder{}, notFound("reminder", reminder.ID)
	}
	if err := repo.db.apply(func() { repo.db.reminders[i] = reminder }); err != nil {
		return planner.Reminder{}, err
	}
	return reminder, nil
}

func (repo *plannerRepository) DeleteReminder(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if indexOf(repo.db.reminders, id, reminderID) < 0 {
		return notFound("reminder", id)
	}
	return repo.db.apply(func() {
		repo.db.reminders = removeWhere(repo.db.reminders, func(r planner.Reminder) bool { return r.ID == id })
	})
}

// Profile

func (repo *plannerRepository) GetProfile(_ context.Context) (planner.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.profile == nil {
		return planner.Profile{}, errors.Wrap(planner.ErrNotFound, "profile")
	}
	return *repo.db.profile, nil
}

func (repo *plannerRepository) SaveProfile(_ context.Context, profile planner.Profile) (planner.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.db.apply(func() { repo.db.profile = &profile }); err != nil {
		return planner.Profile{}, err
	}
	return profile, nil
}

// Snapshots

func (repo *plannerRepository) Snapshot(_ context.Context) (planner.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.snapshot(), nil
}

func (repo *plannerRepository) Restore(_ context.Context, snap planner.Snapshot) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	return repo.db.apply(func() { repo.db.restore(snap) })
}
