package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core/planner"
)

const (
	courseColumns     = "id, name, code, credits, color, instructor, semester"
	gradeColumns      = "id, course_id, assignment_name, grade, max_points, weight, category, date"
	assignmentColumns = "id, course_id, title, description, due_date, priority, status, category"
	scheduleColumns   = "id, course_id, day_of_week, start_time, end_time, location, type"
	reminderColumns   = "id, title, description, date, type, is_completed, assignment_id"
	profileColumns    = "name, email, current_semester, gpa_target"

	insertCourse = `INSERT INTO courses (` + courseColumns + `)
		VALUES (:id, :name, :code, :credits, :color, :instructor, :semester)`
	insertGrade = `INSERT INTO grades (` + gradeColumns + `)
		VALUES (:id, :course_id, :assignment_name, :grade, :max_points, :weight, :category, :date)`
	insertAssignment = `INSERT INTO assignments (` + assignmentColumns + `)
		VALUES (:id, :course_id, :title, :description, :due_date, :priority, :status, :category)`
	insertScheduleEntry = `INSERT INTO schedule_entries (` + scheduleColumns + `)
		VALUES (:id, :course_id, :day_of_week, :start_time, :end_time, :location, :type)`
	insertReminder = `INSERT INTO reminders (` + reminderColumns + `)
		VALUES (:id, :title, :description, :date, :type, :is_completed, :assignment_id)`
	upsertProfile = `INSERT INTO profile (id, ` + profileColumns + `)
		VALUES (1, :name, :email, :current_semester, :gpa_target)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email,
			current_semester = EXCLUDED.current_semester, gpa_target = EXCLUDED.gpa_target`
)

type namedQuery struct {
	query string
	arg   interface{}
}

type plannerRepository struct {
	db *sqlx.DB
}

var _ planner.Repository = (*plannerRepository)(nil) // interface compliance check

func NewPlannerRepository(db *sqlx.DB) planner.Repository {
	return &plannerRepository{db: db}
}

func newID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func (repo *plannerRepository) get(ctx context.Context, dest interface{}, kind, q, id string) error {
	if err := repo.db.GetContext(ctx, dest, q, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.Wrapf(planner.ErrNotFound, "%s %q", kind, id)
		}
		return errors.Wrapf(err, "selecting %s", kind)
	}
	return nil
}

// update runs a named UPDATE and reports ErrNotFound when no row matched.
func (repo *plannerRepository) update(ctx context.Context, kind, q string, arg interface{}, id string) error {
	res, err := repo.db.NamedExecContext(ctx, q, arg)
	if err != nil {
		return errors.Wrapf(err, "updating %s", kind)
	}
	return checkAffected(res, kind, id)
}

func (repo *plannerRepository) delete(ctx context.Context, kind, table, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "deleting %s", kind)
	}
	return checkAffected(res, kind, id)
}

func checkAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "counting affected %s rows", kind)
	}
	if n == 0 {
		return errors.Wrapf(planner.ErrNotFound, "%s %q", kind, id)
	}
	return nil
}

// withTx runs fn in a transaction, committed only if fn succeeds.
func (repo *plannerRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// Courses

func (repo *plannerRepository) QueryCourses(ctx context.Context) ([]planner.Course, error) {
	courses := make([]planner.Course, 0)
	err := repo.db.SelectContext(ctx, &courses, "SELECT "+courseColumns+" FROM courses ORDER BY seq")
	return courses, errors.Wrap(err, "selecting courses")
}

func (repo *plannerRepository) GetCourse(ctx context.Context, id string) (planner.Course, error) {
	var course planner.Course
	err := repo.get(ctx, &course, "course", "SELECT "+courseColumns+" FROM courses WHERE id = $1", id)
	return course, err
}

func (repo *plannerRepository) CreateCourse(ctx context.Context, course planner.Course) (planner.Course, error) {
	course.ID = newID(course.ID)
	if _, err := repo.db.NamedExecContext(ctx, insertCourse, course); err != nil {
		return planner.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

func (repo *plannerRepository) UpdateCourse(ctx context.Context, course planner.Course) (planner.Course, error) {
	q := `UPDATE courses SET name = :name, code = :code, credits = :credits, color = :color,
		instructor = :instructor, semester = :semester WHERE id = :id`
	if err := repo.update(ctx, "course", q, course, course.ID); err != nil {
		return planner.Course{}, err
	}
	return course, nil
}

// DeleteCourse deletes the course, its grades, assignments & schedule entries in one transaction.
func (repo *plannerRepository) DeleteCourse(ctx context.Context, id string) error {
	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"grades", "assignments", "schedule_entries"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE course_id = $1", id); err != nil {
				return errors.Wrapf(err, "deleting course %s", table)
			}
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
		if err != nil {
			return errors.Wrap(err, "deleting course")
		}
		return checkAffected(res, "course", id)
	})
}

// Grades

func (repo *plannerRepository) QueryGrades(ctx context.Context) ([]planner.Grade, error) {
	grades := make([]planner.Grade, 0)
	err := repo.db.SelectContext(ctx, &grades, "SELECT "+gradeColumns+" FROM grades ORDER BY seq")
	return grades, errors.Wrap(err, "selecting grades")
}

func (repo *plannerRepository) GetGrade(ctx context.Context, id string) (planner.Grade, error) {
	var grade planner.Grade
	err := repo.get(ctx, &grade, "grade", "SELECT "+gradeColumns+" FROM grades WHERE id = $1", id)
	return grade, err
}

func (repo *plannerRepository) CreateGrade(ctx context.Context, grade planner.Grade) (planner.Grade, error) {
	grade.ID = newID(grade.ID)
	if _, err := repo.db.NamedExecContext(ctx, insertGrade, grade); err != nil {
		return planner.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return grade, nil
}

func (repo *plannerRepository) UpdateGrade(ctx context.Context, grade planner.Grade) (planner.Grade, error) {
	q := `UPDATE grades SET course_id = :course_id, assignment_name = :assignment_name, grade = :grade,
		max_points = :max_points, weight = :weight, category = :category, date = :date WHERE id = :id`
	if err := repo.update(ctx, "grade", q, grade, grade.ID); err != nil {
		return planner.Grade{}, err
	}
	return grade, nil
}

func (repo *plannerRepository) DeleteGrade(ctx context.Context, id string) error {
	return repo.delete(ctx, "grade", "grades", id)
}

// Assignments

func (repo *plannerRepository) QueryAssignments(ctx context.Context) ([]planner.Assignment, error) {
	assignments := make([]planner.Assignment, 0)
	err := repo.db.SelectContext(ctx, &assignments, "SELECT "+assignmentColumns+" FROM assignments ORDER BY seq")
	return assignments, errors.Wrap(err, "selecting assignments")
}

func (repo *plannerRepository) GetAssignment(ctx context.Context, id string) (planner.Assignment, error) {
	var assignment planner.Assignment
	err := repo.get(ctx, &assignment, "assignment", "SELECT "+assignmentColumns+" FROM assignments WHERE id = $1", id)
	return assignment, err
}

func (repo *plannerRepository) CreateAssignment(ctx context.Context, assignment planner.Assignment) (planner.Assignment, error) {
	assignment.ID = newID(assignment.ID)
	if _, err := repo.db.NamedExecContext(ctx, insertAssignment, assignment); err != nil {
		return planner.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return assignment, nil
}

func (repo *plannerRepository) UpdateAssignment(ctx context.Context, assignment planner.Assignment) (planner.Assignment, error) {
	q := `UPDATE assignments SET course_id = :course_id, title = :title, description = :description,
		due_date = :due_date, priority = :priority, status = :status, category = :category WHERE id = :id`
	if err := repo.update(ctx, "assignment", q, assignment, assignment.ID); err != nil {
		return planner.Assignment{}, err
	}
	return assignment, nil
}

func (repo *plannerRepository) DeleteAssignment(ctx context.Context, id string) error {
	return repo.delete(ctx, "assignment", "assignments", id)
}

// Schedule

func (repo *plannerRepository) QueryScheduleEntries(ctx context.Context) ([]planner.ScheduleEntry, error) {
	entries := make([]planner.ScheduleEntry, 0)
	err := repo.db.SelectContext(ctx, &entries, "SELECT "+scheduleColumns+" FROM schedule_entries ORDER BY seq")
	return entries, errors.Wrap(err, "selecting schedule entries")
}

func (repo *plannerRepository) GetScheduleEntry(ctx context.Context, id string) (planner.ScheduleEntry, error) {
	var entry planner.ScheduleEntry
	err := repo.get(ctx, &entry, "schedule entry", "SELECT "+scheduleColumns+" FROM schedule_entries WHERE id = $1", id)
	return entry, err
}

func (repo *plannerRepository) CreateScheduleEntry(ctx context.Context, entry planner.ScheduleEntry) (planner.ScheduleEntry, error) {
	entry.ID = newID(entry.ID)
	if _, err := repo.db.NamedExecContext(ctx, insertScheduleEntry, entry); err != nil {
		return planner.ScheduleEntry{}, errors.Wrap(err, "inserting schedule entry")
	}
	return entry, nil
}

func (repo *plannerRepository) UpdateScheduleEntry(ctx context.Context, entry planner.ScheduleEntry) (planner.ScheduleEntry, error) {
	q := `UPDATE schedule_entries SET course_id = :course_id, day_of_week = :day_of_week, start_time = :start_time,
		end_time = :end_time, location = :location, type = :type WHERE id = :id`
	if err := repo.update(ctx, "schedule entry", q, entry, entry.ID); err != nil {
		return planner.ScheduleEntry{}, err
	}
	return entry, nil
}

func (repo *plannerRepository) DeleteScheduleEntry(ctx context.Context, id string) error {
	return repo.delete(ctx, "schedule entry", "schedule_entries", id)
}

// Reminders

func (repo *plannerRepository) QueryReminders(ctx context.Context) ([]planner.Reminder, error) {
	reminders := make([]planner.Reminder, 0)
	err := repo.db.SelectContext(ctx, &reminders, "SELECT "+reminderColumns+" FROM reminders ORDER BY seq")
	return reminders, errors.Wrap(err, "selecting reminders")
}

func (repo *plannerRepository) GetReminder(ctx context.Context, id string) (planner.Reminder, error) {
	var reminder planner.Reminder
	err := repo.get(ctx, &reminder, "reminder", "SELECT "+reminderColumns+" FROM reminders WHERE id = $1", id)
	return reminder, err
}

func (repo *plannerRepository) CreateReminder(ctx context.Context, reminder planner.Reminder) (planner.Reminder, error) {
	reminder.ID = newID(reminder.ID)
	if _, err := repo.db.NamedExecContext(ctx, insertReminder, reminder); err != nil {
		return planner.Reminder{}, errors.Wrap(err, "inserting reminder")
	}
	return reminder, nil
}

func (repo *plannerRepository) UpdateReminder(ctx context.Context, reminder planner.Reminder) (planner.Reminder, error) {
	q := `UPDATE reminders SET title = :title, description = :description, date = :date, type = :type,
		is_completed = :is_completed, assignment_id = :assignment_id WHERE id = :id`
	if err := repo.update(ctx, "reminder", q, reminder, reminder.ID); err != nil {
		return planner.Reminder{}, err
	}
	return reminder, nil
}

func (repo *plannerRepository) DeleteReminder(ctx context.Context, id string) error {
	return repo.delete(ctx, "reminder", "reminders", id)
}

// Profile

func (repo *plannerRepository) GetProfile(ctx context.Context) (planner.Profile, error) {
	var profile planner.Profile
	if err := repo.db.GetContext(ctx, &profile, "SELECT "+profileColumns+" FROM profile WHERE id = 1"); err != nil {
		if err == sql.ErrNoRows {
			return planner.Profile{}, errors.Wrap(planner.ErrNotFound, "profile")
		}
		return planner.Profile{}, errors.Wrap(err, "selecting profile")
	}
	return profile, nil
}

func (repo *plannerRepository) SaveProfile(ctx context.Context, profile planner.Profile) (planner.Profile, error) {
	if _, err := repo.db.NamedExecContext(ctx, upsertProfile, profile); err != nil {
		return planner.Profile{}, errors.Wrap(err, "saving profile")
	}
	return profile, nil
}

// Snapshots

// Snapshot reads every table within a single read-only transaction.
func (repo *plannerRepository) Snapshot(ctx context.Context) (planner.Snapshot, error) {
	snap := planner.Snapshot{
		Courses:     make([]planner.Course, 0),
		Grades:      make([]planner.Grade, 0),
		Assignments: make([]planner.Assignment, 0),
		Schedule:    make([]planner.ScheduleEntry, 0),
		Reminders:   make([]planner.Reminder, 0),
	}

	tx, err := repo.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return planner.Snapshot{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	selects := []struct {
		dest  interface{}
		query string
	}{
		{&snap.Courses, "SELECT " + courseColumns + " FROM courses ORDER BY seq"},
		{&snap.Grades, "SELECT " + gradeColumns + " FROM grades ORDER BY seq"},
		{&snap.Assignments, "SELECT " + assignmentColumns + " FROM assignments ORDER BY seq"},
		{&snap.Schedule, "SELECT " + scheduleColumns + " FROM schedule_entries ORDER BY seq"},
		{&snap.Reminders, "SELECT " + reminderColumns + " FROM reminders ORDER BY seq"},
	}
	for _, s := range selects {
		if err = tx.SelectContext(ctx, s.dest, s.query); err != nil {
			return planner.Snapshot{}, errors.Wrap(err, "selecting snapshot")
		}
	}

	var profile planner.Profile
	switch err = tx.GetContext(ctx, &profile, "SELECT "+profileColumns+" FROM profile WHERE id = 1"); err {
	case nil:
		snap.Profile = &profile
	case sql.ErrNoRows: // no profile yet
	default:
		return planner.Snapshot{}, errors.Wrap(err, "selecting profile")
	}
	return snap, nil
}

// Restore replaces every table's content within a single transaction.
func (repo *plannerRepository) Restore(ctx context.Context, snap planner.Snapshot) error {
	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"TRUNCATE courses, grades, assignments, schedule_entries, reminders, profile RESTART IDENTITY"); err != nil {
			return errors.Wrap(err, "truncating tables")
		}

		inserts := make([]namedQuery, 0)
		add := func(q string, arg interface{}) { inserts = append(inserts, namedQuery{q, arg}) }
		for _, c := range snap.Courses {
			add(insertCourse, c)
		}
		for _, g := range snap.Grades {
			add(insertGrade, g)
		}
		for _, a := range snap.Assignments {
			add(insertAssignment, a)
		}
		for _, s := range snap.Schedule {
			add(insertScheduleEntry, s)
		}
		for _, r := range snap.Reminders {
			add(insertReminder, r)
		}
		if snap.Profile != nil {
			add(upsertProfile, *snap.Profile)
		}

		for _, ins := range inserts {
			if _, err := tx.NamedExecContext(ctx, ins.query, ins.arg); err != nil {
				return errors.Wrap(err, "restoring snapshot")
			}
		}
		return nil
	})
}
