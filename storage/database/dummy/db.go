package dummydb

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core/planner"
	"github.com/trezcool/studyplan/storage/backup"
)

// DB keeps the planner collections in memory, in insertion order.
// When opened with OpenFile, every committed change is written back to the file.
type DB struct {
	sync.RWMutex

	courses     []planner.Course
	grades      []planner.Grade
	assignments []planner.Assignment
	schedule    []planner.ScheduleEntry
	reminders   []planner.Reminder
	profile     *planner.Profile

	path string
}

func Open() (*DB, error) {
	return &DB{}, nil
}

// OpenFile opens a DB backed by the backup file at path, loading it if it exists.
func OpenFile(path string) (*DB, error) {
	db := &DB{path: path}
	snap, err := backup.ReadFile(path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return db, nil
		}
		return nil, errors.Wrap(err, "loading backup")
	}
	db.restore(snap)
	return db, nil
}

// snapshot copies the collections; the caller must hold the lock.
func (db *DB) snapshot() planner.Snapshot {
	snap := planner.Snapshot{
		Courses:     append([]planner.Course{}, db.courses...),
		Grades:      append([]planner.Grade{}, db.grades...),
		Assignments: append([]planner.Assignment{}, db.assignments...),
		Schedule:    append([]planner.ScheduleEntry{}, db.schedule...),
		Reminders:   append([]planner.Reminder{}, db.reminders...),
	}
	if db.profile != nil {
		p := *db.profile
		snap.Profile = &p
	}
	return snap
}

// restore replaces the collections with copies of snap's; the caller must hold the lock.
func (db *DB) restore(snap planner.Snapshot) {
	db.courses = append([]planner.Course{}, snap.Courses...)
	db.grades = append([]planner.Grade{}, snap.Grades...)
	db.assignments = append([]planner.Assignment{}, snap.Assignments...)
	db.schedule = append([]planner.ScheduleEntry{}, snap.Schedule...)
	db.reminders = append([]planner.Reminder{}, snap.Reminders...)
	db.profile = nil
	if snap.Profile != nil {
		p := *snap.Profile
		db.profile = &p
	}
}

// apply runs change and commits it. When the commit fails, the collections are rolled back
// so memory never holds what the file refused. The caller must hold the lock.
func (db *DB) apply(change func()) error {
	if db.path == "" {
		change()
		return nil
	}
	prev := db.snapshot()
	change()
	if err := db.commit(); err != nil {
		db.restore(prev)
		return err
	}
	return nil
}

// commit writes the collections to the backing file, if any; the caller must hold the lock.
func (db *DB) commit() error {
	if db.path == "" {
		return nil
	}
	return errors.Wrap(backup.WriteFile(db.path, db.snapshot()), "saving backup")
}
