package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
	"github.com/trezcool/studyplan/services/email"
	"github.com/trezcool/studyplan/services/logger"
	"github.com/trezcool/studyplan/storage/database"
	"github.com/trezcool/studyplan/storage/database/dummy"
)

// DatabaseURLEnv names the database the postgres tests run against; they are skipped when it is unset.
const DatabaseURLEnv = "STUDYPLAN_TEST_DATABASE_URL"

// NewConfig returns the config shared by tests.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:         "StudyPlan",
		FromEmail:       "noreply@test.test",
		ReminderHorizon: 48 * time.Hour,
	}
}

// NewService returns a service over an empty in-memory store, sending emails through the mock.
func NewService(t *testing.T, conf *core.Config) (*planner.Service, planner.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewPlannerRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logsvc.NewZeroLogger(zerolog.Nop()))
	return planner.NewService(repo, mailSvc, conf), repo
}

// PrepareDB connects to the test database and migrates it.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv(DatabaseURLEnv)
	if url == "" {
		t.Skip(DatabaseURLEnv + " not set")
	}
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		t.Fatalf("sqlx.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

func CreateCourse(t *testing.T, svc *planner.Service, name, code string, credits int) planner.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), planner.NewCourse{
		Name:     name,
		Code:     code,
		Credits:  credits,
		Semester: "Fall",
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func CreateGrade(t *testing.T, svc *planner.Service, courseID string, grade, maxPoints, weight float64) planner.Grade {
	t.Helper()
	g, err := svc.CreateGrade(context.Background(), planner.NewGrade{
		CourseID:       courseID,
		AssignmentName: "Graded work",
		Grade:          grade,
		MaxPoints:      maxPoints,
		Weight:         weight,
		Category:       planner.GradeExam,
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return g
}
