package echoapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyplan/core/planner"
)

func createCourse(t *testing.T, repo planner.Repository, name string, credits int) planner.Course {
	course, err := repo.CreateCourse(context.Background(), planner.Course{
		Name:     name,
		Code:     name[:3],
		Credits:  credits,
		Color:    "#3b82f6",
		Semester: "Fall 2024",
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func Test_plannerApi_courses(t *testing.T) {
	server, repo := setup(t)
	course := createCourse(t, repo, "Physics", 4)

	tests := []httpTest{
		{name: "list", path: "/v1/courses", wantCode: http.StatusOK, wantData: marshalObj(t, []planner.Course{course})},
		{name: "retrieve", path: "/v1/courses/" + course.ID, wantCode: http.StatusOK, wantData: marshalObj(t, course)},
		{
			name: "retrieve unknown", path: "/v1/courses/lol", wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: `course "lol": not found`}),
		},
		{
			name: "create: missing fields", method: http.MethodPost, path: "/v1/courses", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"name":     "this field is required",
				"code":     "this field is required",
				"credits":  "this field is required",
				"semester": "this field is required",
			}),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/v1/courses/lol", body: []byte(`{"credits": 2}`),
			wantCode: http.StatusNotFound,
		},
		{name: "delete unknown", method: http.MethodDelete, path: "/v1/courses/lol", wantCode: http.StatusNotFound},
	}
	runHTTPTests(t, server, tests)

	t.Run("create assigns a color", func(t *testing.T) {
		var created planner.Course
		code := serve(t, server, http.MethodPost, "/v1/courses", map[string]interface{}{
			"name": "  Calculus I ", "code": "MATH101", "credits": 3, "semester": "Fall 2024",
		}, &created)
		require.Equal(t, http.StatusCreated, code)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Calculus I", created.Name)
		assert.Equal(t, "#6366F1", created.Color)
		assert.False(t, created.Instructor.Valid)
	})

	t.Run("create rejects bad color", func(t *testing.T) {
		var errs map[string]string
		code := serve(t, server, http.MethodPost, "/v1/courses", map[string]interface{}{
			"name": "Art", "code": "ART1", "credits": 1, "semester": "Fall 2024", "color": "lol",
		}, &errs)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, errs, "color")
	})

	t.Run("update", func(t *testing.T) {
		var updated planner.Course
		code := serve(t, server, http.MethodPut, "/v1/courses/"+course.ID, map[string]interface{}{
			"credits": 5, "instructor": "Dr. Curie",
		}, &updated)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, 5, updated.Credits)
		assert.Equal(t, null.StringFrom("Dr. Curie"), updated.Instructor)
		assert.Equal(t, course.Name, updated.Name)
	})
}

func Test_plannerApi_deleteCourseCascades(t *testing.T) {
	server, repo := setup(t)
	ctx := context.Background()
	course := createCourse(t, repo, "Physics", 4)
	other := createCourse(t, repo, "History", 2)

	var grade planner.Grade
	code := serve(t, server, http.MethodPost, "/v1/grades", map[string]interface{}{
		"courseId": course.ID, "assignmentName": "Midterm", "grade": 45, "maxPoints": 50, "weight": 1,
		"category": "exam", "date": "2024-03-01T10:00:00Z",
	}, &grade)
	require.Equal(t, http.StatusCreated, code)

	code = serve(t, server, http.MethodPost, "/v1/assignments", map[string]interface{}{
		"courseId": course.ID, "title": "Lab report", "dueDate": "2024-03-10T23:59:00Z",
		"priority": "high", "category": "homework",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	code = serve(t, server, http.MethodPost, "/v1/schedule", map[string]interface{}{
		"courseId": course.ID, "dayOfWeek": 1, "startTime": "09:00", "endTime": "10:30", "type": "lecture",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	code = serve(t, server, http.MethodPost, "/v1/schedule", map[string]interface{}{
		"courseId": other.ID, "dayOfWeek": 2, "startTime": "14:00", "endTime": "15:00", "type": "seminar",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	code = serve(t, server, http.MethodPost, "/v1/reminders", map[string]interface{}{
		"title": "Buy lab coat", "date": "2024-03-05T08:00:00Z", "type": "personal",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	code = serve(t, server, http.MethodDelete, "/v1/courses/"+course.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Courses, 1)
	assert.Empty(t, snap.Grades)
	assert.Empty(t, snap.Assignments)
	assert.Len(t, snap.Schedule, 1)
	assert.Equal(t, other.ID, snap.Schedule[0].CourseID)
	assert.Len(t, snap.Reminders, 1)
}

func Test_plannerApi_grades(t *testing.T) {
	server, repo := setup(t)
	course := createCourse(t, repo, "Physics", 4)

	tests := []httpTest{
		{
			name: "unknown course", method: http.MethodPost, path: "/v1/grades",
			body: marshalObj(t, map[string]interface{}{
				"courseId": "lol", "assignmentName": "Quiz 1", "grade": 9, "maxPoints": 10, "weight": 1,
				"category": "quiz", "date": "2024-03-01T10:00:00Z",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"courseId": "course does not exist"}),
		},
		{
			name: "non-positive maxPoints", method: http.MethodPost, path: "/v1/grades",
			body: marshalObj(t, map[string]interface{}{
				"courseId": course.ID, "assignmentName": "Quiz 1", "grade": 9, "maxPoints": 0, "weight": 1,
				"category": "quiz", "date": "2024-03-01T10:00:00Z",
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bad category", method: http.MethodPost, path: "/v1/grades",
			body: marshalObj(t, map[string]interface{}{
				"courseId": course.ID, "assignmentName": "Quiz 1", "grade": 9, "maxPoints": 10, "weight": 1,
				"category": "lol", "date": "2024-03-01T10:00:00Z",
			}),
			wantCode: http.StatusBadRequest,
		},
		{name: "empty list", path: "/v1/grades", wantCode: http.StatusOK, wantData: []byte(`[]`)},
	}
	runHTTPTests(t, server, tests)

	var grade planner.Grade
	code := serve(t, server, http.MethodPost, "/v1/grades", map[string]interface{}{
		"courseId": course.ID, "assignmentName": "Quiz 1", "grade": 9, "maxPoints": 10, "weight": 0.5,
		"category": "quiz", "date": "2024-03-01T10:00:00Z",
	}, &grade)
	require.Equal(t, http.StatusCreated, code)

	var grades []planner.Grade
	code = serve(t, server, http.MethodGet, "/v1/grades?courseId="+course.ID, nil, &grades)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, grades, 1)
	assert.Equal(t, grade.ID, grades[0].ID)

	code = serve(t, server, http.MethodGet, "/v1/grades?courseId=lol", nil, &grades)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, grades)

	var updated planner.Grade
	code = serve(t, server, http.MethodPut, "/v1/grades/"+grade.ID, map[string]interface{}{"grade": 10}, &updated)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 10.0, updated.Grade)
	assert.Equal(t, 0.5, updated.Weight)

	code = serve(t, server, http.MethodPut, "/v1/grades/"+grade.ID, map[string]interface{}{"courseId": "lol"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func Test_plannerApi_gpa(t *testing.T) {
	server, repo := setup(t)
	ctx := context.Background()
	physics := createCourse(t, repo, "Physics", 3)
	history := createCourse(t, repo, "History", 1)

	grades := []planner.Grade{
		{CourseID: physics.ID, AssignmentName: "Final", Grade: 98, MaxPoints: 100, Weight: 1, Category: planner.GradeExam},
		{CourseID: history.ID, AssignmentName: "Essay", Grade: 50, MaxPoints: 100, Weight: 1, Category: planner.GradeProject},
		{CourseID: "ghost", AssignmentName: "Lost", Grade: 100, MaxPoints: 100, Weight: 1, Category: planner.GradeQuiz},
	}
	for _, g := range grades {
		if _, err := repo.CreateGrade(ctx, g); err != nil {
			t.Fatalf("CreateGrade() failed: %v", err)
		}
	}

	want := planner.GPACalculation{
		Overall:  3.0,
		Semester: 3.0,
		Courses: []planner.CourseGPA{
			{CourseID: physics.ID, GPA: 4.0, LetterGrade: "A+"},
			{CourseID: history.ID, GPA: 0.0, LetterGrade: "F"},
		},
	}
	runHTTPTests(t, server, []httpTest{
		{name: "credit weighted", path: "/v1/gpa", wantCode: http.StatusOK, wantData: marshalObj(t, want)},
	})
}

func Test_plannerApi_schedule(t *testing.T) {
	server, repo := setup(t)
	course := createCourse(t, repo, "Physics", 3)

	tests := []httpTest{
		{
			name: "end before start", method: http.MethodPost, path: "/v1/schedule",
			body: marshalObj(t, map[string]interface{}{
				"courseId": course.ID, "dayOfWeek": 1, "startTime": "11:00", "endTime": "10:00", "type": "lab",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"endTime": "end time must be after start time"}),
		},
		{
			name: "bad clock", method: http.MethodPost, path: "/v1/schedule",
			body: marshalObj(t, map[string]interface{}{
				"courseId": course.ID, "dayOfWeek": 1, "startTime": "9am", "endTime": "10:00", "type": "lab",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"startTime": "must be a wall-clock time in HH:MM format"}),
		},
		{
			name: "bad day", method: http.MethodPost, path: "/v1/schedule",
			body: marshalObj(t, map[string]interface{}{
				"courseId": course.ID, "dayOfWeek": 7, "startTime": "09:00", "endTime": "10:00", "type": "lab",
			}),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, server, tests)

	entries := []map[string]interface{}{
		{"courseId": course.ID, "dayOfWeek": 1, "startTime": "13:00", "endTime": "14:30", "type": "lab", "location": "Lab 2"},
		{"courseId": course.ID, "dayOfWeek": 1, "startTime": "09:00", "endTime": "10:00", "type": "lecture", "location": "Hall A"},
		{"courseId": course.ID, "dayOfWeek": 3, "startTime": "09:00", "endTime": "10:00", "type": "lecture", "location": "Hall A"},
	}
	for _, e := range entries {
		require.Equal(t, http.StatusCreated, serve(t, server, http.MethodPost, "/v1/schedule", e, nil))
	}

	var week struct {
		Days []struct {
			DayOfWeek int                     `json:"dayOfWeek"`
			Entries   []planner.ScheduleEntry `json:"entries"`
		} `json:"days"`
		WeeklyHours float64  `json:"weeklyHours"`
		Locations   []string `json:"locations"`
	}
	code := serve(t, server, http.MethodGet, "/v1/schedule/week", nil, &week)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, week.Days, 7)
	require.Len(t, week.Days[1].Entries, 2)
	assert.Equal(t, "09:00", week.Days[1].Entries[0].StartTime)
	assert.Equal(t, "13:00", week.Days[1].Entries[1].StartTime)
	assert.Empty(t, week.Days[0].Entries)
	assert.Equal(t, 3.5, week.WeeklyHours)
	assert.Equal(t, []string{"Lab 2", "Hall A"}, week.Locations)

	var errData map[string]string
	code = serve(t, server, http.MethodPut, "/v1/schedule/"+week.Days[3].Entries[0].ID, map[string]interface{}{
		"endTime": "08:00",
	}, &errData)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]string{"endTime": "end time must be after start time"}, errData)
}

func Test_plannerApi_calendar(t *testing.T) {
	server, repo := setup(t)
	ctx := context.Background()
	course := createCourse(t, repo, "Physics", 3)

	_, err := repo.CreateScheduleEntry(ctx, planner.ScheduleEntry{
		CourseID: course.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", Type: planner.ClassLecture,
	})
	require.NoError(t, err)
	_, err = repo.CreateAssignment(ctx, planner.Assignment{
		CourseID: course.ID, Title: "Essay", DueDate: time.Date(2024, 5, 20, 12, 0, 0, 0, time.Local),
		Priority: planner.PriorityLow, Status: planner.StatusPending, Category: planner.AssignmentHomework,
	})
	require.NoError(t, err)
	_, err = repo.CreateReminder(ctx, planner.Reminder{
		Title: "Exam prep", Date: time.Date(2024, 1, 8, 8, 0, 0, 0, time.Local), Type: planner.ReminderExam,
	})
	require.NoError(t, err)

	runHTTPTests(t, server, []httpTest{
		{
			name: "bad month", path: "/v1/calendar?year=2024&month=13", wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"month": "must be between 1 and 12"}),
		},
		{
			name: "bad date", path: "/v1/calendar/day?date=lol", wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"date": "must be a date in YYYY-MM-DD format"}),
		},
	})

	var events []planner.CalendarEvent
	code := serve(t, server, http.MethodGet, "/v1/calendar?year=2024&month=1", nil, &events)
	require.Equal(t, http.StatusOK, code)

	var classes, assignments, reminders int
	for _, e := range events {
		switch e.Type {
		case planner.EventClass:
			classes++
			assert.Equal(t, time.Monday, e.Start.In(time.Local).Weekday())
		case planner.EventAssignment:
			assignments++
		case planner.EventEvent:
			reminders++
			assert.Equal(t, planner.ReminderColorExam, e.Color)
		}
	}
	assert.Equal(t, 5, classes) // January 2024 has 5 Mondays
	assert.Equal(t, 1, assignments)
	assert.Equal(t, 1, reminders)

	code = serve(t, server, http.MethodGet, "/v1/calendar/day?date=2024-01-08", nil, &events)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, events, 2)
	assert.Equal(t, planner.EventEvent, events[0].Type) // 08:00 reminder
	assert.Equal(t, planner.EventClass, events[1].Type) // 09:00 class
	assert.Equal(t, "Physics", events[1].Title)
}

func Test_plannerApi_dashboard(t *testing.T) {
	server, repo := setup(t)
	ctx := context.Background()
	course := createCourse(t, repo, "Physics", 3)

	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local) // a Monday
	planner.NowFunc = func() time.Time { return now }
	defer func() { planner.NowFunc = time.Now }()

	assignments := []planner.Assignment{
		{Title: "late", DueDate: now.Add(-time.Hour), Status: planner.StatusPending},
		{Title: "done", DueDate: now.Add(time.Hour), Status: planner.StatusCompleted},
		{Title: "next", DueDate: now.Add(2 * time.Hour), Status: planner.StatusInProgress},
		{Title: "soon", DueDate: now.Add(time.Hour), Status: planner.StatusPending},
	}
	for _, a := range assignments {
		a.CourseID = course.ID
		a.Priority = planner.PriorityMedium
		a.Category = planner.AssignmentHomework
		_, err := repo.CreateAssignment(ctx, a)
		require.NoError(t, err)
	}
	_, err := repo.CreateScheduleEntry(ctx, planner.ScheduleEntry{
		CourseID: course.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", Type: planner.ClassLecture,
	})
	require.NoError(t, err)

	var dash planner.Dashboard
	code := serve(t, server, http.MethodGet, "/v1/dashboard", nil, &dash)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, dash.CourseCount)
	assert.Equal(t, 2, dash.PendingCount)
	assert.Equal(t, 1, dash.CompletedCount)
	require.Len(t, dash.UpcomingAssignments, 2)
	assert.Equal(t, "soon", dash.UpcomingAssignments[0].Title)
	assert.Equal(t, "next", dash.UpcomingAssignments[1].Title)
	require.Len(t, dash.OverdueAssignments, 1)
	assert.Equal(t, "late", dash.OverdueAssignments[0].Title)
	assert.Len(t, dash.TodaySchedule, 1)
}

func Test_plannerApi_profile(t *testing.T) {
	server, _ := setup(t)

	runHTTPTests(t, server, []httpTest{
		{
			name: "empty", path: "/v1/profile", wantCode: http.StatusOK,
			wantData: []byte(`{"name": "", "email": "", "currentSemester": "", "gpaTarget": null}`),
		},
		{
			name: "bad target", method: http.MethodPut, path: "/v1/profile",
			body: []byte(`{"name": "Ada", "gpaTarget": 5}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "update", method: http.MethodPut, path: "/v1/profile",
			body:     []byte(`{"name": " Ada ", "email": "ADA@test.test", "currentSemester": "Fall 2024", "gpaTarget": 3.5}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"name": "Ada", "email": "ada@test.test", "currentSemester": "Fall 2024", "gpaTarget": 3.5}`),
		},
		{
			name: "retrieve", path: "/v1/profile", wantCode: http.StatusOK,
			wantData: []byte(`{"name": "Ada", "email": "ada@test.test", "currentSemester": "Fall 2024", "gpaTarget": 3.5}`),
		},
	})
}

func Test_plannerApi_exportImport(t *testing.T) {
	server, repo := setup(t)
	ctx := context.Background()
	course := createCourse(t, repo, "Physics", 3)
	_, err := repo.CreateGrade(ctx, planner.Grade{
		CourseID: course.ID, AssignmentName: "Final", Grade: 88, MaxPoints: 100, Weight: 1,
		Category: planner.GradeExam, Date: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = repo.CreateReminder(ctx, planner.Reminder{
		Title: "Return books", Date: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), Type: planner.ReminderPersonal,
		Description: null.StringFrom("library"),
	})
	require.NoError(t, err)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/v1/export?format="+format)
			server.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "student-data-backup."+format)

			other, otherRepo := setup(t)
			req, rec2 := newRequest(http.MethodPost, "/v1/import?format="+format, rec.Body.Bytes())
			other.ServeHTTP(rec2, req)
			require.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusOK,
				wantData: []byte(`{"courses": 1, "grades": 1, "assignments": 0, "schedule": 0, "reminders": 1}`),
			}, rec2)

			want, err := repo.Snapshot(ctx)
			require.NoError(t, err)
			got, err := otherRepo.Snapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, want.Courses, got.Courses)
			assert.Equal(t, planner.ComputeGPA(want.Grades, want.Courses), planner.ComputeGPA(got.Grades, got.Courses))
			require.Len(t, got.Reminders, 1)
			assert.True(t, want.Reminders[0].Date.Equal(got.Reminders[0].Date))
			assert.Equal(t, want.Reminders[0].Description, got.Reminders[0].Description)
		})
	}

	runHTTPTests(t, server, []httpTest{
		{name: "bad export format", path: "/v1/export?format=xml", wantCode: http.StatusBadRequest},
		{
			name: "duplicate ids", method: http.MethodPost, path: "/v1/import",
			body:     []byte(`{"version": "1.0", "courses": [{"id": "a", "name": "A"}, {"id": "a", "name": "B"}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"courses": `"a": duplicate id`}),
		},
		{
			name: "unsupported version", method: http.MethodPost, path: "/v1/import",
			body: []byte(`{"version": "2.0"}`), wantCode: http.StatusBadRequest,
		},
	})
}
