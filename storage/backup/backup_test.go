package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyplan/core/planner"
)

func testSnapshot() planner.Snapshot {
	date := time.Date(2024, 2, 29, 13, 45, 0, 0, time.UTC)
	return planner.Snapshot{
		Courses: []planner.Course{
			{ID: "c1", Name: "Physics", Code: "PHY101", Credits: 4, Color: "#14B8A6", Instructor: null.StringFrom("Dr. Curie"), Semester: "Spring 2024"},
			{ID: "c2", Name: "History", Code: "HIS200", Credits: 2, Color: "#3B82F6", Semester: "Spring 2024"},
		},
		Grades: []planner.Grade{
			{ID: "g1", CourseID: "c1", AssignmentName: "Midterm", Grade: 42.5, MaxPoints: 50, Weight: 0.4, Category: planner.GradeExam, Date: date},
		},
		Assignments: []planner.Assignment{
			{ID: "a1", CourseID: "c2", Title: "Essay", DueDate: date, Priority: planner.PriorityHigh, Status: planner.StatusInProgress, Category: planner.AssignmentProject},
		},
		Schedule: []planner.ScheduleEntry{
			{ID: "s1", CourseID: "c1", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30", Location: null.StringFrom("Hall A"), Type: planner.ClassLecture},
		},
		Reminders: []planner.Reminder{
			{ID: "r1", Title: "Essay due", Date: date, Type: planner.ReminderAssignment, AssignmentID: null.StringFrom("a1")},
			{ID: "r2", Title: "Call home", Description: null.StringFrom("sunday"), Date: date, Type: planner.ReminderPersonal, IsCompleted: true},
		},
		Profile: &planner.Profile{Name: "Ada", Email: "ada@test.test", CurrentSemester: "Spring 2024", GPATarget: null.Float64From(3.8)},
	}
}

func TestEncodeDecode(t *testing.T) {
	exported := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return exported }
	defer func() { NowFunc = time.Now }()

	for _, format := range []Format{JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			snap := testSnapshot()
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, NewDocument(snap), format))

			doc, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, Version, doc.Version)
			assert.True(t, exported.Equal(doc.ExportDate))
			assert.Equal(t, snap, doc.Snapshot())
		})
	}
}

func TestEncode_emptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewDocument(planner.Snapshot{}), JSON))
	out := buf.String()
	for _, key := range []string{`"courses": []`, `"grades": []`, `"assignments": []`, `"schedule": []`, `"reminders": []`} {
		assert.Contains(t, out, key)
	}
	assert.NotContains(t, out, `"profile"`)

	doc, err := Decode(strings.NewReader(out), JSON)
	require.NoError(t, err)
	snap := doc.Snapshot()
	assert.NotNil(t, snap.Courses)
	assert.Nil(t, snap.Profile)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		format  Format
		wantErr error
	}{
		{name: "no version", in: `{"courses": [{"id": "c1", "name": "Physics"}]}`, format: JSON},
		{name: "minor version", in: `{"version": "1.3"}`, format: JSON},
		{name: "yaml", in: "version: \"1.0\"\ncourses:\n  - id: c1\n    name: Physics\n", format: YAML},
		{name: "unsupported version", in: `{"version": "2.0"}`, format: JSON, wantErr: errUnsupportedVersion},
		{name: "unknown format", in: `{}`, format: "xml", wantErr: errUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in), tt.format)
			if errors.Cause(err) != tt.wantErr {
				t.Errorf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Decode(strings.NewReader(`{"courses": 12`), JSON); err == nil {
		t.Error("Decode() of malformed json should fail")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: JSON},
		{in: "json", want: JSON},
		{in: " JSON ", want: JSON},
		{in: "yaml", want: YAML},
		{in: "YML", want: YAML},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "backup.json", want: JSON},
		{path: "/tmp/backup.YAML", want: YAML},
		{path: "backup.yml", want: YAML},
		{path: "backup", want: JSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	assert.Equal(t, "application/yaml", YAML.ContentType())
	assert.Equal(t, "application/json", JSON.ContentType())
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{DefaultFileName, "backup.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			snap := testSnapshot()
			require.NoError(t, WriteFile(path, snap))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, snap, got)

			// overwrite
			snap.Courses = snap.Courses[:1]
			require.NoError(t, WriteFile(path, snap))
			got, err = ReadFile(path)
			require.NoError(t, err)
			assert.Len(t, got.Courses, 1)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files must be cleaned up")

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
