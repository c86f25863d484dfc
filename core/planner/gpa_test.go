package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeGPA(t *testing.T) {
	courses := []Course{
		{ID: "phy", Name: "Physics", Credits: 4},
		{ID: "his", Name: "History", Credits: 2},
		{ID: "art", Name: "Art", Credits: 1},
	}

	tests := []struct {
		name   string
		grades []Grade
		want   GPACalculation
	}{
		{
			name:   "no grades",
			grades: nil,
			want:   GPACalculation{Courses: []CourseGPA{}},
		},
		{
			name:   "single grade",
			grades: []Grade{{CourseID: "phy", Grade: 90, MaxPoints: 100, Weight: 1}},
			want: GPACalculation{
				Overall: 3.3, Semester: 3.3,
				Courses: []CourseGPA{{CourseID: "phy", GPA: 3.3, LetterGrade: "A-"}},
			},
		},
		{
			name: "weighted within a course",
			grades: []Grade{
				{CourseID: "phy", Grade: 50, MaxPoints: 50, Weight: 3}, // 100%
				{CourseID: "phy", Grade: 8, MaxPoints: 10, Weight: 1},  // 80%
			},
			// (1*3 + 0.8*1) / 4 = 95%
			want: GPACalculation{
				Overall: 3.7, Semester: 3.7,
				Courses: []CourseGPA{{CourseID: "phy", GPA: 3.7, LetterGrade: "A"}},
			},
		},
		{
			name: "credit weighted across courses",
			grades: []Grade{
				{CourseID: "his", Grade: 85, MaxPoints: 100, Weight: 1},
				{CourseID: "phy", Grade: 100, MaxPoints: 100, Weight: 1},
			},
			// (2.7*2 + 4.0*4) / 6 = 3.5666..
			want: GPACalculation{
				Overall: 3.57, Semester: 3.57,
				Courses: []CourseGPA{
					{CourseID: "his", GPA: 2.7, LetterGrade: "B"},
					{CourseID: "phy", GPA: 4.0, LetterGrade: "A+"},
				},
			},
		},
		{
			name: "unknown course & non-positive max points are ignored",
			grades: []Grade{
				{CourseID: "ghost", Grade: 10, MaxPoints: 100, Weight: 1},
				{CourseID: "art", Grade: 10, MaxPoints: 0, Weight: 1},
				{CourseID: "art", Grade: 10, MaxPoints: -10, Weight: 1},
				{CourseID: "his", Grade: 95, MaxPoints: 100, Weight: 1},
			},
			want: GPACalculation{
				Overall: 3.7, Semester: 3.7,
				Courses: []CourseGPA{{CourseID: "his", GPA: 3.7, LetterGrade: "A"}},
			},
		},
		{
			name: "zero total weight",
			grades: []Grade{
				{CourseID: "art", Grade: 100, MaxPoints: 100, Weight: 0},
			},
			want: GPACalculation{
				Overall: 0, Semester: 0,
				Courses: []CourseGPA{{CourseID: "art", GPA: 0, LetterGrade: "F"}},
			},
		},
		{
			name: "extra credit",
			grades: []Grade{
				{CourseID: "art", Grade: 110, MaxPoints: 100, Weight: 1},
			},
			want: GPACalculation{
				Overall: 4.0, Semester: 4.0,
				Courses: []CourseGPA{{CourseID: "art", GPA: 4.0, LetterGrade: "A+"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeGPA(tt.grades, courses)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeGPA_deterministic(t *testing.T) {
	courses := []Course{{ID: "a", Credits: 3}, {ID: "b", Credits: 1}}
	grades := []Grade{
		{CourseID: "b", Grade: 7, MaxPoints: 10, Weight: 1},
		{CourseID: "a", Grade: 8, MaxPoints: 10, Weight: 2},
		{CourseID: "b", Grade: 9, MaxPoints: 10, Weight: 1},
	}
	first := ComputeGPA(grades, courses)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeGPA(grades, courses))
	}
	assert.Equal(t, "b", first.Courses[0].CourseID)
	assert.Equal(t, "a", first.Courses[1].CourseID)
}

func TestGPACalculation_Course(t *testing.T) {
	calc := GPACalculation{Courses: []CourseGPA{{CourseID: "a", GPA: 3.3, LetterGrade: "A-"}}}
	assert.Equal(t, CourseGPA{CourseID: "a", GPA: 3.3, LetterGrade: "A-"}, calc.Course("a"))
	assert.Equal(t, CourseGPA{CourseID: "b", LetterGrade: NoLetterGrade}, calc.Course("b"))
}
