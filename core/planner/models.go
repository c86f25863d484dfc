package planner

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyplan/core"
)

type (
	GradeCategory      string
	AssignmentPriority string
	AssignmentStatus   string
	AssignmentCategory string
	ClassType          string
	ReminderType       string
	EventType          string
)

// Grade categories
const (
	GradeExam          GradeCategory = "exam"
	GradeHomework      GradeCategory = "homework"
	GradeProject       GradeCategory = "project"
	GradeQuiz          GradeCategory = "quiz"
	GradeParticipation GradeCategory = "participation"
)

// Assignment priorities, statuses & categories
const (
	PriorityLow    AssignmentPriority = "low"
	PriorityMedium AssignmentPriority = "medium"
	PriorityHigh   AssignmentPriority = "high"

	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in-progress"
	StatusCompleted  AssignmentStatus = "completed"

	AssignmentHomework AssignmentCategory = "homework"
	AssignmentProject  AssignmentCategory = "project"
	AssignmentExam     AssignmentCategory = "exam"
	AssignmentQuiz     AssignmentCategory = "quiz"
	AssignmentReading  AssignmentCategory = "reading"
)

// Class types
const (
	ClassLecture  ClassType = "lecture"
	ClassLab      ClassType = "lab"
	ClassTutorial ClassType = "tutorial"
	ClassSeminar  ClassType = "seminar"
)

// Reminder types
const (
	ReminderAssignment ReminderType = "assignment"
	ReminderExam       ReminderType = "exam"
	ReminderEvent      ReminderType = "event"
	ReminderPersonal   ReminderType = "personal"
)

// Calendar event types
const (
	EventClass      EventType = "class"
	EventAssignment EventType = "assignment"
	EventExam       EventType = "exam"
	EventEvent      EventType = "event"
)

type Course struct {
	ID         string      `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	Code       string      `json:"code" db:"code"`
	Credits    int         `json:"credits" db:"credits"`
	Color      string      `json:"color" db:"color"`
	Instructor null.String `json:"instructor" db:"instructor"`
	Semester   string      `json:"semester" db:"semester"`
}

type Grade struct {
	ID             string        `json:"id" db:"id"`
	CourseID       string        `json:"courseId" db:"course_id"`
	AssignmentName string        `json:"assignmentName" db:"assignment_name"`
	Grade          float64       `json:"grade" db:"grade"`
	MaxPoints      float64       `json:"maxPoints" db:"max_points"`
	Weight         float64       `json:"weight" db:"weight"`
	Category       GradeCategory `json:"category" db:"category"`
	Date           time.Time     `json:"date" db:"date"`
}

type Assignment struct {
	ID          string             `json:"id" db:"id"`
	CourseID    string             `json:"courseId" db:"course_id"`
	Title       string             `json:"title" db:"title"`
	Description null.String        `json:"description" db:"description"`
	DueDate     time.Time          `json:"dueDate" db:"due_date"`
	Priority    AssignmentPriority `json:"priority" db:"priority"`
	Status      AssignmentStatus   `json:"status" db:"status"`
	Category    AssignmentCategory `json:"category" db:"category"`
}

// ScheduleEntry is a weekly-recurring class template.
type ScheduleEntry struct {
	ID        string      `json:"id" db:"id"`
	CourseID  string      `json:"courseId" db:"course_id"`
	DayOfWeek int         `json:"dayOfWeek" db:"day_of_week"` // 0-6 (Sunday-Saturday)
	StartTime string      `json:"startTime" db:"start_time"`  // HH:MM
	EndTime   string      `json:"endTime" db:"end_time"`      // HH:MM
	Location  null.String `json:"location" db:"location"`
	Type      ClassType   `json:"type" db:"type"`
}

type Reminder struct {
	ID           string       `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	Description  null.String  `json:"description" db:"description"`
	Date         time.Time    `json:"date" db:"date"`
	Type         ReminderType `json:"type" db:"type"`
	IsCompleted  bool         `json:"isCompleted" db:"is_completed"`
	AssignmentID null.String  `json:"assignmentId" db:"assignment_id"`
}

type Profile struct {
	Name            string       `json:"name" db:"name"`
	Email           string       `json:"email" db:"email"`
	CurrentSemester string       `json:"currentSemester" db:"current_semester"`
	GPATarget       null.Float64 `json:"gpaTarget" db:"gpa_target"`
}

// CalendarEvent is derived from courses, assignments, schedule entries & reminders; never stored.
type CalendarEvent struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Type     EventType   `json:"type"`
	CourseID null.String `json:"courseId"`
	Color    string      `json:"color"`
}

type CourseGPA struct {
	CourseID    string  `json:"courseId"`
	GPA         float64 `json:"gpa"`
	LetterGrade string  `json:"letterGrade"`
}

// GPACalculation is derived from grades & courses; never stored.
type GPACalculation struct {
	Overall float64 `json:"overall"`
	// Semester currently equals Overall: every course is assumed to belong to the current semester.
	Semester float64     `json:"semester"`
	Courses  []CourseGPA `json:"courses"`
}

// Course returns the figures of the given course, or a zero GPA with NoLetterGrade if it has no grades.
func (calc GPACalculation) Course(courseID string) CourseGPA {
	for _, c := range calc.Courses {
		if c.CourseID == courseID {
			return c
		}
	}
	return CourseGPA{CourseID: courseID, LetterGrade: NoLetterGrade}
}

// Snapshot holds every collection of the store at a point in time.
type Snapshot struct {
	Courses     []Course        `json:"courses"`
	Grades      []Grade         `json:"grades"`
	Assignments []Assignment    `json:"assignments"`
	Schedule    []ScheduleEntry `json:"schedule"`
	Reminders   []Reminder      `json:"reminders"`
	Profile     *Profile        `json:"profile"`
}

// Inputs

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name       string      `json:"name" validate:"required,notblank"`
	Code       string      `json:"code" validate:"required,notblank"`
	Credits    int         `json:"credits" validate:"required,min=1"`
	Color      string      `json:"color" validate:"omitempty,hexcolor"`
	Instructor null.String `json:"instructor"`
	Semester   string      `json:"semester" validate:"required,notblank"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Semester = core.CleanString(nc.Semester)
	nc.Color = core.CleanString(nc.Color, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name       *string      `json:"name" validate:"omitempty,notblank"`
	Code       *string      `json:"code" validate:"omitempty,notblank"`
	Credits    *int         `json:"credits" validate:"omitempty,min=1"`
	Color      *string      `json:"color" validate:"omitempty,hexcolor"`
	Instructor *null.String `json:"instructor"`
	Semester   *string      `json:"semester" validate:"omitempty,notblank"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	return validate.Struct(uc)
}

func (uc UpdateCourse) apply(c Course) Course {
	if uc.Name != nil {
		c.Name = core.CleanString(*uc.Name)
	}
	if uc.Code != nil {
		c.Code = core.CleanString(*uc.Code)
	}
	if uc.Credits != nil {
		c.Credits = *uc.Credits
	}
	if uc.Color != nil {
		c.Color = core.CleanString(*uc.Color, true /* lower */)
	}
	if uc.Instructor != nil {
		c.Instructor = *uc.Instructor
	}
	if uc.Semester != nil {
		c.Semester = core.CleanString(*uc.Semester)
	}
	return c
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	CourseID       string        `json:"courseId" validate:"required"`
	AssignmentName string        `json:"assignmentName" validate:"required,notblank"`
	Grade          float64       `json:"grade" validate:"gte=0"`
	MaxPoints      float64       `json:"maxPoints" validate:"gt=0"`
	Weight         float64       `json:"weight" validate:"gte=0"`
	Category       GradeCategory `json:"category" validate:"required,oneof=exam homework project quiz participation"`
	Date           time.Time     `json:"date" validate:"required"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.AssignmentName = core.CleanString(ng.AssignmentName)
	return validate.Struct(ng)
}

type UpdateGrade struct {
	CourseID       *string        `json:"courseId" validate:"omitempty,min=1"`
	AssignmentName *string        `json:"assignmentName" validate:"omitempty,notblank"`
	Grade          *float64       `json:"grade" validate:"omitempty,gte=0"`
	MaxPoints      *float64       `json:"maxPoints" validate:"omitempty,gt=0"`
	Weight         *float64       `json:"weight" validate:"omitempty,gte=0"`
	Category       *GradeCategory `json:"category" validate:"omitempty,oneof=exam homework project quiz participation"`
	Date           *time.Time     `json:"date"`
}

func (ug *UpdateGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(ug)
}

func (ug UpdateGrade) apply(g Grade) Grade {
	if ug.CourseID != nil {
		g.CourseID = *ug.CourseID
	}
	if ug.AssignmentName != nil {
		g.AssignmentName = core.CleanString(*ug.AssignmentName)
	}
	if ug.Grade != nil {
		g.Grade = *ug.Grade
	}
	if ug.MaxPoints != nil {
		g.MaxPoints = *ug.MaxPoints
	}
	if ug.Weight != nil {
		g.Weight = *ug.Weight
	}
	if ug.Category != nil {
		g.Category = *ug.Category
	}
	if ug.Date != nil {
		g.Date = *ug.Date
	}
	return g
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	CourseID    string             `json:"courseId" validate:"required"`
	Title       string             `json:"title" validate:"required,notblank"`
	Description null.String        `json:"description"`
	DueDate     time.Time          `json:"dueDate" validate:"required"`
	Priority    AssignmentPriority `json:"priority" validate:"required,oneof=low medium high"`
	Status      AssignmentStatus   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Category    AssignmentCategory `json:"category" validate:"required,oneof=homework project exam quiz reading"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	if na.Status == "" {
		na.Status = StatusPending
	}
	return validate.Struct(na)
}

type UpdateAssignment struct {
	CourseID    *string             `json:"courseId" validate:"omitempty,min=1"`
	Title       *string             `json:"title" validate:"omitempty,notblank"`
	Description *null.String        `json:"description"`
	DueDate     *time.Time          `json:"dueDate"`
	Priority    *AssignmentPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *AssignmentStatus   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Category    *AssignmentCategory `json:"category" validate:"omitempty,oneof=homework project exam quiz reading"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	return validate.Struct(ua)
}

func (ua UpdateAssignment) apply(a Assignment) Assignment {
	if ua.CourseID != nil {
		a.CourseID = *ua.CourseID
	}
	if ua.Title != nil {
		a.Title = core.CleanString(*ua.Title)
	}
	if ua.Description != nil {
		a.Description = *ua.Description
	}
	if ua.DueDate != nil {
		a.DueDate = *ua.DueDate
	}
	if ua.Priority != nil {
		a.Priority = *ua.Priority
	}
	if ua.Status != nil {
		a.Status = *ua.Status
	}
	if ua.Category != nil {
		a.Category = *ua.Category
	}
	return a
}

// NewScheduleEntry contains information needed to add a class to the weekly schedule.
type NewScheduleEntry struct {
	CourseID  string      `json:"courseId" validate:"required"`
	DayOfWeek int         `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string      `json:"startTime" validate:"required,clock"`
	EndTime   string      `json:"endTime" validate:"required,clock"`
	Location  null.String `json:"location"`
	Type      ClassType   `json:"type" validate:"required,oneof=lecture lab tutorial seminar"`
}

func (ns *NewScheduleEntry) Validate(validate *validator.Validate) error {
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	return validate.Struct(ns)
}

type UpdateScheduleEntry struct {
	CourseID  *string      `json:"courseId" validate:"omitempty,min=1"`
	DayOfWeek *int         `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
	StartTime *string      `json:"startTime" validate:"omitempty,clock"`
	EndTime   *string      `json:"endTime" validate:"omitempty,clock"`
	Location  *null.String `json:"location"`
	Type      *ClassType   `json:"type" validate:"omitempty,oneof=lecture lab tutorial seminar"`
}

func (us *UpdateScheduleEntry) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

func (us UpdateScheduleEntry) apply(s ScheduleEntry) ScheduleEntry {
	if us.CourseID != nil {
		s.CourseID = *us.CourseID
	}
	if us.DayOfWeek != nil {
		s.DayOfWeek = *us.DayOfWeek
	}
	if us.StartTime != nil {
		s.StartTime = core.CleanString(*us.StartTime)
	}
	if us.EndTime != nil {
		s.EndTime = core.CleanString(*us.EndTime)
	}
	if us.Location != nil {
		s.Location = *us.Location
	}
	if us.Type != nil {
		s.Type = *us.Type
	}
	return s
}

// NewReminder contains information needed to create a new Reminder.
type NewReminder struct {
	Title        string       `json:"title" validate:"required,notblank"`
	Description  null.String  `json:"description"`
	Date         time.Time    `json:"date" validate:"required"`
	Type         ReminderType `json:"type" validate:"required,oneof=assignment exam event personal"`
	AssignmentID null.String  `json:"assignmentId"`
}

func (nr *NewReminder) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	return validate.Struct(nr)
}

type UpdateReminder struct {
	Title        *string       `json:"title" validate:"omitempty,notblank"`
	Description  *null.String  `json:"description"`
	Date         *time.Time    `json:"date"`
	Type         *ReminderType `json:"type" validate:"omitempty,oneof=assignment exam event personal"`
	IsCompleted  *bool         `json:"isCompleted"`
	AssignmentID *null.String  `json:"assignmentId"`
}

func (ur *UpdateReminder) Validate(validate *validator.Validate) error {
	return validate.Struct(ur)
}

func (ur UpdateReminder) apply(r Reminder) Reminder {
	if ur.Title != nil {
		r.Title = core.CleanString(*ur.Title)
	}
	if ur.Description != nil {
		r.Description = *ur.Description
	}
	if ur.Date != nil {
		r.Date = *ur.Date
	}
	if ur.Type != nil {
		r.Type = *ur.Type
	}
	if ur.IsCompleted != nil {
		r.IsCompleted = *ur.IsCompleted
	}
	if ur.AssignmentID != nil {
		r.AssignmentID = *ur.AssignmentID
	}
	return r
}

type UpdateProfile struct {
	Name            string       `json:"name" validate:"required,notblank"`
	Email           string       `json:"email" validate:"omitempty,email"`
	CurrentSemester string       `json:"currentSemester"`
	GPATarget       null.Float64 `json:"gpaTarget" validate:"omitempty,gte=0,lte=4"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Email = core.CleanString(up.Email, true /* lower */)
	up.CurrentSemester = core.CleanString(up.CurrentSemester)
	return validate.Struct(up)
}
