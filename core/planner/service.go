package planner

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core"
)

var (
	// errors
	ErrNotFound = errors.New("not found")

	errUnknownCourse     = errors.New("course does not exist")
	errUnknownAssignment = errors.New("assignment does not exist")
	errMissingID         = errors.New("missing id")
	errDuplicateID       = errors.New("duplicate id")

	NowFunc = time.Now // mockable
)

const digestTemplate = "reminder_digest"

type (
	// Repository is the data-store owning the planner collections.
	// Create* methods assign a new id when the given one is empty.
	// DeleteCourse also deletes the grades, assignments & schedule entries of the course.
	Repository interface {
		QueryCourses(ctx context.Context) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		CreateCourse(ctx context.Context, course Course) (Course, error)
		UpdateCourse(ctx context.Context, course Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error

		QueryGrades(ctx context.Context) ([]Grade, error)
		GetGrade(ctx context.Context, id string) (Grade, error)
		CreateGrade(ctx context.Context, grade Grade) (Grade, error)
		UpdateGrade(ctx context.Context, grade Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id string) error

		QueryAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
		UpdateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		QueryScheduleEntries(ctx context.Context) ([]ScheduleEntry, error)
		GetScheduleEntry(ctx context.Context, id string) (ScheduleEntry, error)
		CreateScheduleEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error)
		UpdateScheduleEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error)
		DeleteScheduleEntry(ctx context.Context, id string) error

		QueryReminders(ctx context.Context) ([]Reminder, error)
		GetReminder(ctx context.Context, id string) (Reminder, error)
		CreateReminder(ctx context.Context, reminder Reminder) (Reminder, error)
		UpdateReminder(ctx context.Context, reminder Reminder) (Reminder, error)
		DeleteReminder(ctx context.Context, id string) error

		GetProfile(ctx context.Context) (Profile, error)
		SaveProfile(ctx context.Context, profile Profile) (Profile, error)

		// Snapshot returns every collection, each in insertion order.
		Snapshot(ctx context.Context) (Snapshot, error)
		// Restore replaces every collection with the ones of snap.
		Restore(ctx context.Context, snap Snapshot) error
	}

	Service struct {
		repo            Repository
		mailSvc         core.EmailService
		appName         string
		reminderHorizon time.Duration
	}

	// DigestItem is a reminder as listed in the reminder digest email.
	DigestItem struct {
		Title   string
		Type    ReminderType
		Date    time.Time
		Overdue bool
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:            repo,
		mailSvc:         mailSvc,
		appName:         conf.AppName,
		reminderHorizon: conf.ReminderHorizon,
	}
}

func (svc *Service) checkCourse(ctx context.Context, id string) error {
	if _, err := svc.repo.GetCourse(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errUnknownCourse, core.FieldError{Field: "courseId", Error: errUnknownCourse.Error()})
		}
		return errors.Wrap(err, "checking course")
	}
	return nil
}

func (svc *Service) checkAssignment(ctx context.Context, id string) error {
	if _, err := svc.repo.GetAssignment(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errUnknownAssignment, core.FieldError{Field: "assignmentId", Error: errUnknownAssignment.Error()})
		}
		return errors.Wrap(err, "checking assignment")
	}
	return nil
}

// Courses

func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) GetCourse(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	course := Course{
		Name:       nc.Name,
		Code:       nc.Code,
		Credits:    nc.Credits,
		Color:      nc.Color,
		Instructor: nc.Instructor,
		Semester:   nc.Semester,
	}
	if course.Color == "" {
		course.Color = ColorFromString(course.Name)
	}
	return svc.repo.CreateCourse(ctx, course)
}

func (svc *Service) UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	course, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	course = uc.apply(course)
	if course.Color == "" {
		course.Color = ColorFromString(course.Name)
	}
	return svc.repo.UpdateCourse(ctx, course)
}

// DeleteCourse deletes the course along with its grades, assignments & schedule entries.
func (svc *Service) DeleteCourse(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

// Grades

// QueryGrades returns all grades, or only those of the given courses.
func (svc *Service) QueryGrades(ctx context.Context, courseIDs ...string) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx)
	if err != nil || len(courseIDs) == 0 {
		return grades, err
	}
	keep := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		keep[id] = true
	}
	res := make([]Grade, 0)
	for _, g := range grades {
		if keep[g.CourseID] {
			res = append(res, g)
		}
	}
	return res, nil
}

func (svc *Service) GetGrade(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGrade(ctx, id)
}

func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := svc.checkCourse(ctx, ng.CourseID); err != nil {
		return Grade{}, err
	}
	return svc.repo.CreateGrade(ctx, Grade{
		CourseID:       ng.CourseID,
		AssignmentName: ng.AssignmentName,
		Grade:          ng.Grade,
		MaxPoints:      ng.MaxPoints,
		Weight:         ng.Weight,
		Category:       ng.Category,
		Date:           ng.Date,
	})
}

func (svc *Service) UpdateGrade(ctx context.Context, id string, ug UpdateGrade) (Grade, error) {
	grade, err := svc.repo.GetGrade(ctx, id)
	if err != nil {
		return Grade{}, err
	}
	if ug.CourseID != nil && *ug.CourseID != grade.CourseID {
		if err := svc.checkCourse(ctx, *ug.CourseID); err != nil {
			return Grade{}, err
		}
	}
	return svc.repo.UpdateGrade(ctx, ug.apply(grade))
}

func (svc *Service) DeleteGrade(ctx context.Context, id string) error {
	return svc.repo.DeleteGrade(ctx, id)
}

// Assignments

func (svc *Service) QueryAssignments(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx)
}

func (svc *Service) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	if err := svc.checkCourse(ctx, na.CourseID); err != nil {
		return Assignment{}, err
	}
	status := na.Status
	if status == "" {
		status = StatusPending
	}
	return svc.repo.CreateAssignment(ctx, Assignment{
		CourseID:    na.CourseID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		Priority:    na.Priority,
		Status:      status,
		Category:    na.Category,
	})
}

func (svc *Service) UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	assignment, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if ua.CourseID != nil && *ua.CourseID != assignment.CourseID {
		if err := svc.checkCourse(ctx, *ua.CourseID); err != nil {
			return Assignment{}, err
		}
	}
	return svc.repo.UpdateAssignment(ctx, ua.apply(assignment))
}

func (svc *Service) DeleteAssignment(ctx context.Context, id string) error {
	return svc.repo.DeleteAssignment(ctx, id)
}

// Schedule

func (svc *Service) QuerySchedule(ctx context.Context) ([]ScheduleEntry, error) {
	return svc.repo.QueryScheduleEntries(ctx)
}

func (svc *Service) GetScheduleEntry(ctx context.Context, id string) (ScheduleEntry, error) {
	return svc.repo.GetScheduleEntry(ctx, id)
}

func (svc *Service) CreateScheduleEntry(ctx context.Context, ns NewScheduleEntry) (ScheduleEntry, error) {
	if err := checkTimeRange(ns.StartTime, ns.EndTime); err != nil {
		return ScheduleEntry{}, err
	}
	if err := svc.checkCourse(ctx, ns.CourseID); err != nil {
		return ScheduleEntry{}, err
	}
	return svc.repo.CreateScheduleEntry(ctx, ScheduleEntry{
		CourseID:  ns.CourseID,
		DayOfWeek: ns.DayOfWeek,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
		Location:  ns.Location,
		Type:      ns.Type,
	})
}

func (svc *Service) UpdateScheduleEntry(ctx context.Context, id string, us UpdateScheduleEntry) (ScheduleEntry, error) {
	entry, err := svc.repo.GetScheduleEntry(ctx, id)
	if err != nil {
		return ScheduleEntry{}, err
	}
	updated := us.apply(entry)
	if err := checkTimeRange(updated.StartTime, updated.EndTime); err != nil {
		return ScheduleEntry{}, err
	}
	if updated.CourseID != entry.CourseID {
		if err := svc.checkCourse(ctx, updated.CourseID); err != nil {
			return ScheduleEntry{}, err
		}
	}
	return svc.repo.UpdateScheduleEntry(ctx, updated)
}

func (svc *Service) DeleteScheduleEntry(ctx context.Context, id string) error {
	return svc.repo.DeleteScheduleEntry(ctx, id)
}

// Reminders

func (svc *Service) QueryReminders(ctx context.Context) ([]Reminder, error) {
	return svc.repo.QueryReminders(ctx)
}

func (svc *Service) GetReminder(ctx context.Context, id string) (Reminder, error) {
	return svc.repo.GetReminder(ctx, id)
}

func (svc *Service) CreateReminder(ctx context.Context, nr NewReminder) (Reminder, error) {
	if nr.AssignmentID.Valid {
		if err := svc.checkAssignment(ctx, nr.AssignmentID.String); err != nil {
			return Reminder{}, err
		}
	}
	return svc.repo.CreateReminder(ctx, Reminder{
		Title:        nr.Title,
		Description:  nr.Description,
		Date:         nr.Date,
		Type:         nr.Type,
		AssignmentID: nr.AssignmentID,
	})
}

func (svc *Service) UpdateReminder(ctx context.Context, id string, ur UpdateReminder) (Reminder, error) {
	reminder, err := svc.repo.GetReminder(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	updated := ur.apply(reminder)
	if updated.AssignmentID.Valid && updated.AssignmentID != reminder.AssignmentID {
		if err := svc.checkAssignment(ctx, updated.AssignmentID.String); err != nil {
			return Reminder{}, err
		}
	}
	return svc.repo.UpdateReminder(ctx, updated)
}

func (svc *Service) DeleteReminder(ctx context.Context, id string) error {
	return svc.repo.DeleteReminder(ctx, id)
}

// Profile

// GetProfile returns the stored profile, or an empty one if none was saved yet.
func (svc *Service) GetProfile(ctx context.Context) (Profile, error) {
	profile, err := svc.repo.GetProfile(ctx)
	if errors.Cause(err) == ErrNotFound {
		return Profile{}, nil
	}
	return profile, err
}

func (svc *Service) UpdateProfile(ctx context.Context, up UpdateProfile) (Profile, error) {
	return svc.repo.SaveProfile(ctx, Profile{
		Name:            up.Name,
		Email:           up.Email,
		CurrentSemester: up.CurrentSemester,
		GPATarget:       up.GPATarget,
	})
}

// Queries

// GPA computes the GPA of the stored grades.
func (svc *Service) GPA(ctx context.Context) (GPACalculation, error) {
	snap, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return GPACalculation{}, errors.Wrap(err, "loading snapshot")
	}
	return ComputeGPA(snap.Grades, snap.Courses), nil
}

// Calendar projects the stored data onto the given days.
func (svc *Service) Calendar(ctx context.Context, days []time.Time) ([]CalendarEvent, error) {
	snap, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading snapshot")
	}
	return ProjectEvents(snap.Courses, snap.Assignments, snap.Schedule, snap.Reminders, days), nil
}

// Dashboard summarizes the stored data as of now.
func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	snap, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "loading snapshot")
	}
	return BuildDashboard(snap, NowFunc(), svc.reminderHorizon), nil
}

// Export returns every stored collection.
func (svc *Service) Export(ctx context.Context) (Snapshot, error) {
	return svc.repo.Snapshot(ctx)
}

// Import replaces every stored collection with the ones of snap.
// Ids must be set and unique within their collection.
func (svc *Service) Import(ctx context.Context, snap Snapshot) error {
	if err := checkSnapshotIDs(snap); err != nil {
		return err
	}
	return svc.repo.Restore(ctx, snap)
}

func checkSnapshotIDs(snap Snapshot) error {
	collections := []struct {
		field string
		ids   []string
	}{
		{field: "courses"},
		{field: "grades"},
		{field: "assignments"},
		{field: "schedule"},
		{field: "reminders"},
	}
	for _, c := range snap.Courses {
		collections[0].ids = append(collections[0].ids, c.ID)
	}
	for _, g := range snap.Grades {
		collections[1].ids = append(collections[1].ids, g.ID)
	}
	for _, a := range snap.Assignments {
		collections[2].ids = append(collections[2].ids, a.ID)
	}
	for _, s := range snap.Schedule {
		collections[3].ids = append(collections[3].ids, s.ID)
	}
	for _, r := range snap.Reminders {
		collections[4].ids = append(collections[4].ids, r.ID)
	}

	for _, coll := range collections {
		seen := make(map[string]bool, len(coll.ids))
		for _, id := range coll.ids {
			switch {
			case id == "":
				return core.NewValidationError(errMissingID, core.FieldError{Field: coll.field, Error: errMissingID.Error()})
			case seen[id]:
				err := errors.Wrapf(errDuplicateID, "%q", id)
				return core.NewValidationError(err, core.FieldError{Field: coll.field, Error: err.Error()})
			}
			seen[id] = true
		}
	}
	return nil
}

// WithReminderHorizon returns a copy of svc looking ahead by horizon for pending reminders.
func (svc *Service) WithReminderHorizon(horizon time.Duration) *Service {
	cp := *svc
	cp.reminderHorizon = horizon
	return &cp
}

// SendReminderDigest emails the pending reminders due within the reminder horizon.
// Nothing is sent when there is no such reminder; the number of listed reminders is returned.
func (svc *Service) SendReminderDigest(ctx context.Context, to ...mail.Address) (int, error) {
	if len(to) == 0 {
		return 0, nil
	}
	reminders, err := svc.repo.QueryReminders(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying reminders")
	}

	now := NowFunc()
	pending := PendingReminders(reminders, now, svc.reminderHorizon)
	if len(pending) == 0 {
		return 0, nil
	}

	items := make([]DigestItem, 0, len(pending))
	for _, r := range pending {
		items = append(items, DigestItem{
			Title:   r.Title,
			Type:    r.Type,
			Date:    r.Date,
			Overdue: IsOverdue(r.Date, now),
		})
	}

	msg := &core.EmailMessage{
		To:           to,
		Subject:      "Upcoming reminders",
		TemplateName: digestTemplate,
		TemplateData: map[string]interface{}{"Reminders": items},
		AppName:      svc.appName,
	}
	// delivery is asynchronous; template errors must surface here
	if err = msg.Render(); err != nil {
		return 0, errors.Wrap(err, "rendering reminder digest")
	}
	svc.mailSvc.SendMessages(msg)
	return len(items), nil
}
