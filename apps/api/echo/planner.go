package echoapi

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core/planner"
	"github.com/trezcool/studyplan/storage/backup"
)

type plannerApi struct {
	svc      *planner.Service
	validate *validator.Validate
}

type (
	// DaySchedule lists the classes of one weekday.
	DaySchedule struct {
		DayOfWeek int                     `json:"dayOfWeek"`
		Entries   []planner.ScheduleEntry `json:"entries"`
	}

	WeekSchedule struct {
		Days        []DaySchedule `json:"days"`
		WeeklyHours float64       `json:"weeklyHours"`
		Locations   []string      `json:"locations"`
	}

	ImportResponse struct {
		Courses     int `json:"courses"`
		Grades      int `json:"grades"`
		Assignments int `json:"assignments"`
		Schedule    int `json:"schedule"`
		Reminders   int `json:"reminders"`
	}
)

func registerPlannerAPI(g *echo.Group, svc *planner.Service, validate *validator.Validate) {
	api := plannerApi{svc: svc, validate: validate}

	cg := g.Group("/courses")
	cg.GET("", api.queryCourses)
	cg.POST("", api.createCourse)
	cg.GET("/:id", api.retrieveCourse)
	cg.PUT("/:id", api.updateCourse)
	cg.DELETE("/:id", api.destroyCourse)

	gg := g.Group("/grades")
	gg.GET("", api.queryGrades)
	gg.POST("", api.createGrade)
	gg.GET("/:id", api.retrieveGrade)
	gg.PUT("/:id", api.updateGrade)
	gg.DELETE("/:id", api.destroyGrade)

	ag := g.Group("/assignments")
	ag.GET("", api.queryAssignments)
	ag.POST("", api.createAssignment)
	ag.GET("/:id", api.retrieveAssignment)
	ag.PUT("/:id", api.updateAssignment)
	ag.DELETE("/:id", api.destroyAssignment)

	sg := g.Group("/schedule")
	sg.GET("", api.querySchedule)
	sg.POST("", api.createScheduleEntry)
	sg.GET("/week", api.weekSchedule)
	sg.GET("/:id", api.retrieveScheduleEntry)
	sg.PUT("/:id", api.updateScheduleEntry)
	sg.DELETE("/:id", api.destroyScheduleEntry)

	rg := g.Group("/reminders")
	rg.GET("", api.queryReminders)
	rg.POST("", api.createReminder)
	rg.GET("/:id", api.retrieveReminder)
	rg.PUT("/:id", api.updateReminder)
	rg.DELETE("/:id", api.destroyReminder)

	g.GET("/profile", api.retrieveProfile)
	g.PUT("/profile", api.updateProfile)

	g.GET("/gpa", api.gpa)
	g.GET("/calendar", api.calendar)
	g.GET("/calendar/day", api.calendarDay)
	g.GET("/dashboard", api.dashboard)

	g.GET("/export", api.exportData)
	g.POST("/import", api.importData)
}

// Courses

func (api *plannerApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *plannerApi) createCourse(ctx echo.Context) error {
	var data planner.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	course, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *plannerApi) retrieveCourse(ctx echo.Context) error {
	course, err := api.svc.GetCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *plannerApi) updateCourse(ctx echo.Context) error {
	var data planner.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	course, err := api.svc.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *plannerApi) destroyCourse(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Grades

func (api *plannerApi) queryGrades(ctx echo.Context) error {
	var courseIDs []string
	if id := ctx.QueryParam("courseId"); id != "" {
		courseIDs = append(courseIDs, id)
	}
	grades, err := api.svc.QueryGrades(ctx.Request().Context(), courseIDs...)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *plannerApi) createGrade(ctx echo.Context) error {
	var data planner.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	grade, err := api.svc.CreateGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, grade)
}

func (api *plannerApi) retrieveGrade(ctx echo.Context) error {
	grade, err := api.svc.GetGrade(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grade)
}

func (api *plannerApi) updateGrade(ctx echo.Context) error {
	var data planner.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	grade, err := api.svc.UpdateGrade(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, grade)
}

func (api *plannerApi) destroyGrade(ctx echo.Context) error {
	if err := api.svc.DeleteGrade(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Assignments

func (api *plannerApi) queryAssignments(ctx echo.Context) error {
	assignments, err := api.svc.QueryAssignments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *plannerApi) createAssignment(ctx echo.Context) error {
	var data planner.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	assignment, err := api.svc.CreateAssignment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, assignment)
}

func (api *plannerApi) retrieveAssignment(ctx echo.Context) error {
	assignment, err := api.svc.GetAssignment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignment)
}

func (api *plannerApi) updateAssignment(ctx echo.Context) error {
	var data planner.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	assignment, err := api.svc.UpdateAssignment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, assignment)
}

func (api *plannerApi) destroyAssignment(ctx echo.Context) error {
	if err := api.svc.DeleteAssignment(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Schedule

func (api *plannerApi) querySchedule(ctx echo.Context) error {
	entries, err := api.svc.QuerySchedule(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schedule")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *plannerApi) weekSchedule(ctx echo.Context) error {
	entries, err := api.svc.QuerySchedule(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schedule")
	}
	week := WeekSchedule{
		Days:        make([]DaySchedule, 0, 7),
		WeeklyHours: planner.WeeklyHours(entries),
		Locations:   planner.UniqueLocations(entries),
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		week.Days = append(week.Days, DaySchedule{DayOfWeek: int(d), Entries: planner.DaySchedule(entries, d)})
	}
	return ctx.JSON(http.StatusOK, week)
}

func (api *plannerApi) createScheduleEntry(ctx echo.Context) error {
	var data planner.NewScheduleEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScheduleEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	entry, err := api.svc.CreateScheduleEntry(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating schedule entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *plannerApi) retrieveScheduleEntry(ctx echo.Context) error {
	entry, err := api.svc.GetScheduleEntry(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *plannerApi) updateScheduleEntry(ctx echo.Context) error {
	var data planner.UpdateScheduleEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateScheduleEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	entry, err := api.svc.UpdateScheduleEntry(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating schedule entry")
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *plannerApi) destroyScheduleEntry(ctx echo.Context) error {
	if err := api.svc.DeleteScheduleEntry(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting schedule entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Reminders

func (api *plannerApi) queryReminders(ctx echo.Context) error {
	reminders, err := api.svc.QueryReminders(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reminders")
	}
	return ctx.JSON(http.StatusOK, reminders)
}

func (api *plannerApi) createReminder(ctx echo.Context) error {
	var data planner.NewReminder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReminder")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	reminder, err := api.svc.CreateReminder(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating reminder")
	}
	return ctx.JSON(http.StatusCreated, reminder)
}

func (api *plannerApi) retrieveReminder(ctx echo.Context) error {
	reminder, err := api.svc.GetReminder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reminder)
}

func (api *plannerApi) updateReminder(ctx echo.Context) error {
	var data planner.UpdateReminder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReminder")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	reminder, err := api.svc.UpdateReminder(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating reminder")
	}
	return ctx.JSON(http.StatusOK, reminder)
}

func (api *plannerApi) destroyReminder(ctx echo.Context) error {
	if err := api.svc.DeleteReminder(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting reminder")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Profile

func (api *plannerApi) retrieveProfile(ctx echo.Context) error {
	profile, err := api.svc.GetProfile(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *plannerApi) updateProfile(ctx echo.Context) error {
	var data planner.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	profile, err := api.svc.UpdateProfile(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

// Views

func (api *plannerApi) gpa(ctx echo.Context) error {
	calc, err := api.svc.GPA(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing gpa")
	}
	return ctx.JSON(http.StatusOK, calc)
}

func (api *plannerApi) calendar(ctx echo.Context) error {
	var window MonthWindow
	if err := window.Bind(ctx); err != nil {
		return err
	}
	events, err := api.svc.Calendar(ctx.Request().Context(), window.Days())
	if err != nil {
		return errors.Wrap(err, "projecting calendar")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *plannerApi) calendarDay(ctx echo.Context) error {
	day, err := bindDate(ctx)
	if err != nil {
		return err
	}
	events, err := api.svc.Calendar(ctx.Request().Context(), []time.Time{day})
	if err != nil {
		return errors.Wrap(err, "projecting calendar")
	}
	events = planner.EventsOn(events, day)
	planner.SortEvents(events)
	return ctx.JSON(http.StatusOK, events)
}

func (api *plannerApi) dashboard(ctx echo.Context) error {
	dash, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

// Backups

func (api *plannerApi) exportData(ctx echo.Context) error {
	format, err := backup.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return invalidParam("format", err.Error())
	}
	snap, err := api.svc.Export(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "exporting data")
	}

	var buf bytes.Buffer
	if err = backup.Encode(&buf, backup.NewDocument(snap), format); err != nil {
		return errors.Wrap(err, "encoding backup")
	}
	fname := strings.TrimSuffix(backup.DefaultFileName, ".json") + "." + string(format)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fname+`"`)
	return ctx.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (api *plannerApi) importData(ctx echo.Context) error {
	format := backup.JSON
	if s := ctx.QueryParam("format"); s != "" {
		var err error
		if format, err = backup.ParseFormat(s); err != nil {
			return invalidParam("format", err.Error())
		}
	} else if strings.Contains(ctx.Request().Header.Get(echo.HeaderContentType), "yaml") {
		format = backup.YAML
	}

	doc, err := backup.Decode(ctx.Request().Body, format)
	if err != nil {
		return invalidParam("body", err.Error())
	}
	snap := doc.Snapshot()
	if err = api.svc.Import(ctx.Request().Context(), snap); err != nil {
		return errors.Wrap(err, "importing data")
	}
	return ctx.JSON(http.StatusOK, ImportResponse{
		Courses:     len(snap.Courses),
		Grades:      len(snap.Grades),
		Assignments: len(snap.Assignments),
		Schedule:    len(snap.Schedule),
		Reminders:   len(snap.Reminders),
	})
}
