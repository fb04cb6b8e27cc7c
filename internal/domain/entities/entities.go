package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrValidation     = errors.New("validation failed")
	ErrNotConfirmed   = errors.New("destructive action not confirmed")
)

// Weekday is the localized day label a course is scheduled on. The
// Arabic strings are the persisted values, so they must not change.
type Weekday string

const (
	Sunday    Weekday = "الأحد"
	Monday    Weekday = "الاثنين"
	Tuesday   Weekday = "الثلاثاء"
	Wednesday Weekday = "الأربعاء"
	Thursday  Weekday = "الخميس"
	Friday    Weekday = "الجمعة"
	Saturday  Weekday = "السبت"
)

// Week lists the seven weekdays in display order, indexed so that
// Week[int(t.Weekday())] is the label for t's day.
var Week = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf returns the localized label for the instant's weekday.
func WeekdayOf(t time.Time) Weekday {
	return Week[int(t.Weekday())]
}

// IsValid reports whether d is one of the seven known labels.
func (d Weekday) IsValid() bool {
	for _, w := range Week {
		if w == d {
			return true
		}
	}
	return false
}

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the fixed ordinal used for sorting: high=3, medium=2,
// low=1. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p is one of the known priority levels.
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ScheduleStatus classifies a course against a reference time of day.
type ScheduleStatus string

const (
	StatusPast    ScheduleStatus = "past"
	StatusCurrent ScheduleStatus = "current"
	StatusFuture  ScheduleStatus = "future"
)

// Colors is the fixed palette of style-category tokens for courses.
// A token carries no meaning beyond display grouping.
var Colors = []string{
	"red", "orange", "amber", "green", "emerald",
	"teal", "cyan", "sky", "blue", "indigo",
	"violet", "purple", "fuchsia", "pink", "rose",
}

// DefaultColor is assigned when a draft does not pick one.
var DefaultColor = Colors[0]

// Course is a weekly recurring class in the schedule.
//
// StartTime and EndTime are wall-clock "HH:mm" strings and are compared
// lexicographically, which is valid because the format is fixed-width
// zero-padded. A course whose EndTime sorts before its StartTime
// (spanning midnight) is a known limitation: it reads as already
// finished rather than wrapping to the next day.
type Course struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Instructor string  `json:"instructor,omitempty"`
	Location   string  `json:"location,omitempty"`
	Day        Weekday `json:"day"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Color      string  `json:"color"`
}

// Validate checks the invariants edits must preserve. The
// StartTime < EndTime expectation is deliberately not among them.
func (c *Course) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: course name is required", ErrValidation)
	}
	if err := checkClock(c.StartTime); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrValidation, err)
	}
	if err := checkClock(c.EndTime); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrValidation, err)
	}
	if !c.Day.IsValid() {
		return fmt.Errorf("%w: unknown weekday %q", ErrValidation, c.Day)
	}
	return nil
}

// StatusAt classifies the course against a "HH:mm" reference time.
func (c *Course) StatusAt(clock string) ScheduleStatus {
	switch {
	case c.EndTime < clock:
		return StatusPast
	case c.StartTime <= clock && clock <= c.EndTime:
		return StatusCurrent
	default:
		return StatusFuture
	}
}

// Task is a single assignment or to-do item.
//
// CourseID is a weak reference: it may name a course that no longer
// exists, and callers must treat an unresolved reference as "no course".
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CourseID    string   `json:"courseId,omitempty"`
	DueDate     string   `json:"dueDate"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
}

// Validate checks the invariants edits must preserve. CourseID is a
// weak reference and is never validated against the course collection.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if err := checkDate(t.DueDate); err != nil {
		return fmt.Errorf("%w: due date: %v", ErrValidation, err)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, t.Priority)
	}
	return nil
}

// OverdueAt reports whether the task is overdue relative to the given
// "YYYY-MM-DD" local calendar date. Overdue is derived presentation
// state and is never persisted.
func (t *Task) OverdueAt(today string) bool {
	return !t.Completed && t.DueDate < today
}

// CourseDraft holds unvalidated course form input.
type CourseDraft struct {
	Name       string  `json:"name"`
	Instructor string  `json:"instructor"`
	Location   string  `json:"location"`
	Day        Weekday `json:"day"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Color      string  `json:"color"`
}

// NewCourse validates a draft and converts it to a canonical Course
// with a freshly minted id. Missing name or times fail validation; the
// StartTime < EndTime invariant is expected but deliberately not
// enforced here.
func NewCourse(d CourseDraft) (Course, error) {
	day := d.Day
	if day == "" {
		day = Sunday
	}
	color := d.Color
	if color == "" {
		color = DefaultColor
	}
	course := Course{
		ID:         uuid.NewString(),
		Name:       d.Name,
		Instructor: d.Instructor,
		Location:   d.Location,
		Day:        day,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		Color:      color,
	}
	if err := course.Validate(); err != nil {
		return Course{}, err
	}
	return course, nil
}

// TaskDraft holds unvalidated task form input.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CourseID    string   `json:"courseId"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
}

// NewTask validates a draft and converts it to a canonical Task with a
// freshly minted id. Title and due date are required; priority defaults
// to medium; completed always starts false.
func NewTask(d TaskDraft) (Task, error) {
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	task := Task{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		CourseID:    d.CourseID,
		DueDate:     d.DueDate,
		Completed:   false,
		Priority:    priority,
	}
	if err := task.Validate(); err != nil {
		return Task{}, err
	}
	return task, nil
}

// ClockString formats an instant as the zero-padded "HH:mm" string used
// for schedule comparisons.
func ClockString(t time.Time) string {
	return t.Format("15:04")
}

// DateString formats an instant as a "YYYY-MM-DD" string in the
// instant's own location. Using the local date avoids the off-by-one
// day that a UTC conversion would introduce for due dates.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func checkClock(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("%q is not an HH:mm time", s)
	}
	return nil
}

func checkDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return nil
}
