package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studypal/core/internal/adapters/repository"
	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

func newScheduleService(t *testing.T) *ScheduleService {
	t.Helper()
	repo := repository.NewCourseStore(newMemKV(), "test:courses", logger.Nop())
	return NewScheduleService(repo, logger.Nop())
}

func createCourse(t *testing.T, svc *ScheduleService, req ports.CreateCourseRequest) *entities.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateCourse(%q) returned error: %v", req.Name, err)
	}
	return course
}

// monday returns a reference instant on Monday 2026-08-31 at the given
// wall-clock time.
func monday(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		t.Fatalf("bad clock %q: %v", clock, err)
	}
	return time.Date(2026, 8, 31, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func TestUpdateCoursePartialEdit(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(t)

	course := createCourse(t, svc, ports.CreateCourseRequest{
		Name: "رياضيات", Day: entities.Monday, StartTime: "08:00", EndTime: "09:30",
	})

	location := "قاعة 12"
	updated, err := svc.UpdateCourse(ctx, course.ID, ports.UpdateCourseRequest{Location: &location})
	if err != nil {
		t.Fatalf("UpdateCourse returned error: %v", err)
	}
	if updated.Location != location {
		t.Fatalf("location not updated, got %q", updated.Location)
	}
	if updated.Name != "رياضيات" || updated.StartTime != "08:00" {
		t.Fatal("untouched fields must keep their values")
	}

	badDay := entities.Weekday("Funday")
	if _, err := svc.UpdateCourse(ctx, course.ID, ports.UpdateCourseRequest{Day: &badDay}); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.UpdateCourse(ctx, "missing", ports.UpdateCourseRequest{}); !errors.Is(err, entities.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestTodaysCoursesOrderedAndClassified(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(t)

	// Stored out of order on purpose.
	createCourse(t, svc, ports.CreateCourseRequest{Name: "فيزياء", Day: entities.Monday, StartTime: "10:00", EndTime: "11:30"})
	createCourse(t, svc, ports.CreateCourseRequest{Name: "رياضيات", Day: entities.Monday, StartTime: "08:00", EndTime: "09:30"})
	createCourse(t, svc, ports.CreateCourseRequest{Name: "كيمياء", Day: entities.Tuesday, StartTime: "08:00", EndTime: "09:30"})

	views, err := svc.TodaysCourses(ctx, monday(t, "08:30"))
	if err != nil {
		t.Fatalf("TodaysCourses returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 Monday courses, got %d", len(views))
	}
	if views[0].Name != "رياضيات" || views[1].Name != "فيزياء" {
		t.Fatalf("courses not ordered by start time: %q, %q", views[0].Name, views[1].Name)
	}
	if views[0].Status != entities.StatusCurrent {
		t.Fatalf("08:00-09:30 at 08:30 must be current, got %q", views[0].Status)
	}
	if views[1].Status != entities.StatusFuture {
		t.Fatalf("10:00-11:30 at 08:30 must be future, got %q", views[1].Status)
	}
}

func TestNextCourse(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(t)

	createCourse(t, svc, ports.CreateCourseRequest{Name: "رياضيات", Day: entities.Monday, StartTime: "08:00", EndTime: "09:30"})
	createCourse(t, svc, ports.CreateCourseRequest{Name: "فيزياء", Day: entities.Monday, StartTime: "10:00", EndTime: "11:30"})

	next, err := svc.NextCourse(ctx, monday(t, "08:30"))
	if err != nil {
		t.Fatalf("NextCourse returned error: %v", err)
	}
	if next == nil || next.Name != "فيزياء" {
		t.Fatalf("expected next course فيزياء, got %+v", next)
	}

	// A course already underway does not count as next.
	next, err = svc.NextCourse(ctx, monday(t, "10:00"))
	if err != nil {
		t.Fatalf("NextCourse returned error: %v", err)
	}
	if next != nil {
		t.Fatalf("expected no next course at 10:00, got %+v", next)
	}
}

func TestWeekScheduleCoversAllDays(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(t)

	createCourse(t, svc, ports.CreateCourseRequest{Name: "فيزياء", Day: entities.Monday, StartTime: "10:00", EndTime: "11:30"})
	createCourse(t, svc, ports.CreateCourseRequest{Name: "رياضيات", Day: entities.Monday, StartTime: "08:00", EndTime: "09:30"})

	week, err := svc.WeekSchedule(ctx)
	if err != nil {
		t.Fatalf("WeekSchedule returned error: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if week[0].Day != entities.Sunday || week[6].Day != entities.Saturday {
		t.Fatalf("week must run Sunday through Saturday, got %q..%q", week[0].Day, week[6].Day)
	}

	for _, day := range week {
		if day.Courses == nil {
			t.Fatalf("day %q must carry a non-nil course list", day.Day)
		}
		if day.Day == entities.Monday {
			if len(day.Courses) != 2 {
				t.Fatalf("expected 2 Monday courses, got %d", len(day.Courses))
			}
			if day.Courses[0].Name != "رياضيات" {
				t.Fatalf("Monday courses not ordered by start time: %q first", day.Courses[0].Name)
			}
		} else if len(day.Courses) != 0 {
			t.Fatalf("day %q should be empty, has %d courses", day.Day, len(day.Courses))
		}
	}
}
