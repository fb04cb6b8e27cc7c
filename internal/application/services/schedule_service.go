package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// ScheduleService handles course management and schedule derivation
type ScheduleService struct {
	courseRepo ports.CourseRepository
	logger     *logger.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(courseRepo ports.CourseRepository, logger *logger.Logger) *ScheduleService {
	return &ScheduleService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// CreateCourse validates the request and adds a new course
func (s *ScheduleService) CreateCourse(ctx context.Context, req ports.CreateCourseRequest) (*entities.Course, error) {
	course, err := entities.NewCourse(entities.CourseDraft{
		Name:       req.Name,
		Instructor: req.Instructor,
		Location:   req.Location,
		Day:        req.Day,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Color:      req.Color,
	})
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Add(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "name", course.Name, "day", course.Day)

	return &course, nil
}

// GetCourse retrieves a course by ID
func (s *ScheduleService) GetCourse(ctx context.Context, id string) (*entities.Course, error) {
	course, err := s.courseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse applies a partial edit to an existing course
func (s *ScheduleService) UpdateCourse(ctx context.Context, id string, req ports.UpdateCourseRequest) (*entities.Course, error) {
	course, err := s.courseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Location != nil {
		course.Location = *req.Location
	}
	if req.Day != nil {
		course.Day = *req.Day
	}
	if req.StartTime != nil {
		course.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		course.EndTime = *req.EndTime
	}
	if req.Color != nil {
		course.Color = *req.Color
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", course.ID, "name", course.Name)

	return &course, nil
}

// DeleteCourse removes a course. Tasks referencing it keep their weak
// reference; it simply stops resolving.
func (s *ScheduleService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courseRepo.Remove(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Course deleted", "course_id", id)

	return nil
}

// ListCourses returns the full course collection in stored order
func (s *ScheduleService) ListCourses(ctx context.Context) ([]entities.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	if courses == nil {
		courses = []entities.Course{}
	}
	return courses, nil
}

// TodaysCourses returns the courses scheduled on the reference
// instant's weekday, ordered ascending by start time and classified
// against the reference time of day.
func (s *ScheduleService) TodaysCourses(ctx context.Context, at time.Time) ([]ports.CourseView, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	today := entities.WeekdayOf(at)
	clock := entities.ClockString(at)

	views := make([]ports.CourseView, 0)
	for _, c := range courses {
		if c.Day == today {
			views = append(views, ports.CourseView{Course: c, Status: c.StatusAt(clock)})
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].StartTime < views[j].StartTime
	})

	return views, nil
}

// NextCourse returns the first of today's courses starting strictly
// after the reference time, or nil when none remains.
func (s *ScheduleService) NextCourse(ctx context.Context, at time.Time) (*entities.Course, error) {
	todays, err := s.TodaysCourses(ctx, at)
	if err != nil {
		return nil, err
	}

	clock := entities.ClockString(at)
	for i := range todays {
		if todays[i].StartTime > clock {
			course := todays[i].Course
			return &course, nil
		}
	}
	return nil, nil
}

// WeekSchedule returns all seven days in week order, each with its
// courses sorted by start time.
func (s *ScheduleService) WeekSchedule(ctx context.Context) ([]ports.DaySchedule, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	week := make([]ports.DaySchedule, 0, len(entities.Week))
	for _, day := range entities.Week {
		entry := ports.DaySchedule{Day: day, Courses: []entities.Course{}}
		for _, c := range courses {
			if c.Day == day {
				entry.Courses = append(entry.Courses, c)
			}
		}
		sort.SliceStable(entry.Courses, func(i, j int) bool {
			return entry.Courses[i].StartTime < entry.Courses[j].StartTime
		})
		week = append(week, entry)
	}

	return week, nil
}
