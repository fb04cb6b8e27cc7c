package services

import (
	"context"
	"errors"
	"testing"

	"github.com/studypal/core/internal/adapters/repository"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// stubClient scripts the collaborator's answers and records the course
// name it was asked about.
type stubClient struct {
	breakdown  ports.Breakdown
	motivation string
	err        error

	gotCourse string
}

func (s *stubClient) GenerateBreakdown(_ context.Context, _, courseName string) (ports.Breakdown, error) {
	s.gotCourse = courseName
	if s.err != nil {
		return ports.Breakdown{}, s.err
	}
	return s.breakdown, nil
}

func (s *stubClient) GenerateMotivation(_ context.Context, _ int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.motivation, nil
}

func newAssistantService(t *testing.T, client BreakdownClient) (*AssistantService, *ScheduleService) {
	t.Helper()
	nop := logger.Nop()
	courseRepo := repository.NewCourseStore(newMemKV(), "test:courses", nop)
	schedule := NewScheduleService(courseRepo, nop)
	return NewAssistantService(client, courseRepo, nop), schedule
}

func TestBreakdownPassesThroughOnSuccess(t *testing.T) {
	ctx := context.Background()
	want := ports.Breakdown{
		Motivation:    "أنت قادر على إنجازها!",
		Steps:         []string{"اقرأ الملخص", "حل التمارين"},
		EstimatedTime: "ساعتان",
	}
	svc, _ := newAssistantService(t, &stubClient{breakdown: want})

	got, fallback := svc.Breakdown(ctx, ports.BreakdownRequest{TaskTitle: "مذاكرة الفصل"})
	if fallback {
		t.Fatal("successful call must not be flagged as fallback")
	}
	if got.Motivation != want.Motivation || len(got.Steps) != 2 || got.EstimatedTime != want.EstimatedTime {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestBreakdownDegradesToFallback(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssistantService(t, &stubClient{err: errors.New("upstream down")})

	got, fallback := svc.Breakdown(ctx, ports.BreakdownRequest{TaskTitle: "مذاكرة الفصل"})
	if !fallback {
		t.Fatal("failed call must be flagged as fallback")
	}
	if got.Motivation != "عذراً، حدث خطأ في الاتصال بالمساعد الذكي." {
		t.Fatalf("unexpected fallback motivation %q", got.Motivation)
	}
	if len(got.Steps) != 1 || got.Steps[0] != "حاول مرة أخرى لاحقاً" {
		t.Fatalf("unexpected fallback steps %v", got.Steps)
	}
	if got.EstimatedTime != "--" {
		t.Fatalf("unexpected fallback estimate %q", got.EstimatedTime)
	}
}

func TestBreakdownResolvesCourseName(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{breakdown: ports.Breakdown{Motivation: "م", Steps: []string{"خ"}, EstimatedTime: "ساعة"}}
	svc, schedule := newAssistantService(t, client)

	course := createCourse(t, schedule, ports.CreateCourseRequest{Name: "رياضيات", StartTime: "08:00", EndTime: "09:00"})

	svc.Breakdown(ctx, ports.BreakdownRequest{TaskTitle: "واجب", CourseID: course.ID})
	if client.gotCourse != "رياضيات" {
		t.Fatalf("expected resolved course name, got %q", client.gotCourse)
	}

	// An unresolvable reference falls back to the generic label.
	svc.Breakdown(ctx, ports.BreakdownRequest{TaskTitle: "واجب", CourseID: "gone"})
	if client.gotCourse != "عام" {
		t.Fatalf("expected generic course label, got %q", client.gotCourse)
	}
}

func TestDailyMotivationFallback(t *testing.T) {
	ctx := context.Background()

	svc, _ := newAssistantService(t, &stubClient{motivation: "استمر!"})
	message, fallback := svc.DailyMotivation(ctx, 3)
	if fallback || message != "استمر!" {
		t.Fatalf("unexpected motivation: %q fallback=%v", message, fallback)
	}

	svc, _ = newAssistantService(t, &stubClient{err: errors.New("upstream down")})
	message, fallback = svc.DailyMotivation(ctx, 3)
	if !fallback {
		t.Fatal("failed call must be flagged as fallback")
	}
	if message != "كل خطوة صغيرة تقربك من حلمك الكبير!" {
		t.Fatalf("unexpected fallback message %q", message)
	}
}
