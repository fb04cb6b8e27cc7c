package services

import (
	"context"

	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// Fallback content returned when the collaborator fails. The Arabic
// strings are user-facing and fixed.
var (
	fallbackBreakdown = ports.Breakdown{
		Motivation:    "عذراً، حدث خطأ في الاتصال بالمساعد الذكي.",
		Steps:         []string{"حاول مرة أخرى لاحقاً"},
		EstimatedTime: "--",
	}
	fallbackMotivation = "كل خطوة صغيرة تقربك من حلمك الكبير!"

	// genericCourseName stands in when a task has no resolvable course.
	genericCourseName = "عام"
)

// BreakdownClient is the remote generative-language collaborator.
type BreakdownClient interface {
	GenerateBreakdown(ctx context.Context, taskTitle, courseName string) (ports.Breakdown, error)
	GenerateMotivation(ctx context.Context, pendingCount int) (string, error)
}

// AssistantService wraps the breakdown client with the fallback
// discipline: remote failures never propagate, they degrade to fixed
// content. Calls are one-shot, not cached, not retried.
type AssistantService struct {
	client     BreakdownClient
	courseRepo ports.CourseRepository
	logger     *logger.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(client BreakdownClient, courseRepo ports.CourseRepository, logger *logger.Logger) *AssistantService {
	return &AssistantService{
		client:     client,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// Breakdown asks the collaborator to split a task into steps. The
// course reference is weak: an id that no longer resolves is sent as
// the generic placeholder. The second return reports whether the
// result is the fallback.
func (s *AssistantService) Breakdown(ctx context.Context, req ports.BreakdownRequest) (ports.Breakdown, bool) {
	courseName := genericCourseName
	if req.CourseID != "" {
		if course, err := s.courseRepo.Get(ctx, req.CourseID); err == nil {
			courseName = course.Name
		}
	}

	result, err := s.client.GenerateBreakdown(ctx, req.TaskTitle, courseName)
	if err != nil {
		s.logger.LogAssistantFallback("breakdown", err)
		return fallbackBreakdown, true
	}

	return result, false
}

// DailyMotivation asks the collaborator for a one-line study
// encouragement. The second return reports whether the result is the
// fallback.
func (s *AssistantService) DailyMotivation(ctx context.Context, pendingCount int) (string, bool) {
	message, err := s.client.GenerateMotivation(ctx, pendingCount)
	if err != nil {
		s.logger.LogAssistantFallback("motivation", err)
		return fallbackMotivation, true
	}

	return message, false
}
