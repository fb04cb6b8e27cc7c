package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// CourseStore persists the course collection as one JSON value in the
// key-value substrate. Every mutation rewrites the whole collection
// (write-through, no batching).
type CourseStore struct {
	kv     ports.KeyValue
	key    string
	logger *logger.Logger

	mu sync.Mutex
}

// NewCourseStore creates a course repository over the given substrate.
func NewCourseStore(kv ports.KeyValue, key string, logger *logger.Logger) *CourseStore {
	return &CourseStore{
		kv:     kv,
		key:    key,
		logger: logger.WithComponent("course_store"),
	}
}

// List returns the stored collection. A missing, unreadable, or
// unparseable value yields an empty collection, never an error.
func (s *CourseStore) List(ctx context.Context) ([]entities.Course, error) {
	return s.load(ctx), nil
}

// Get returns the course with the given id.
func (s *CourseStore) Get(ctx context.Context, id string) (entities.Course, error) {
	for _, c := range s.load(ctx) {
		if c.ID == id {
			return c, nil
		}
	}
	return entities.Course{}, entities.ErrCourseNotFound
}

// Add appends a course and writes the collection back.
func (s *CourseStore) Add(ctx context.Context, course entities.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.load(ctx)
	return s.save(ctx, append(courses, course))
}

// Update replaces the stored course with the same id.
func (s *CourseStore) Update(ctx context.Context, course entities.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.load(ctx)
	for i := range courses {
		if courses[i].ID == course.ID {
			courses[i] = course
			return s.save(ctx, courses)
		}
	}
	return entities.ErrCourseNotFound
}

// Remove deletes the course with the given id.
func (s *CourseStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.load(ctx)
	kept := courses[:0]
	for _, c := range courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(courses) {
		return entities.ErrCourseNotFound
	}
	return s.save(ctx, kept)
}

// Replace overwrites the whole collection.
func (s *CourseStore) Replace(ctx context.Context, courses []entities.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, courses)
}

func (s *CourseStore) load(ctx context.Context) []entities.Course {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.LogStoreOp("get", s.key, err)
		return nil
	}
	if !ok {
		return nil
	}
	courses := decodeCollection[entities.Course](raw)
	if courses == nil && raw != "" {
		s.logger.Warnw("Discarding unparseable course collection", "key", s.key)
	}
	return courses
}

func (s *CourseStore) save(ctx context.Context, courses []entities.Course) error {
	raw, err := encodeCollection(courses)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.LogStoreOp("set", s.key, err)
		return fmt.Errorf("failed to persist courses: %w", err)
	}
	return nil
}
