package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// TaskStore persists the task collection as one JSON value in the
// key-value substrate, independently of the course collection. Partial
// presence of one collection and not the other is a valid state.
type TaskStore struct {
	kv     ports.KeyValue
	key    string
	logger *logger.Logger

	mu sync.Mutex
}

// NewTaskStore creates a task repository over the given substrate.
func NewTaskStore(kv ports.KeyValue, key string, logger *logger.Logger) *TaskStore {
	return &TaskStore{
		kv:     kv,
		key:    key,
		logger: logger.WithComponent("task_store"),
	}
}

// List returns the stored collection. A missing, unreadable, or
// unparseable value yields an empty collection, never an error.
func (s *TaskStore) List(ctx context.Context) ([]entities.Task, error) {
	return s.load(ctx), nil
}

// Get returns the task with the given id.
func (s *TaskStore) Get(ctx context.Context, id string) (entities.Task, error) {
	for _, t := range s.load(ctx) {
		if t.ID == id {
			return t, nil
		}
	}
	return entities.Task{}, entities.ErrTaskNotFound
}

// Add appends one or more tasks in a single write, preserving their
// order. Breakdown steps arrive as a batch and must land together.
func (s *TaskStore) Add(ctx context.Context, tasks ...entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.load(ctx)
	return s.save(ctx, append(stored, tasks...))
}

// Update replaces the stored task with the same id.
func (s *TaskStore) Update(ctx context.Context, task entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.load(ctx)
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			return s.save(ctx, tasks)
		}
	}
	return entities.ErrTaskNotFound
}

// Remove deletes the task with the given id.
func (s *TaskStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.load(ctx)
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return entities.ErrTaskNotFound
	}
	return s.save(ctx, kept)
}

// Replace overwrites the whole collection.
func (s *TaskStore) Replace(ctx context.Context, tasks []entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, tasks)
}

func (s *TaskStore) load(ctx context.Context) []entities.Task {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.LogStoreOp("get", s.key, err)
		return nil
	}
	if !ok {
		return nil
	}
	tasks := decodeCollection[entities.Task](raw)
	if tasks == nil && raw != "" {
		s.logger.Warnw("Discarding unparseable task collection", "key", s.key)
	}
	return tasks
}

func (s *TaskStore) save(ctx context.Context, tasks []entities.Task) error {
	raw, err := encodeCollection(tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.LogStoreOp("set", s.key, err)
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}
