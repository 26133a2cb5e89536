package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zurich_todo/internal/domain"
	"zurich_todo/internal/pagination"
	"zurich_todo/internal/repository"

	"github.com/google/uuid"
)

// partialUpdateFields is the allow-list for partial and bulk updates.
// Anything else in the payload is dropped before it can reach storage.
var partialUpdateFields = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
	"priority":    true,
	"due_date":    true,
}

// TaskStore is the storage surface the service needs. Implemented by
// repository.TaskRepository.
type TaskStore interface {
	List(ctx context.Context, f repository.TaskFilter) ([]*domain.Task, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	BulkUpdate(ctx context.Context, ids []uuid.UUID, fields map[string]any, now time.Time) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
	Stats(ctx context.Context, userID *uuid.UUID) (*domain.TaskStats, error)
}

type TaskService struct {
	store TaskStore
	now   func() time.Time
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

type ListTasksResult struct {
	Tasks      []*domain.Task  `json:"tasks"`
	Pagination pagination.Meta `json:"pagination"`
}

func (s *TaskService) List(ctx context.Context, f repository.TaskFilter) (*ListTasksResult, error) {
	tasks, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page, limit := pagination.Normalize(f.Page, f.Limit)
	return &ListTasksResult{
		Tasks:      tasks,
		Pagination: pagination.Calculate(page, limit, total),
	}, nil
}

func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	UserID      *uuid.UUID
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "title cannot be empty")
	}

	now := s.now()
	t := domain.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: in.Description,
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		DueDate:     in.DueDate,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	t.CompletedAt = domain.DeriveCompletedAt(domain.StatusPending, t.Status, nil, now)

	if err := s.store.Create(ctx, &t); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

// UpdateTaskInput carries replace semantics: nil fields stay untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	UserID      *uuid.UUID
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*domain.Task, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, invalid("title", "title cannot be empty")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	if in.UserID != nil {
		fields["user_id"] = *in.UserID
	}
	if in.Status != nil {
		fields["status"] = *in.Status
		fields["completed_at"] = domain.DeriveCompletedAt(old.Status, *in.Status, old.CompletedAt, s.now())
	}
	if len(fields) == 0 {
		return nil, invalid("body", "at least one field must be provided for update")
	}

	return s.applyUpdate(ctx, id, fields)
}

// Patch applies a free-form field mapping restricted to the partial-update
// allow-list. Unknown keys are dropped; an empty result after filtering is
// a validation error rather than a no-op write.
func (s *TaskService) Patch(ctx context.Context, id uuid.UUID, data map[string]any) (*domain.Task, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, newStatus, err := filterUpdateData(data)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 && newStatus == nil {
		return nil, invalid("body", "no updatable fields provided")
	}
	if newStatus != nil {
		fields["status"] = *newStatus
		fields["completed_at"] = domain.DeriveCompletedAt(old.Status, *newStatus, old.CompletedAt, s.now())
	}

	return s.applyUpdate(ctx, id, fields)
}

func (s *TaskService) Toggle(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	toggled := domain.Toggle(*old, s.now())
	return s.applyUpdate(ctx, id, map[string]any{
		"status":       toggled.Status,
		"completed_at": toggled.CompletedAt,
	})
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.SoftDelete(ctx, id, s.now())
	if errors.Is(err, repository.ErrTaskNotFound) {
		return ErrNotFound
	}
	return err
}

type BulkUpdateResult struct {
	UpdatedCount int64       `json:"updated_count"`
	TaskIDs      []uuid.UUID `json:"task_ids"`
}

func (s *TaskService) BulkUpdate(ctx context.Context, ids []uuid.UUID, data map[string]any) (*BulkUpdateResult, error) {
	if len(ids) == 0 {
		return nil, invalid("task_ids", "task_ids array is required and cannot be empty")
	}

	fields, newStatus, err := filterUpdateData(data)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 && newStatus == nil {
		return nil, invalid("update_data", "no updatable fields provided")
	}
	if newStatus != nil {
		// completed_at is synchronized per row by the store.
		fields["status"] = *newStatus
	}

	now := s.now()
	fields["updated_at"] = now
	count, err := s.store.BulkUpdate(ctx, ids, fields, now)
	if err != nil {
		return nil, err
	}
	return &BulkUpdateResult{UpdatedCount: count, TaskIDs: ids}, nil
}

func (s *TaskService) Stats(ctx context.Context, userID *uuid.UUID) (*domain.TaskStats, error) {
	return s.store.Stats(ctx, userID)
}

// applyUpdate writes fields plus updated_at in one statement and re-fetches
// the final state with owner attributes.
func (s *TaskService) applyUpdate(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Task, error) {
	fields["updated_at"] = s.now()
	if err := s.store.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// filterUpdateData keeps only allow-listed keys and coerces their values.
// The status value, when present, is returned separately so callers can
// derive completed_at for it.
func filterUpdateData(data map[string]any) (map[string]any, *domain.TaskStatus, error) {
	fields := map[string]any{}
	var newStatus *domain.TaskStatus

	for key, val := range data {
		if !partialUpdateFields[key] {
			continue
		}
		switch key {
		case "title":
			str, ok := val.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return nil, nil, invalid("title", "title cannot be empty")
			}
			fields["title"] = strings.TrimSpace(str)
		case "description":
			if val == nil {
				fields["description"] = nil
				continue
			}
			str, ok := val.(string)
			if !ok {
				return nil, nil, invalid("description", "description must be a string")
			}
			fields["description"] = str
		case "status":
			str, ok := val.(string)
			st := domain.TaskStatus(str)
			if !ok || !st.Valid() {
				return nil, nil, invalid("status", "status must be either pending or completed")
			}
			newStatus = &st
		case "priority":
			str, ok := val.(string)
			p := domain.TaskPriority(str)
			if !ok || !p.Valid() {
				return nil, nil, invalid("priority", "priority must be low, medium, or high")
			}
			fields["priority"] = p
		case "due_date":
			due, err := coerceTime(val)
			if err != nil {
				return nil, nil, invalid("due_date", "due date must be a valid date")
			}
			fields["due_date"] = due
		}
	}
	return fields, newStatus, nil
}

func coerceTime(val any) (*time.Time, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("parse time: %w", err)
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported time value %T", val)
	}
}
