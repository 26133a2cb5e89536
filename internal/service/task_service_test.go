package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"zurich_todo/internal/domain"
	"zurich_todo/internal/repository"

	"github.com/google/uuid"
)

// fakeStore keeps tasks in memory and applies update field maps the way the
// SQL layer would.
type fakeStore struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[uuid.UUID]*domain.Task{}}
}

func (f *fakeStore) live(id uuid.UUID) *domain.Task {
	t, ok := f.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil
	}
	return t
}

func (f *fakeStore) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, int64, error) {
	var res []*domain.Task
	for _, t := range f.tasks {
		if t.DeletedAt == nil {
			res = append(res, t)
		}
	}
	return res, int64(len(res)), nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t := f.live(id)
	if t == nil {
		return nil, repository.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) Create(ctx context.Context, t *domain.Task) error {
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeStore) apply(t *domain.Task, fields map[string]any) {
	for col, val := range fields {
		switch col {
		case "title":
			t.Title = val.(string)
		case "description":
			switch v := val.(type) {
			case nil:
				t.Description = nil
			case string:
				t.Description = &v
			case *string:
				t.Description = v
			}
		case "status":
			t.Status = val.(domain.TaskStatus)
		case "priority":
			t.Priority = val.(domain.TaskPriority)
		case "due_date":
			switch v := val.(type) {
			case nil:
				t.DueDate = nil
			case time.Time:
				t.DueDate = &v
			case *time.Time:
				t.DueDate = v
			}
		case "completed_at":
			switch v := val.(type) {
			case nil:
				t.CompletedAt = nil
			case *time.Time:
				t.CompletedAt = v
			}
		case "user_id":
			switch v := val.(type) {
			case nil:
				t.UserID = nil
			case uuid.UUID:
				t.UserID = &v
			case *uuid.UUID:
				t.UserID = v
			}
		case "updated_at":
			t.UpdatedAt = val.(time.Time)
		}
	}
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	t := f.live(id)
	if t == nil {
		return repository.ErrTaskNotFound
	}
	f.apply(t, fields)
	return nil
}

func (f *fakeStore) BulkUpdate(ctx context.Context, ids []uuid.UUID, fields map[string]any, now time.Time) (int64, error) {
	var count int64
	for _, id := range ids {
		t := f.live(id)
		if t == nil {
			continue
		}
		if status, ok := fields["status"]; ok {
			st := status.(domain.TaskStatus)
			t.CompletedAt = domain.DeriveCompletedAt(t.Status, st, t.CompletedAt, now)
		}
		f.apply(t, fields)
		count++
	}
	return count, nil
}

func (f *fakeStore) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	t := f.live(id)
	if t == nil {
		return repository.ErrTaskNotFound
	}
	t.DeletedAt = &now
	return nil
}

func (f *fakeStore) Stats(ctx context.Context, userID *uuid.UUID) (*domain.TaskStats, error) {
	s := &domain.TaskStats{}
	for _, t := range f.tasks {
		if t.DeletedAt != nil {
			continue
		}
		if userID != nil && (t.UserID == nil || *t.UserID != *userID) {
			continue
		}
		s.TotalTasks++
		if t.Status == domain.StatusCompleted {
			s.CompletedTasks++
		} else {
			s.PendingTasks++
		}
	}
	s.CompletionRate = domain.CompletionRate(s.CompletedTasks, s.TotalTasks)
	return s, nil
}

func newTestService() (*TaskService, *fakeStore) {
	store := newFakeStore()
	svc := NewTaskService(store)
	return svc, store
}

func mustCreate(t *testing.T, svc *TaskService, in CreateTaskInput) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return task
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService()

	task := mustCreate(t, svc, CreateTaskInput{Title: "  Write report  "})
	if task.Title != "Write report" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Status != domain.StatusPending || task.Priority != domain.PriorityMedium {
		t.Fatalf("expected pending/medium defaults, got %s/%s", task.Status, task.Priority)
	}
	if task.CompletedAt != nil {
		t.Fatalf("pending task must have nil completed_at")
	}
}

func TestCreate_CompletedSetsTimestamp(t *testing.T) {
	svc, _ := newTestService()

	completed := domain.StatusCompleted
	task := mustCreate(t, svc, CreateTaskInput{Title: "done already", Status: &completed})
	if task.CompletedAt == nil {
		t.Fatalf("completed task must carry completed_at")
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateTaskInput{Title: "   "})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Details[0].Field != "title" {
		t.Fatalf("expected title field error, got %+v", ve.Details)
	}
}

func TestUpdate_StatusSynchronizesCompletedAt(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "sync me"})

	completed := domain.StatusCompleted
	updated, err := svc.Update(context.Background(), task.ID, UpdateTaskInput{Status: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted || updated.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %s %v", updated.Status, updated.CompletedAt)
	}

	pending := domain.StatusPending
	updated, err = svc.Update(context.Background(), task.ID, UpdateTaskInput{Status: &pending})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatalf("pending task must have nil completed_at, got %v", updated.CompletedAt)
	}
}

func TestUpdate_IgnoresCallerCompletedAt(t *testing.T) {
	// completed_at is not part of any update input; the only way to move it
	// is through a status transition.
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "hands off"})

	updated, err := svc.Patch(context.Background(), task.ID, map[string]any{
		"completed_at": time.Now().Format(time.RFC3339),
		"title":        "still pending",
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatalf("caller-supplied completed_at must be ignored, got %v", updated.CompletedAt)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()

	title := "ghost"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateTaskInput{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_EmptyInput(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "untouched"})

	_, err := svc.Update(context.Background(), task.ID, UpdateTaskInput{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty update, got %v", err)
	}
}

func TestPatch_AllowList(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "patch me"})

	// only unknown keys: validation error, not a silent no-op
	_, err := svc.Patch(context.Background(), task.ID, map[string]any{"foo": "bar"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unrecognized fields, got %v", err)
	}

	// unknown keys alongside known ones are dropped
	updated, err := svc.Patch(context.Background(), task.ID, map[string]any{
		"foo":      "bar",
		"priority": "high",
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Priority != domain.PriorityHigh {
		t.Fatalf("expected priority high, got %s", updated.Priority)
	}
}

func TestPatch_RejectsInvalidEnums(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "strict enums"})

	var ve *ValidationError
	if _, err := svc.Patch(context.Background(), task.ID, map[string]any{"status": "archived"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown status, got %v", err)
	}
	if _, err := svc.Patch(context.Background(), task.ID, map[string]any{"priority": "urgent"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown priority, got %v", err)
	}
}

func TestPatch_StatusTransition(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "patch status"})

	updated, err := svc.Patch(context.Background(), task.ID, map[string]any{"status": "completed"})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted || updated.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %s %v", updated.Status, updated.CompletedAt)
	}
}

func TestToggle_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "toggle me"})

	once, err := svc.Toggle(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if once.Status != domain.StatusCompleted || once.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %s %v", once.Status, once.CompletedAt)
	}

	twice, err := svc.Toggle(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if twice.Status != domain.StatusPending || twice.CompletedAt != nil {
		t.Fatalf("expected pending with nil completed_at, got %s %v", twice.Status, twice.CompletedAt)
	}
}

func TestToggle_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Toggle(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_SecondDeleteNotFound(t *testing.T) {
	svc, _ := newTestService()
	task := mustCreate(t, svc, CreateTaskInput{Title: "delete me"})

	if err := svc.Delete(context.Background(), task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := svc.Get(context.Background(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted task must be invisible to get, got %v", err)
	}
}

func TestBulkUpdate_Validation(t *testing.T) {
	svc, _ := newTestService()

	var ve *ValidationError
	if _, err := svc.BulkUpdate(context.Background(), nil, map[string]any{"priority": "low"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty id list, got %v", err)
	}
	if _, err := svc.BulkUpdate(context.Background(), []uuid.UUID{uuid.New()}, map[string]any{"foo": 1}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty filtered payload, got %v", err)
	}
}

func TestBulkUpdate_CountsOnlyLiveRows(t *testing.T) {
	svc, _ := newTestService()

	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, mustCreate(t, svc, CreateTaskInput{Title: "bulk"}).ID)
	}
	for _, id := range ids[:2] {
		if err := svc.Delete(context.Background(), id); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	}

	result, err := svc.BulkUpdate(context.Background(), ids, map[string]any{"status": "completed"})
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if result.UpdatedCount != 3 {
		t.Fatalf("expected 3 updated rows, got %d", result.UpdatedCount)
	}

	// invariant holds for every surviving task
	for _, id := range ids[2:] {
		task, err := svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if task.Status != domain.StatusCompleted || task.CompletedAt == nil {
			t.Fatalf("bulk-completed task missing completed_at: %s %v", task.Status, task.CompletedAt)
		}
	}
}

func TestStats_CompletionRate(t *testing.T) {
	svc, _ := newTestService()
	completed := domain.StatusCompleted

	for i := 0; i < 2; i++ {
		mustCreate(t, svc, CreateTaskInput{Title: "p"})
		mustCreate(t, svc, CreateTaskInput{Title: "c", Status: &completed})
	}

	stats, err := svc.Stats(context.Background(), nil)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.CompletionRate != 50 {
		t.Fatalf("expected completion_rate 50, got %d", stats.CompletionRate)
	}
}

func TestStats_EmptySet(t *testing.T) {
	svc, _ := newTestService()

	stats, err := svc.Stats(context.Background(), nil)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalTasks != 0 || stats.CompletionRate != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}
