package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is a known status value.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority value.
func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description"`
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	DueDate     *time.Time   `db:"due_date" json:"due_date"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at"`
	UserID      *uuid.UUID   `db:"user_id" json:"user_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time   `db:"deleted_at" json:"-"`

	// Owner attributes joined from users; nil for unowned tasks.
	User *TaskOwner `json:"user"`
}

// TaskOwner is the subset of user attributes returned alongside a task.
type TaskOwner struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName *string   `db:"first_name" json:"first_name"`
	LastName  *string   `db:"last_name" json:"last_name"`
}

// DeriveCompletedAt computes the completed_at value for a status transition.
// completed_at is non-nil iff the new status is completed; an already set
// timestamp is preserved when the task stays completed.
func DeriveCompletedAt(oldStatus, newStatus TaskStatus, oldCompletedAt *time.Time, now time.Time) *time.Time {
	if newStatus != StatusCompleted {
		return nil
	}
	if oldStatus == StatusCompleted && oldCompletedAt != nil {
		return oldCompletedAt
	}
	return &now
}

// MarkCompleted returns a copy of t with status completed and completed_at set.
func MarkCompleted(t Task, now time.Time) Task {
	t.CompletedAt = DeriveCompletedAt(t.Status, StatusCompleted, t.CompletedAt, now)
	t.Status = StatusCompleted
	t.UpdatedAt = now
	return t
}

// MarkPending returns a copy of t with status pending and completed_at cleared.
func MarkPending(t Task, now time.Time) Task {
	t.CompletedAt = nil
	t.Status = StatusPending
	t.UpdatedAt = now
	return t
}

// Toggle flips a task between pending and completed.
func Toggle(t Task, now time.Time) Task {
	if t.Status == StatusPending {
		return MarkCompleted(t, now)
	}
	return MarkPending(t, now)
}
