package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"zurich_todo/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTaskNotFound is returned when an id does not resolve to a live task.
// Soft-deleted rows count as absent.
var ErrTaskNotFound = errors.New("task not found")

// updateColumns is the set of columns the repository will accept in a
// dynamic update. Keys outside this set are dropped, never interpolated.
var updateColumns = map[string]bool{
	"title":        true,
	"description":  true,
	"status":       true,
	"priority":     true,
	"due_date":     true,
	"user_id":      true,
	"completed_at": true,
	"updated_at":   true,
}

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

type taskScanner interface {
	Scan(dest ...any) error
}

func scanTask(row taskScanner) (*domain.Task, error) {
	var t domain.Task
	var ownerID *uuid.UUID
	var ownerUsername, ownerFirst, ownerLast *string

	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
		&t.CompletedAt, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
		&ownerID, &ownerUsername, &ownerFirst, &ownerLast,
	); err != nil {
		return nil, err
	}

	if ownerID != nil {
		t.User = &domain.TaskOwner{
			ID:        *ownerID,
			FirstName: ownerFirst,
			LastName:  ownerLast,
		}
		if ownerUsername != nil {
			t.User.Username = *ownerUsername
		}
	}
	return &t, nil
}

// List returns one page of tasks matching the filter plus the total count
// over the same predicate.
func (r *TaskRepository) List(ctx context.Context, f TaskFilter) ([]*domain.Task, int64, error) {
	listSQL, countSQL, listArgs, countArgs := buildListQuery(f)

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetByID fetches a live task with its owner attributes.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+taskColumns+" "+taskFrom+" WHERE t.id = $1 AND "+activeTask, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, due_date, completed_at, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.CompletedAt, t.UserID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// buildSet renders "col = $n" clauses for the recognized columns of fields,
// in sorted order, appending values to args.
func buildSet(fields map[string]any, args *[]any) []string {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if updateColumns[col] {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	for _, col := range cols {
		*args = append(*args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(*args)))
	}
	return sets
}

// Update applies the given column values to one live task in a single
// statement. The caller is expected to include updated_at and, on status
// changes, the derived completed_at.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	args := []any{}
	sets := buildSet(fields, &args)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE tasks AS t SET %s WHERE t.id = $%d AND %s",
		strings.Join(sets, ", "), len(args), activeTask)

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// BulkUpdate applies the same column values to every live task in ids and
// returns the number of rows actually updated. When the update carries a
// status, completed_at is synchronized per row inside the same statement:
// set (preserving an existing value) on completed, cleared on pending.
func (r *TaskRepository) BulkUpdate(ctx context.Context, ids []uuid.UUID, fields map[string]any, now time.Time) (int64, error) {
	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		rest[k] = v
	}

	args := []any{}
	sets := []string{}
	if status, ok := rest["status"]; ok {
		delete(rest, "status")
		args = append(args, status)
		statusArg := len(args)
		args = append(args, now)
		sets = append(sets,
			fmt.Sprintf("status = $%d", statusArg),
			fmt.Sprintf("completed_at = CASE WHEN $%d::task_status = 'completed' THEN COALESCE(t.completed_at, $%d) ELSE NULL END",
				statusArg, len(args)))
	}
	sets = append(sets, buildSet(rest, &args)...)
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, ids)
	sql := fmt.Sprintf("UPDATE tasks AS t SET %s WHERE t.id = ANY($%d) AND %s",
		strings.Join(sets, ", "), len(args), activeTask)

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SoftDelete marks a live task deleted. Deleting an already deleted task
// reports ErrTaskNotFound.
func (r *TaskRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE tasks AS t SET deleted_at = $1, updated_at = $1 WHERE t.id = $2 AND "+activeTask,
		now, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Stats computes all counters in one aggregate query so every sub-count
// sees the same snapshot. A nil userID means no owner scope.
func (r *TaskRepository) Stats(ctx context.Context, userID *uuid.UUID) (*domain.TaskStats, error) {
	var s domain.TaskStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE t.status = 'pending'),
		       COUNT(*) FILTER (WHERE t.status = 'completed'),
		       COUNT(*) FILTER (WHERE t.priority = 'low'),
		       COUNT(*) FILTER (WHERE t.priority = 'medium'),
		       COUNT(*) FILTER (WHERE t.priority = 'high'),
		       COUNT(*) FILTER (WHERE t.status = 'pending' AND t.due_date < NOW())
		FROM tasks t
		WHERE `+activeTask+` AND ($1::uuid IS NULL OR t.user_id = $1)`,
		userID,
	).Scan(
		&s.TotalTasks, &s.PendingTasks, &s.CompletedTasks,
		&s.LowPriorityTasks, &s.MediumPriorityTasks, &s.HighPriorityTasks,
		&s.OverdueTasks,
	)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	s.CompletionRate = domain.CompletionRate(s.CompletedTasks, s.TotalTasks)
	return &s, nil
}
