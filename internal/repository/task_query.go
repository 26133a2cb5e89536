package repository

import (
	"fmt"
	"strings"

	"zurich_todo/internal/domain"
	"zurich_todo/internal/pagination"

	"github.com/google/uuid"
)

// activeTask excludes soft-deleted rows. Every task query must carry this
// predicate; queries alias the tasks table as t.
const activeTask = "t.deleted_at IS NULL"

// taskColumns is the column list shared by all task reads, including the
// owner attributes joined from users.
const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.due_date,
	t.completed_at, t.user_id, t.created_at, t.updated_at,
	u.id, u.username, u.first_name, u.last_name`

const taskFrom = `FROM tasks t
	LEFT JOIN users u ON u.id = t.user_id AND u.deleted_at IS NULL`

// sortColumns is the allow-list of sortable columns. Field names are
// validated at the binding layer; anything else falls back to created_at.
var sortColumns = map[string]string{
	"title":      "t.title",
	"status":     "t.status",
	"priority":   "t.priority",
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"due_date":   "t.due_date",
}

// TaskFilter describes a validated list request. Nil/empty fields impose no
// constraint; supplied equality filters combine with AND.
type TaskFilter struct {
	Status    *domain.TaskStatus
	Priority  *domain.TaskPriority
	UserID    *uuid.UUID
	Search    string
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

// buildListQuery turns a filter into the paginated list query and the
// matching count query over the same predicate. All values travel as
// positional parameters; no caller input is interpolated into SQL.
func buildListQuery(f TaskFilter) (listSQL, countSQL string, listArgs, countArgs []any) {
	where := []string{activeTask}
	args := []any{}

	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		where = append(where, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("t.user_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
	}

	whereSQL := strings.Join(where, " AND ")
	countSQL = "SELECT COUNT(*) FROM tasks t WHERE " + whereSQL
	countArgs = args[:len(args):len(args)]

	col, ok := sortColumns[f.SortField]
	if !ok {
		col = "t.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	page, limit := pagination.Normalize(f.Page, f.Limit)
	listArgs = append(countArgs, limit, pagination.Offset(page, limit))
	listSQL = fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		taskColumns, taskFrom, whereSQL, col, dir, len(listArgs)-1, len(listArgs))

	return listSQL, countSQL, listArgs, countArgs
}
