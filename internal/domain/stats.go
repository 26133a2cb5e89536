package domain

import "math"

// TaskStats aggregates counts over the non-deleted task set, optionally
// scoped to one user.
type TaskStats struct {
	TotalTasks          int64 `json:"total_tasks"`
	PendingTasks        int64 `json:"pending_tasks"`
	CompletedTasks      int64 `json:"completed_tasks"`
	LowPriorityTasks    int64 `json:"low_priority_tasks"`
	MediumPriorityTasks int64 `json:"medium_priority_tasks"`
	HighPriorityTasks   int64 `json:"high_priority_tasks"`
	OverdueTasks        int64 `json:"overdue_tasks"`
	CompletionRate      int   `json:"completion_rate"`
}

// CompletionRate returns round(completed/total*100), 0 for an empty set.
func CompletionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
