package handlers

import (
	"net/http"
	"time"

	"zurich_todo/internal/domain"
	"zurich_todo/internal/repository"
	"zurich_todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// listTasksQuery is the validation boundary for list requests; the sort
// allow-list here is what keeps unvetted field names out of the engine.
type listTasksQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending completed"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Search   string `form:"search" binding:"omitempty,max=255"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort,default=created_at" binding:"omitempty,oneof=title status priority created_at updated_at due_date"`
	Order    string `form:"order,default=desc" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// List handles GET /tasks.
func (h *TaskHandler) List(c *gin.Context) {
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	f := repository.TaskFilter{
		Search:    q.Search,
		Page:      q.Page,
		Limit:     q.Limit,
		SortField: q.Sort,
		SortOrder: q.Order,
	}
	if q.Status != "" {
		st := domain.TaskStatus(q.Status)
		f.Status = &st
	}
	if q.Priority != "" {
		pr := domain.TaskPriority(q.Priority)
		f.Priority = &pr
	}
	if q.UserID != "" {
		uid, _ := uuid.Parse(q.UserID)
		f.UserID = &uid
	}

	result, err := h.tasks.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to retrieve tasks")
		return
	}
	respond(c, http.StatusOK, result, "Tasks retrieved successfully")
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to retrieve task")
		return
	}
	respond(c, http.StatusOK, gin.H{"task": task}, "Task retrieved successfully")
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *uuid.UUID `json:"user_id"`
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		UserID:      req.UserID,
	}
	if req.Status != nil {
		st := domain.TaskStatus(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		pr := domain.TaskPriority(*req.Priority)
		in.Priority = &pr
	}

	task, err := h.tasks.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to create task")
		return
	}
	respond(c, http.StatusCreated, gin.H{"task": task}, "Task created successfully")
}

type updateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *uuid.UUID `json:"user_id"`
}

// Update handles PUT /tasks/:id with replace semantics for supplied fields.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		UserID:      req.UserID,
	}
	if req.Status != nil {
		st := domain.TaskStatus(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		pr := domain.TaskPriority(*req.Priority)
		in.Priority = &pr
	}

	task, err := h.tasks.Update(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to update task")
		return
	}
	respond(c, http.StatusOK, gin.H{"task": task}, "Task updated successfully")
}

// Patch handles PATCH /tasks/:id; the engine filters the payload through
// its field allow-list.
func (h *TaskHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	task, err := h.tasks.Patch(c.Request.Context(), id, data)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to update task")
		return
	}
	respond(c, http.StatusOK, gin.H{"task": task}, "Task updated successfully")
}

// Toggle handles PATCH /tasks/:id/toggle.
func (h *TaskHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Toggle(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to toggle task status")
		return
	}
	respond(c, http.StatusOK, gin.H{"task": task}, "Task marked as "+string(task.Status))
}

// Delete handles DELETE /tasks/:id (soft delete).
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Task not found", "Failed to delete task")
		return
	}
	respond(c, http.StatusOK, nil, "Task deleted successfully")
}

type bulkUpdateRequest struct {
	TaskIDs    []uuid.UUID    `json:"task_ids" binding:"required,min=1"`
	UpdateData map[string]any `json:"update_data" binding:"required"`
}

// BulkUpdate handles PATCH /tasks/bulk.
func (h *TaskHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	result, err := h.tasks.BulkUpdate(c.Request.Context(), req.TaskIDs, req.UpdateData)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to bulk update tasks")
		return
	}
	respond(c, http.StatusOK, result, "Tasks updated successfully")
}

// Stats handles GET /tasks/stats with an optional user_id scope.
func (h *TaskHandler) Stats(c *gin.Context) {
	var userID *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Validation error",
				[]gin.H{{"field": "user_id", "message": "must be a valid UUID"}})
			return
		}
		userID = &uid
	}

	stats, err := h.tasks.Stats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Task not found", "Failed to retrieve task statistics")
		return
	}
	respond(c, http.StatusOK, gin.H{"statistics": stats}, "Task statistics retrieved successfully")
}
