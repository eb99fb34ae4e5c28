package dto

import (
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

// CreateTaskRequest defines the data needed to create a new task.
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	Priority    string  `json:"priority" binding:"required"`
	Assignee    string  `json:"assignee" binding:"max=100"`
	ProjectID   string  `json:"projectID" binding:"max=64"`
	DueDate     *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status"`
}

// UpdateTaskRequest defines the data allowed for updating a task.
type UpdateTaskRequest struct {
	Status      *string `json:"status"`
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Priority    *string `json:"priority"`
	Assignee    *string `json:"assignee" binding:"omitempty,max=100"`
	ProjectID   *string `json:"projectID" binding:"omitempty,max=64"`
	DueDate     *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// TaskResponse defines the data returned for a task.
type TaskResponse = RecordResponse[domain.TaskFields]

// TaskSummary counts a filtered set of tasks.
type TaskSummary struct {
	Count      int             `json:"count"`
	ByStatus   []GroupResponse `json:"byStatus"`
	ByPriority []GroupResponse `json:"byPriority"`
	Overdue    []TaskResponse  `json:"overdue"` // due date passed and not done, most overdue first
}
