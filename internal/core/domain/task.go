package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskFields are the attributes of a to-do item, optionally tied to a project.
type TaskFields struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Assignee    string     `json:"assignee,omitempty"`
	ProjectID   string     `json:"projectID,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Validate checks field-level invariants of a task.
func (f TaskFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(f.Priority) == "" {
		return fmt.Errorf("priority is required")
	}
	return nil
}

// IsOverdue reports whether the task is past its due date at now. Done tasks are never overdue.
func IsOverdue(t Task, now time.Time) bool {
	if t.Status == TaskDone || t.Fields.DueDate == nil {
		return false
	}
	return t.Fields.DueDate.Before(now)
}

// TaskPatch is a partial update of a task.
type TaskPatch struct {
	Status      *Status
	Title       *string
	Description *string
	Priority    *string
	Assignee    *string
	ProjectID   *string
	DueDate     *time.Time
}

func (p TaskPatch) StatusChange() (Status, bool) {
	if p.Status == nil {
		return "", false
	}
	return *p.Status, true
}

func (p TaskPatch) ApplyFields(f *TaskFields) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.Assignee != nil {
		f.Assignee = *p.Assignee
	}
	if p.ProjectID != nil {
		f.ProjectID = *p.ProjectID
	}
	if p.DueDate != nil {
		due := *p.DueDate
		f.DueDate = &due
	}
}

// TaskDescriptor wires tasks into the generic query layer. The category of a task is its priority.
var TaskDescriptor = Descriptor[TaskFields]{
	Kind:     KindTasks,
	Category: func(f TaskFields) string { return f.Priority },
	Date: func(f TaskFields) time.Time {
		if f.DueDate == nil {
			return time.Time{}
		}
		return *f.DueDate
	},
	Text: []func(TaskFields) string{
		func(f TaskFields) string { return f.Title },
		func(f TaskFields) string { return f.Description },
		func(f TaskFields) string { return f.Assignee },
	},
}
