// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Task represents one to-do item. Tasks form an adjacency list via
// ParentTaskID; a parent must belong to the same project.
type Task struct {
	ID           int64        `json:"id"`
	ProjectID    int64        `json:"project_id"`
	ParentTaskID *int64       `json:"parent_task_id,omitempty"`
	Title        string       `json:"title"`
	Assignee     string       `json:"assignee"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TaskFilter defines the available parameters for listing tasks.
type TaskFilter struct {
	ProjectID   *int64
	Status      *TaskStatus
	ExcludeDone bool
}

// TaskNode is a task with its sorted children, used by the nested board view.
type TaskNode struct {
	Task     Task        `json:"task"`
	Children []*TaskNode `json:"children,omitempty"`
}
