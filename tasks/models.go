// Package tasks implements the per-user task list: CRUD with ownership checks,
// filtered and paginated listing, and completion statistics.
package tasks

import (
	"time"

	"github.com/user/taskmanager-go/categories"
)

// Well-known statuses and priorities. Other strings are stored as given.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID          int64      `json:"id" example:"1"`
	Title       string     `json:"title" example:"Buy milk"`
	Description *string    `json:"description"`
	Status      string     `json:"status" example:"pending"`
	Priority    string     `json:"priority" example:"medium"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      int64      `json:"user_id" example:"1"`
	CategoryID  *int64     `json:"category_id"`
	// Category is loaded together with the task by the repository, nil when uncategorized.
	Category *categories.Category `json:"category"`
}

// SetStatus changes the status and keeps CompletedAt consistent with it:
// moving to completed stamps now unless already stamped, moving anywhere else
// clears it.
func (t *Task) SetStatus(status string, now time.Time) {
	t.Status = status
	if status != StatusCompleted {
		t.CompletedAt = nil
		return
	}
	if t.CompletedAt == nil {
		stamp := now
		t.CompletedAt = &stamp
	}
}
