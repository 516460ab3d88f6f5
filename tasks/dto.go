package tasks

import (
	"strings"
	"time"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/patch"
	"github.com/user/taskmanager-go/validation"
)

const (
	msgTitleRequired   = "Task title is required"
	msgBadDueDate      = "Invalid due_date format. Use ISO format"
	msgBadDueDateOnPut = "Invalid due_date format"
)

// CreateTaskRequest is the body of POST /api/tasks. Status and priority default
// to pending and medium when omitted.
type CreateTaskRequest struct {
	Title       string  `json:"title" example:"Buy milk"`
	Description *string `json:"description,omitempty" example:"Two litres"`
	Status      *string `json:"status,omitempty" example:"pending"`
	Priority    *string `json:"priority,omitempty" example:"high"`
	// DueDate is an ISO-8601 date or date-time.
	DueDate    *string `json:"due_date,omitempty" example:"2024-03-01T09:30:00"`
	CategoryID *int64  `json:"category_id,omitempty" example:"1"`
}

// build validates req and returns the task it describes, not yet stored.
func (req CreateTaskRequest) build(userID int64, now time.Time) (*Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperror.NewValidationError(msgTitleRequired, nil)
	}
	if err := validation.Var("title", req.Title, "max=200"); err != nil {
		return nil, err
	}

	t := &Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
		CategoryID:  req.CategoryID,
	}

	status := StatusPending
	if req.Status != nil {
		if err := validation.Var("status", *req.Status, "required,max=20"); err != nil {
			return nil, err
		}
		status = *req.Status
	}
	t.SetStatus(status, now)

	if req.Priority != nil {
		if err := validation.Var("priority", *req.Priority, "required,max=20"); err != nil {
			return nil, err
		}
		t.Priority = *req.Priority
	}

	if req.DueDate != nil {
		due, err := ParseISOTime(*req.DueDate)
		if err != nil {
			return nil, apperror.NewValidationError(msgBadDueDate, err)
		}
		t.DueDate = &due
	}
	return t, nil
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Only keys present in the
// payload are changed; null clears description, due_date and category_id.
type UpdateTaskRequest struct {
	Title       patch.Field[string] `json:"title" swaggertype:"string"`
	Description patch.Field[string] `json:"description" swaggertype:"string"`
	Status      patch.Field[string] `json:"status" swaggertype:"string"`
	Priority    patch.Field[string] `json:"priority" swaggertype:"string"`
	DueDate     patch.Field[string] `json:"due_date" swaggertype:"string"`
	CategoryID  patch.Field[int64]  `json:"category_id" swaggertype:"integer"`
}

// apply validates the present fields and copies them onto t. It changes nothing
// when it returns an error.
func (req UpdateTaskRequest) apply(t *Task, now time.Time) error {
	if req.Title.Set {
		if strings.TrimSpace(req.Title.Value) == "" {
			return apperror.NewValidationError(msgTitleRequired, nil)
		}
		if err := validation.Var("title", req.Title.Value, "max=200"); err != nil {
			return err
		}
	}
	if req.Status.Set {
		if err := validation.Var("status", req.Status.Value, "required,max=20"); err != nil {
			return err
		}
	}
	if req.Priority.Set {
		if err := validation.Var("priority", req.Priority.Value, "required,max=20"); err != nil {
			return err
		}
	}
	var due *time.Time
	if req.DueDate.HasValue() && req.DueDate.Value != "" {
		parsed, err := ParseISOTime(req.DueDate.Value)
		if err != nil {
			return apperror.NewValidationError(msgBadDueDateOnPut, err)
		}
		due = &parsed
	}

	if req.Title.Set {
		t.Title = req.Title.Value
	}
	if req.Description.Set {
		t.Description = req.Description.Ptr()
	}
	if req.Status.Set {
		t.SetStatus(req.Status.Value, now)
	}
	if req.Priority.Set {
		t.Priority = req.Priority.Value
	}
	if req.DueDate.Set {
		t.DueDate = due
	}
	if req.CategoryID.Set {
		t.CategoryID = req.CategoryID.Ptr()
		t.Category = nil
	}
	t.UpdatedAt = now
	return nil
}
