package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/user/taskmanager-go/apperror"
)

// Page is the body of GET /api/tasks.
type Page struct {
	Tasks   []Task `json:"tasks"`
	Total   int64  `json:"total" example:"3"`
	Page    int    `json:"page" example:"1"`
	PerPage int    `json:"per_page" example:"10"`
	Pages   int    `json:"pages" example:"1"`
}

// Service implements the task operations for an authenticated caller. A task
// that exists but belongs to someone else is reported as forbidden, never as
// missing.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a task Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperror.NewNotFoundError("Task not found", nil)
	case errors.Is(err, ErrCategoryNotFound):
		return apperror.NewNotFoundError("Category not found", nil)
	case errors.Is(err, ErrOwnerNotFound):
		return apperror.NewAuthError("User not found", nil)
	default:
		return err
	}
}

// owned loads task id and checks that userID owns it.
func owned(ctx context.Context, repo Repository, userID, id int64) (*Task, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, apperror.NewForbiddenError("Unauthorized access", nil)
	}
	return t, nil
}

func checkCategory(ctx context.Context, repo Repository, id *int64) error {
	if id == nil {
		return nil
	}
	found, err := repo.CategoryExists(ctx, *id)
	if err != nil {
		return err
	}
	if !found {
		return ErrCategoryNotFound
	}
	return nil
}

// List returns one page of the caller's tasks.
func (s *Service) List(ctx context.Context, p ListParams) (*Page, error) {
	list, total, err := s.store.List(ctx, p)
	if err != nil {
		return nil, translate(err)
	}
	return &Page{
		Tasks:   list,
		Total:   total,
		Page:    p.Page,
		PerPage: p.PerPage,
		Pages:   PageCount(total, p.PerPage),
	}, nil
}

// Get returns task id if userID owns it.
func (s *Service) Get(ctx context.Context, userID, id int64) (*Task, error) {
	t, err := owned(ctx, s.store, userID, id)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// Create stores a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, req CreateTaskRequest) (*Task, error) {
	t, err := req.build(userID, s.timestamp())
	if err != nil {
		return nil, err
	}

	var created *Task
	err = s.store.WithTx(ctx, func(repo Repository) error {
		if err := checkCategory(ctx, repo, t.CategoryID); err != nil {
			return err
		}
		if err := repo.Create(ctx, t); err != nil {
			return err
		}
		created, err = repo.GetByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

// Update applies req to task id after the ownership check.
func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateTaskRequest) (*Task, error) {
	var updated *Task
	err := s.store.WithTx(ctx, func(repo Repository) error {
		t, err := owned(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		if err := req.apply(t, s.timestamp()); err != nil {
			return err
		}
		if req.CategoryID.HasValue() {
			if err := checkCategory(ctx, repo, t.CategoryID); err != nil {
				return err
			}
		}
		if err := repo.Update(ctx, t); err != nil {
			return err
		}
		updated, err = repo.GetByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

// Delete removes task id after the ownership check.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.WithTx(ctx, func(repo Repository) error {
		if _, err := owned(ctx, repo, userID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	return translate(err)
}

// Stats summarizes the caller's tasks by status.
func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	counts, err := s.store.CountByStatus(ctx, userID)
	if err != nil {
		return Stats{}, translate(err)
	}
	return NewStats(counts), nil
}
