package categories

import (
	"context"
	"errors"
	"time"

	"github.com/user/taskmanager-go/apperror"
)

// Service implements the category operations. Every mutation runs in one transaction.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a category Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperror.NewNotFoundError("Category not found", nil)
	case errors.Is(err, ErrDuplicateName):
		return apperror.NewConflictError("Category already exists", nil)
	default:
		return err
	}
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// Get returns one category.
func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// Create validates req and inserts a new category.
func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c := &Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       DefaultColor,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if req.Color != nil && *req.Color != "" {
		c.Color = *req.Color
	}

	err := s.store.WithTx(ctx, func(repo Repository) error {
		taken, err := repo.NameExists(ctx, c.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// Update applies the fields present in req to category id.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error) {
	var updated *Category
	err := s.store.WithTx(ctx, func(repo Repository) error {
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}
		req.apply(c)
		if req.Name.HasValue() {
			taken, err := repo.NameExists(ctx, c.Name, c.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateName
			}
		}
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

// Delete removes category id. Tasks that referenced it keep existing with no category.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(repo Repository) error {
		return repo.Delete(ctx, id)
	})
	return translate(err)
}
