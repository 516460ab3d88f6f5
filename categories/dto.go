package categories

import (
	"strings"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/patch"
	"github.com/user/taskmanager-go/validation"
)

// CreateCategoryRequest is the body of POST /api/categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name" example:"Work" validate:"max=50"`
	Description *string `json:"description,omitempty" example:"Things for the day job" validate:"omitempty,max=255"`
	Color       *string `json:"color,omitempty" example:"#e74c3c" validate:"omitempty,hexcolor,max=7"`
}

// Validate checks the create payload.
func (req CreateCategoryRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return apperror.NewValidationError("Category name is required", nil)
	}
	return validation.Struct(req)
}

// UpdateCategoryRequest is the body of PUT /api/categories/{id}. Only keys present
// in the payload are changed.
type UpdateCategoryRequest struct {
	Name        patch.Field[string] `json:"name" swaggertype:"string"`
	Description patch.Field[string] `json:"description" swaggertype:"string"`
	Color       patch.Field[string] `json:"color" swaggertype:"string"`
}

// Validate checks the fields present in the update payload.
func (req UpdateCategoryRequest) Validate() error {
	if req.Name.Set {
		if req.Name.Null || strings.TrimSpace(req.Name.Value) == "" {
			return apperror.NewValidationError("Category name is required", nil)
		}
		if err := validation.Var("name", req.Name.Value, "max=50"); err != nil {
			return err
		}
	}
	if req.Description.HasValue() {
		if err := validation.Var("description", req.Description.Value, "max=255"); err != nil {
			return err
		}
	}
	if req.Color.HasValue() && req.Color.Value != "" {
		if err := validation.Var("color", req.Color.Value, "hexcolor,max=7"); err != nil {
			return err
		}
	}
	return nil
}

// apply copies the present fields onto c. A null or empty color resets it to
// DefaultColor; a null description clears it.
func (req UpdateCategoryRequest) apply(c *Category) {
	if req.Name.HasValue() {
		c.Name = req.Name.Value
	}
	if req.Description.Set {
		c.Description = req.Description.Ptr()
	}
	if req.Color.Set {
		if req.Color.Null || req.Color.Value == "" {
			c.Color = DefaultColor
		} else {
			c.Color = req.Color.Value
		}
	}
}
