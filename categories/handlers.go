package categories

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/respond"
)

// Handlers exposes the category Service over HTTP. All routes require authentication.
type Handlers struct {
	service *Service
}

// NewHandlers creates category handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// CategoryResponse wraps a category with a status message.
type CategoryResponse struct {
	Message  string    `json:"message" example:"Category created successfully"`
	Category *Category `json:"category"`
}

// RegisterRoutes mounts the category endpoints on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

func notFound() error {
	return apperror.NewNotFoundError("Category not found", nil)
}

// HandleList godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} categories.Category
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/categories [get]
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleCreate godoc
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body categories.CreateCategoryRequest true "Category"
// @Success 201 {object} categories.CategoryResponse
// @Failure 400 {object} apperror.ErrorResponse "Missing name or category already exists"
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/categories [post]
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, CategoryResponse{Message: "Category created successfully", Category: c})
}

// HandleGet godoc
// @Summary Get a category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} categories.Category
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/categories/{id} [get]
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(r)
	if !ok {
		respond.Error(w, r, notFound())
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// HandleUpdate godoc
// @Summary Update a category
// @Description Only the fields present in the body are changed.
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param body body categories.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} categories.CategoryResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/categories/{id} [put]
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(r)
	if !ok {
		respond.Error(w, r, notFound())
		return
	}
	var req UpdateCategoryRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, CategoryResponse{Message: "Category updated successfully", Category: c})
}

// HandleDelete godoc
// @Summary Delete a category
// @Description Tasks in the category are kept and lose their category.
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} respond.Message
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/categories/{id} [delete]
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(r)
	if !ok {
		respond.Error(w, r, notFound())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Category deleted successfully"})
}
