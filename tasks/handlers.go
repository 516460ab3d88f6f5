package tasks

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/respond"
)

// Handlers exposes the task Service over HTTP. All routes require authentication.
type Handlers struct {
	service *Service
}

// NewHandlers creates task handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// TaskResponse wraps a task with a status message.
type TaskResponse struct {
	Message string `json:"message" example:"Task created successfully"`
	Task    *Task  `json:"task"`
}

// RegisterRoutes mounts the task endpoints on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

func notFound() error {
	return apperror.NewNotFoundError("Task not found", nil)
}

// HandleList godoc
// @Summary List own tasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param category_id query int false "Filter by category"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(10)
// @Param sort_by query string false "Task field to sort by" default(created_at)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} tasks.Page
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/tasks [get]
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	params, err := ParseListParams(user.ID, r.URL.Query())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	page, err := h.service.List(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

// HandleCreate godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body tasks.CreateTaskRequest true "Task"
// @Success 201 {object} tasks.TaskResponse
// @Failure 400 {object} apperror.ErrorResponse "Missing title or invalid due_date"
// @Failure 404 {object} apperror.ErrorResponse "Category not found"
// @Router /api/tasks [post]
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req CreateTaskRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, TaskResponse{Message: "Task created successfully", Task: t})
}

// HandleGet godoc
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} tasks.Task
// @Failure 403 {object} apperror.ErrorResponse "Task belongs to another user"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/tasks/{id} [get]
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, ok := respond.PathID(r)
	if !ok {
		respond.Error(w, r, notFound())
		return
	}
	t, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

// HandleUpdate godoc
// @Summary Update a task
// @Description Only the fields present in the body are changed. Setting status to completed stamps completed_at once.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body tasks.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} tasks.TaskResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/tasks/{id} [put]
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, ok := respond.PathID(r)
	if !ok {
		respond.Error(w, r, notFound())
		return
	}
	var req UpdateTaskRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.service.Update(r.Context(), user.ID, id, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, TaskResponse{Message: "Task updated successfully", Task: t})
}

// HandleDelete godoc
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} respond.Message
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/tasks/{id} [delete]
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, ok := respond.PathID(r)
	if !ok {
		respond.Error(w, r, notFound())
		return
	}
	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Task deleted successfully"})
}

// HandleStats godoc
// @Summary Task statistics
// @Description Counts the caller's tasks by status.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tasks.Stats
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/stats [get]
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	stats, err := h.service.Stats(r.Context(), user.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}
