// This file, `handlers.go`, is responsible for the HTTP side of authentication.
// It acts as the "Controller" layer, analogous to an `AuthController` in Nest.js.
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/respond"
	"github.com/user/taskmanager-go/validation"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the public endpoints and, behind requireAuth, /me.
func (h *Handlers) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/register", h.HandleRegister())
	r.Post("/login", h.HandleLogin())
	r.With(requireAuth).Get("/me", h.HandleMe())
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user and returns it with a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} apperror.ErrorResponse "Missing fields, invalid input, or username/email already exists"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			respond.Error(w, r, apperror.NewValidationError("Missing required fields", nil))
			return
		}
		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}
		// The tag counts characters; bcrypt's limit is in bytes.
		if len(req.Password) > maxPasswordBytes {
			respond.Error(w, r, apperror.NewValidationError("password must be at most 72 bytes", nil))
			return
		}

		user, token, err := h.service.Register(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, AuthResponse{
			Message: "User registered successfully",
			User:    user,
			Token:   token,
		})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Authenticates a user with username and password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User credentials"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} apperror.ErrorResponse "Missing username or password"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		if req.Username == "" || req.Password == "" {
			respond.Error(w, r, apperror.NewValidationError("Missing username or password", nil))
			return
		}

		user, token, err := h.service.Login(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, AuthResponse{
			Message: "Login successful",
			User:    user,
			Token:   token,
		})
	}
}

// HandleMe godoc
// @Summary Current user
// @Description Returns the user the bearer token belongs to.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.User
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/auth/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, user)
	}
}
