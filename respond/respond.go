// Package respond holds the small JSON helpers shared by every handler package:
// encoding success bodies, turning errors into `{"error": "..."}` responses,
// and decoding request bodies.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
)

// maxBodyBytes bounds request bodies; task payloads are small.
const maxBodyBytes = 1 << 20

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("respond: failed to encode response: %v", err)
	}
}

// Error writes err as an error response. Anything that is not an *apperror.AppError
// is reported as a generic 500 so internal details never reach the client.
// Server-side failures are logged together with their underlying cause.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("internal server error", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, appErr)
	}
	JSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// Message is the `{"message": "..."}` body returned by delete endpoints.
type Message struct {
	Message string `json:"message" example:"Task deleted successfully"`
}

// DecodeJSON decodes the request body into dst. An empty or malformed body
// yields a BadRequestError.
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewBadRequestError("Request body must be JSON", err)
		}
		return apperror.NewBadRequestError("Invalid JSON body", err)
	}
	return nil
}

// PathID parses the `{id}` route parameter. ok is false when it is not a
// positive integer.
func PathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
