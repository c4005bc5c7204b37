package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/service"
)

// UserHandler is the HTTP surface over UserService.
//
// Create, list filtering, and delete are staff-gated in the service layer.
// Retrieve-by-id is deliberately left open, matching the rest of the
// read-open API — a known asymmetry, since it exposes any user's profile
// (minus the password hash) to any caller, while listing users is gated.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// userRequest is the JSON create payload. The password travels only in
// this direction; responses never carry it.
type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsStaff  bool   `json:"isStaff"`
}

// HandleCreate registers a new user account. Staff only.
//
// HTTP: POST /api/users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	user, err := h.users.Create(r.Context(), auth.ActorFromContext(r.Context()), service.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsStaff:  req.IsStaff,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGetByID returns a single user, deactivated ones included.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleList returns users with pagination. Deactivated users appear only
// for a staff actor sending include_deactivated=1; everyone else gets
// active accounts only, whatever they send.
//
// HTTP: GET /api/users?include_deactivated=1&limit=20&offset=0
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	users, err := h.users.List(
		r.Context(),
		auth.ActorFromContext(r.Context()),
		r.URL.Query().Get("include_deactivated"),
		limit, offset,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleDelete soft-deletes a user account. Staff only. The row survives
// with isActive=false and remains fetchable by id.
//
// HTTP: DELETE /api/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), auth.ActorFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
