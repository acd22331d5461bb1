package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/St1cky1/user-service/internal/api/middleware"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
)

type UserHandler struct {
	users UserUseCase
	log   *logger.Logger
}

func NewUserHandler(users UserUseCase, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// Me - GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update - PATCH /users/me
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user, fields)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete - DELETE /users/me, отдает удаленный профиль
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	deleted, err := h.users.DeleteUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}
