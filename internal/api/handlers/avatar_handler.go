package handlers

import (
	"net/http"
	"strconv"

	"github.com/St1cky1/user-service/internal/api/middleware"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/metrics"
	"github.com/go-chi/chi/v5"
)

type AvatarHandler struct {
	avatars  AvatarUseCase
	maxBytes int64
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewAvatarHandler(avatars AvatarUseCase, maxBytes int64, m *metrics.Metrics, log *logger.Logger) *AvatarHandler {
	return &AvatarHandler{
		avatars:  avatars,
		maxBytes: maxBytes,
		metrics:  m,
		log:      log,
	}
}

// Upload - POST /users/me/avatar
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	file, err := ReadAvatarUpload(w, r, h.maxBytes)
	if err != nil {
		// до нормализации не дошли
		h.metrics.AvatarUpload(metrics.ResultRejected)
		writeServiceError(w, r, h.log, err)
		return
	}

	if err := h.avatars.UploadAvatar(r.Context(), user.ID, user.ID, file); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete - DELETE /users/me/avatar, повторное удаление тоже 200
func (h *AvatarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	if err := h.avatars.ClearAvatar(r.Context(), user.ID, user.ID); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Get - GET /users/{id}/avatar, публичный.
// Нет пользователя, нет аватарки или кривой id - всегда пустой 404.
func (h *AvatarHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	avatar, err := h.avatars.GetAvatar(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", avatar.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(avatar.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(avatar.Data)
}
