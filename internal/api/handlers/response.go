package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
)

const msgPleaseAuthenticate = "Please authenticate."

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError переводит ошибку usecase в HTTP ответ.
// Детали ошибок хранилища клиенту не отдаем, только в лог.
func writeServiceError(w http.ResponseWriter, r *http.Request, fallback *logger.Logger, err error) {
	var validationErr *entity.ValidationError
	var decodeErr *entity.DecodeError
	var persistErr *entity.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &decodeErr):
		writeError(w, http.StatusBadRequest, decodeErr.Error())
	case errors.Is(err, entity.ErrInvalidUpdate), errors.Is(err, entity.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrInvalidCredentials):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, entity.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
	case errors.Is(err, entity.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
	case errors.Is(err, entity.ErrUserNotFound), errors.Is(err, entity.ErrAvatarNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &persistErr):
		logger.FromContext(r.Context(), fallback).Error("storage failure", "op", persistErr.Op, "error", persistErr.Err)
		w.WriteHeader(http.StatusInternalServerError)
	default:
		logger.FromContext(r.Context(), fallback).Error("request failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
