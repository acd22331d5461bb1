package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/St1cky1/user-service/internal/api/middleware"
	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
)

type AuthHandler struct {
	auth AuthUseCase
	log  *logger.Logger
}

func NewAuthHandler(auth AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

// Signup - POST /users
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req entity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login - POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout - POST /users/logout, закрывает только текущую сессию
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	token, tokenOK := middleware.TokenFromContext(r.Context())
	if !ok || !tokenOK {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	if err := h.auth.Logout(r.Context(), user, token); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll - POST /users/logoutAll
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgPleaseAuthenticate)
		return
	}

	if err := h.auth.LogoutAll(r.Context(), user); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
