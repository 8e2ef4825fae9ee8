package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"maildesk/internal/auth"
	"maildesk/internal/middleware"
	"maildesk/internal/models"
	"maildesk/internal/repository"
)

type UserHandler struct {
	users  repository.UserRepository
	logins repository.LoginHistoryRepository
	svc    *auth.Service
	v      *validator.Validate
}

func NewUserHandler(users repository.UserRepository, logins repository.LoginHistoryRepository, svc *auth.Service) *UserHandler {
	return &UserHandler{
		users:  users,
		logins: logins,
		svc:    svc,
		v:      validator.New(),
	}
}

// @Tags Account
// @Summary Get the authenticated user's profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	u, err := h.users.GetByID(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "profile_failed", "Failed to load profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// @Tags Account
// @Summary Update the authenticated user's profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/me [put]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.users.UpdateProfile(r.Context(), id.UserID, &req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "update_failed", "Failed to update profile")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Profile updated")
}

// @Tags Account
// @Summary Change the authenticated user's password
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/users/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.svc.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_password", "Current password is incorrect")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "change_failed", "Failed to change password")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Password changed")
}

// @Tags Account
// @Summary List the authenticated user's login history
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.LoginHistory
// @Router /api/v1/users/login-history [get]
func (h *UserHandler) LoginHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	limit, offset := paginationParams(r)
	history, err := h.logins.ListByUser(r.Context(), id.UserID, limit, offset)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "history_failed", "Failed to load login history")
		return
	}
	if history == nil {
		history = []models.LoginHistory{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(history)
}

func paginationParams(r *http.Request) (limit int, offset int) {
	limit = 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
