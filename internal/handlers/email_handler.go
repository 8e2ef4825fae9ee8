package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"maildesk/internal/middleware"
	"maildesk/internal/models"
	"maildesk/internal/repository"
)

type EmailHandler struct {
	emails repository.EmailRepository
	v      *validator.Validate
}

func NewEmailHandler(emails repository.EmailRepository) *EmailHandler {
	return &EmailHandler{
		emails: emails,
		v:      validator.New(),
	}
}

// @Tags Emails
// @Summary List the authenticated user's emails
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Email
// @Router /api/v1/emails [get]
func (h *EmailHandler) ListEmails(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	limit, offset := paginationParams(r)
	emails, err := h.emails.ListByUser(r.Context(), id.UserID, limit, offset)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_emails_failed", "Failed to list emails")
		return
	}
	if emails == nil {
		emails = []models.Email{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(emails)
}

// @Tags Emails
// @Summary Create an email for the authenticated user
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} models.Email
// @Router /api/v1/emails [post]
func (h *EmailHandler) CreateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	var req models.CreateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	email := &models.Email{
		ID:        uuid.NewString(),
		Subject:   req.Subject,
		Body:      req.Body,
		UserID:    id.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.emails.Create(r.Context(), email); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_email_failed", "Failed to create email")
		return
	}

	writeJSON(w, http.StatusCreated, email)
}

// @Tags Emails
// @Summary Get one of the authenticated user's emails
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Email
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/emails/{id} [get]
func (h *EmailHandler) GetEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}
	emailID := chi.URLParam(r, "id")
	if emailID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email ID is required")
		return
	}

	email, err := h.emails.GetByID(r.Context(), emailID, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "email_not_found", "Email not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_email_failed", "Failed to load email")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(email)
}

// @Tags Emails
// @Summary Update one of the authenticated user's emails
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.Email
// @Router /api/v1/emails/{id} [put]
func (h *EmailHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}
	emailID := chi.URLParam(r, "id")
	if emailID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email ID is required")
		return
	}

	var req models.UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	email, err := h.emails.Update(r.Context(), emailID, id.UserID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "email_not_found", "Email not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "update_email_failed", "Failed to update email")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(email)
}

// @Tags Emails
// @Summary Delete one of the authenticated user's emails
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/emails/{id} [delete]
func (h *EmailHandler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}
	emailID := chi.URLParam(r, "id")
	if emailID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email ID is required")
		return
	}

	if err := h.emails.Delete(r.Context(), emailID, id.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "email_not_found", "Email not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_email_failed", "Failed to delete email")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Email deleted")
}
