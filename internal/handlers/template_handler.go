package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"maildesk/internal/models"
	"maildesk/internal/repository"
)

type TemplateHandler struct {
	templates repository.TemplateRepository
	v         *validator.Validate
}

func NewTemplateHandler(templates repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		v:         validator.New(),
	}
}

// @Tags Templates
// @Summary List templates
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Template
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	templates, err := h.templates.List(r.Context(), limit, offset)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_templates_failed", "Failed to list templates")
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(templates)
}

// @Tags Templates
// @Summary Create a template
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} models.Template
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	template := &models.Template{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.templates.Create(r.Context(), template); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_template_failed", "Failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, template)
}

// @Tags Templates
// @Summary Get a template
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Template
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "id")
	if templateID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Template ID is required")
		return
	}

	template, err := h.templates.GetByID(r.Context(), templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "template_not_found", "Template not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_template_failed", "Failed to load template")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(template)
}

// @Tags Templates
// @Summary Update a template
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.Template
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "id")
	if templateID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Template ID is required")
		return
	}

	var req models.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	template, err := h.templates.Update(r.Context(), templateID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "template_not_found", "Template not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "update_template_failed", "Failed to update template")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(template)
}

// @Tags Templates
// @Summary Delete a template
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "id")
	if templateID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Template ID is required")
		return
	}

	if err := h.templates.Delete(r.Context(), templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONErrorResponse(w, http.StatusNotFound, "template_not_found", "Template not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_template_failed", "Failed to delete template")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Template deleted")
}
