package handler

import (
	"encoding/json"
	"net/http"

	"quickfeedback/internal/api/middleware"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/common"

	"github.com/go-chi/chi/v5"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(ts *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: ts}
}

func (h *TemplateHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Get("/", h.listTemplates) // GET /api/templates?category=events
	r.Get("/{templateID}", h.getTemplate)
	r.Post("/{templateID}/use", h.useTemplate)
}

func (h *TemplateHandler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates := h.templateService.ListTemplates(r.URL.Query().Get("category"))
	common.RespondWithJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) getTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.templateService.GetTemplate(chi.URLParam(r, "templateID"))
	if err != nil {
		respondError(w, "Template lookup", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tmpl)
}

func (h *TemplateHandler) useTemplate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	// Body is optional; an empty title falls back to the template name.
	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	form, err := h.templateService.UseTemplate(r.Context(), userID, chi.URLParam(r, "templateID"), req.Title)
	if err != nil {
		respondError(w, "Template instantiation", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, form)
}
