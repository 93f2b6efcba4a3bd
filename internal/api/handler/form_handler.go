package handler

import (
	"encoding/json"
	"net/http"

	"quickfeedback/internal/api/middleware"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/common"
	"quickfeedback/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type FormHandler struct {
	formService *service.FormService
}

func NewFormHandler(fs *service.FormService) *FormHandler {
	return &FormHandler{formService: fs}
}

// RegisterRoutes mounts the owner-facing form API. The router guards the
// whole subtree with the Authenticator; the respondent-facing surface lives
// under /api/f.
func (h *FormHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listForms)    // GET /api/forms (dashboard)
	r.Post("/", h.createForm)  // POST /api/forms
	r.Get("/{formID}", h.getForm)
	r.Put("/{formID}", h.updateForm)
	r.Delete("/{formID}", h.deleteForm)
	r.Put("/{formID}/settings", h.updateSettings)
	r.Put("/{formID}/rules", h.updateRules)
}

func (h *FormHandler) createForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	form, err := h.formService.CreateForm(r.Context(), userID, req)
	if err != nil {
		respondError(w, "Form creation", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, form)
}

func (h *FormHandler) listForms(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	summaries, err := h.formService.ListForms(r.Context(), userID)
	if err != nil {
		respondError(w, "Form listing", err)
		return
	}
	if summaries == nil {
		summaries = []service.FormSummary{}
	}
	common.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *FormHandler) getForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	form, err := h.formService.GetForm(r.Context(), userID, chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, "Form lookup", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, form)
}

func (h *FormHandler) updateForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.UpdateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	form, err := h.formService.UpdateForm(r.Context(), userID, chi.URLParam(r, "formID"), req)
	if err != nil {
		respondError(w, "Form update", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, form)
}

func (h *FormHandler) deleteForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.formService.DeleteForm(r.Context(), userID, chi.URLParam(r, "formID")); err != nil {
		respondError(w, "Form deletion", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Form deleted"})
}

func (h *FormHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var settings model.FormSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	form, err := h.formService.UpdateSettings(r.Context(), userID, chi.URLParam(r, "formID"), settings)
	if err != nil {
		respondError(w, "Settings update", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, form)
}

func (h *FormHandler) updateRules(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var rules []model.BranchingRule
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	form, err := h.formService.UpdateRules(r.Context(), userID, chi.URLParam(r, "formID"), rules)
	if err != nil {
		respondError(w, "Rules update", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, form)
}
