package handler

import (
	"encoding/json"
	"net/http"

	"quickfeedback/internal/api/middleware"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/common"

	"github.com/go-chi/chi/v5"
)

// PublicHandler serves the respondent-facing surface: fetching a form by its
// share slug and submitting answers. Authentication is optional here; the
// form's own settings decide whether anonymous submissions are allowed.
type PublicHandler struct {
	formService     *service.FormService
	responseService *service.ResponseService
}

func NewPublicHandler(fs *service.FormService, rs *service.ResponseService) *PublicHandler {
	return &PublicHandler{formService: fs, responseService: rs}
}

func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{formSlug}", h.getForm)                // GET /api/f/my-event-feedback
	r.Post("/{formSlug}/responses", h.submit)      // POST /api/f/my-event-feedback/responses
}

func (h *PublicHandler) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.formService.GetPublicForm(r.Context(), chi.URLParam(r, "formSlug"))
	if err != nil {
		respondError(w, "Form lookup", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, form)
}

func (h *PublicHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	submitterID := middleware.UserIDIfPresent(r)
	result, err := h.responseService.SubmitResponse(r.Context(), chi.URLParam(r, "formSlug"), submitterID, req)
	if err != nil {
		respondError(w, "Response submission", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, result)
}
