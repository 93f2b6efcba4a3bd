package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"quickfeedback/internal/api/middleware"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/common"

	"github.com/go-chi/chi/v5"
)

// ResponseHandler exposes an owner's view of collected responses: listing,
// analytics, CSV export.
type ResponseHandler struct {
	responseService  *service.ResponseService
	analyticsService *service.AnalyticsService
}

func NewResponseHandler(rs *service.ResponseService, as *service.AnalyticsService) *ResponseHandler {
	return &ResponseHandler{responseService: rs, analyticsService: as}
}

func (h *ResponseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{formID}/responses", h.listResponses)
	r.Get("/{formID}/analytics", h.analytics)
	r.Get("/{formID}/export", h.exportCSV)
}

func (h *ResponseHandler) listResponses(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.responseService.ListResponses(r.Context(), userID, chi.URLParam(r, "formID"), page, pageSize)
	if err != nil {
		respondError(w, "Response listing", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ResponseHandler) analytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	result, err := h.analyticsService.FormAnalytics(r.Context(), userID, chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, "Analytics", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ResponseHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	formID := chi.URLParam(r, "formID")

	// Buffered so ownership failures still go out as plain JSON errors, not
	// half an attachment. The export loads all responses anyway.
	var buf bytes.Buffer
	if err := h.analyticsService.ExportCSV(r.Context(), userID, formID, &buf); err != nil {
		respondError(w, "Export", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "responses-"+formID+".csv"))
	w.Write(buf.Bytes())
}
