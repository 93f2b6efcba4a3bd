package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"quickfeedback/internal/api/middleware"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/me", h.me)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondError(w, "Registration", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondError(w, "Login", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		respondError(w, "Profile", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.listUsers)
}

func (h *AuthHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		respondError(w, "User listing", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

// respondError keeps server detail out of API responses: domain errors
// pass through verbatim, anything unexpected is logged and flattened to a
// generic 500.
func respondError(w http.ResponseWriter, op string, err error) {
	status := common.HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s failed: %v", op, err)
		common.RespondWithError(w, status, "Server error")
		return
	}
	common.RespondWithError(w, status, err.Error())
}
