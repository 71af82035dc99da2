package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/internal/services"
)

// AdminHandler provides super-admin account endpoints.
type AdminHandler struct {
	admins *services.AdminService
}

func NewAdminHandler(admins *services.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// AdminRouter registers super-admin routes on the given router.
func AdminRouter(r chi.Router, admins *services.AdminService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewAdminHandler(admins)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.With(authMiddleware, RequireRole(auth.RoleAdmin)).Get("/me", handler.Me)
}

func (h *AdminHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.admins.Signup(r.Context(), services.SignupInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ResultResponse{Message: "super admin registered successfully", Result: admin})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Message: "super admin logged in successfully", Email: res.Email, Token: res.Token})
}

// Me returns the authenticated super admin.
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	admin, err := h.admins.Get(r.Context(), subject.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}
