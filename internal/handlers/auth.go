package handlers

import (
	"net/http"
	"strings"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/session"
)

// LoginRequest selects the gate with Admin and carries the shared password.
type LoginRequest struct {
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// AuthResponse represents the response from authentication endpoints
type AuthResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	Redirect        string `json:"redirect,omitempty"`
}

// Pages the gates lead to
const (
	gatePath           = "/"
	homePath           = "/home"
	adminLoginPath     = "/admin/login"
	adminDashboardPath = "/admin/dashboard"
)

// Login checks the password against the front-end or admin gate.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	gate := session.GateFrontend
	if req.Admin {
		gate = session.GateAdmin
	}

	if strings.TrimSpace(req.Password) == "" {
		writeJSONError(w, "Password is required", http.StatusBadRequest)
		return
	}

	ok, err := h.sessions.Login(r.Context(), req.Password, req.Admin)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(string(gate), "error").Inc()
		writeError(w, "login", err)
		return
	}
	if !ok {
		logging.Warn("Failed %s login attempt", gate)
		metrics.AuthAttemptsTotal.WithLabelValues(string(gate), "failure").Inc()
		writeJSONError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues(string(gate), "success").Inc()
	logging.Info("Signed in through the %s gate", gate)

	redirect := homePath
	if req.Admin {
		redirect = adminDashboardPath
	}
	st := h.sessions.State()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AuthResponse{
		Success:         true,
		IsAuthenticated: st.IsAuthenticated,
		IsAdmin:         st.IsAdmin,
		Redirect:        redirect,
	})
}

// Logout clears the session flags.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, "logout", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AuthResponse{
		Success:  true,
		Message:  "Logged out successfully",
		Redirect: gatePath,
	})
}

// CheckAuth reports the current flags, with 401 when nobody is signed in.
func (h *Handlers) CheckAuth(w http.ResponseWriter, r *http.Request) {
	st := h.currentSession(r)
	resp := AuthResponse{
		Success:         st.IsAuthenticated,
		IsAuthenticated: st.IsAuthenticated,
		IsAdmin:         st.IsAdmin,
	}
	if !st.IsAuthenticated {
		writeJSONResponse(w, http.StatusUnauthorized, resp)
		return
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// currentSession re-reads the persisted flags, falling back to the cached
// copy when the store cannot be read.
func (h *Handlers) currentSession(r *http.Request) gallery.SessionState {
	st, err := h.sessions.Refresh(r.Context())
	if err != nil {
		logging.Warn("Failed to refresh session, using cached flags: %v", err)
	}
	return st
}

func isPublicPath(path string) bool {
	switch path {
	case gatePath, adminLoginPath, adminDashboardPath,
		"/health", "/healthz", "/livez", "/readyz", "/version", "/favicon.ico":
		return true
	}
	return strings.HasPrefix(path, "/api/auth/") || strings.HasPrefix(path, "/static/")
}

// AuthMiddleware gates everything except the login views, auth endpoints,
// health checks and static assets behind the front-end session. API requests get a
// 401; page requests are sent back to the gate. The admin dashboard does its
// own check so it can redirect to the admin login instead.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) || h.currentSession(r).IsAuthenticated {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/blobs/") {
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, gatePath, http.StatusFound)
	})
}

// RequireAdmin rejects requests unless the session came through the admin
// gate.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.sessions.State().IsAdmin {
			writeJSONError(w, "Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
