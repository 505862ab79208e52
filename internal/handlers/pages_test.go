package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photo-gallery/internal/gallery"
)

func TestPageRedirects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		admin        bool
		page         func(h *Handlers) http.HandlerFunc
		path         string
		vars         map[string]string
		wantStatus   int
		wantLocation string
	}{
		{"gate", false, func(h *Handlers) http.HandlerFunc { return h.GatePage }, "/", nil, http.StatusOK, ""},
		{"home", false, func(h *Handlers) http.HandlerFunc { return h.HomePage }, "/home", nil, http.StatusOK, ""},
		{"known item", false, func(h *Handlers) http.HandlerFunc { return h.ViewPage }, "/view/a", map[string]string{"id": "a"}, http.StatusOK, ""},
		{"unknown item", false, func(h *Handlers) http.HandlerFunc { return h.ViewPage }, "/view/zz", map[string]string{"id": "zz"}, http.StatusFound, "/home"},
		{"admin login anonymous", false, func(h *Handlers) http.HandlerFunc { return h.AdminLoginPage }, "/admin/login", nil, http.StatusOK, ""},
		{"admin login as admin", true, func(h *Handlers) http.HandlerFunc { return h.AdminLoginPage }, "/admin/login", nil, http.StatusFound, "/admin/dashboard"},
		{"dashboard as viewer", false, func(h *Handlers) http.HandlerFunc { return h.AdminDashboardPage }, "/admin/dashboard", nil, http.StatusFound, "/admin/login"},
		{"dashboard as admin", true, func(h *Handlers) http.HandlerFunc { return h.AdminDashboardPage }, "/admin/dashboard", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, false)
			if err := f.catalog.Save(context.Background(), []gallery.MediaItem{{ID: "a", Kind: gallery.KindPhoto}}); err != nil {
				t.Fatal(err)
			}
			f.login(t, tt.admin)

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.vars != nil {
				req = withVars(req, tt.vars)
			}
			w := httptest.NewRecorder()
			tt.page(f.h)(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if loc := w.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if tt.wantStatus == http.StatusOK {
				if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
					t.Errorf("Content-Type = %q", ct)
				}
				if !strings.Contains(w.Body.String(), `<div id="toast"`) {
					t.Error("shell markup missing")
				}
			}
		})
	}
}

func TestStaticHandler(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	handler := f.h.StaticHandler()

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
	}{
		{"/static/app.js", http.StatusOK, "javascript"},
		{"/static/app.css", http.StatusOK, "text/css"},
		{"/static/missing.js", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
		})
	}
}
