package handlers

import (
	"embed"
	"io/fs"
	"net/http"

	"photo-gallery/internal/viewer"

	"github.com/gorilla/mux"
)

//go:embed static
var staticFiles embed.FS

// StaticHandler serves the embedded page assets under /static/.
func (h *Handlers) StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// serveShell writes the single page that renders every view client-side.
func serveShell(w http.ResponseWriter) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, "read page shell", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(page)
}

// GatePage is the front-end password prompt.
func (h *Handlers) GatePage(w http.ResponseWriter, _ *http.Request) {
	serveShell(w)
}

// HomePage is the gallery grid. AuthMiddleware has already sent anonymous
// visitors back to the gate.
func (h *Handlers) HomePage(w http.ResponseWriter, _ *http.Request) {
	serveShell(w)
}

// ViewPage shows one item, or returns to the grid when the id is unknown.
func (h *Handlers) ViewPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Load(r.Context())
	if err != nil {
		writeError(w, "load catalog", err)
		return
	}
	if _, ok := viewer.Locate(items, mux.Vars(r)["id"]); !ok {
		http.Redirect(w, r, viewer.HomePath, http.StatusFound)
		return
	}
	serveShell(w)
}

// AdminLoginPage skips straight to the dashboard for admin sessions.
func (h *Handlers) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.currentSession(r).IsAdmin {
		http.Redirect(w, r, adminDashboardPath, http.StatusFound)
		return
	}
	serveShell(w)
}

// AdminDashboardPage requires an admin session.
func (h *Handlers) AdminDashboardPage(w http.ResponseWriter, r *http.Request) {
	if !h.currentSession(r).IsAdmin {
		http.Redirect(w, r, adminLoginPath, http.StatusFound)
		return
	}
	serveShell(w)
}
