package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"photo-gallery/internal/admin"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/metrics"

	"github.com/gorilla/mux"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// Dashboard returns the overview figures for the admin landing page.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Dashboard(r.Context())
	if err != nil {
		writeError(w, "dashboard", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, stats)
}

// =============================================================================
// Media
// =============================================================================

// AdminListMedia filters and sorts the catalog for the media manager.
func (h *Handlers) AdminListMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortField, err := catalog.ParseSortField(q.Get("sort"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.media.List(r.Context(), catalog.AdminFilter{
		Kind:      q.Get("type"),
		AlbumName: q.Get("album"),
		Query:     q.Get("q"),
		Sort:      sortField,
		Desc:      strings.EqualFold(q.Get("order"), "desc"),
	})
	if err != nil {
		writeError(w, "list media", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, list)
}

// UploadMedia accepts one or more files in the "files" form field.
func (h *Handlers) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if h.refuseUnderPressure(w) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, "Upload exceeds the size limit", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	uploads := make([]admin.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFormFile(fh)
		if err != nil {
			writeError(w, "read upload", err)
			return
		}
		uploads = append(uploads, admin.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	added, err := h.media.Upload(r.Context(), uploads)
	if err != nil {
		writeError(w, "upload media", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, added)
}

func (h *Handlers) refuseUnderPressure(w http.ResponseWriter) bool {
	if !h.memGuard.Busy() {
		return false
	}
	metrics.UploadsRejectedTotal.Inc()
	w.Header().Set("Retry-After", "5")
	writeJSONError(w, "Server is low on memory, try again shortly", http.StatusServiceUnavailable)
	return true
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// RenameMedia changes an item's title.
func (h *Handlers) RenameMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.media.Rename(r.Context(), mux.Vars(r)["id"], req.Title)
	if err != nil {
		writeError(w, "rename media", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, item)
}

// SetMediaFavorite sets or clears an item's favorite flag.
func (h *Handlers) SetMediaFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Favorite bool `json:"favorite"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.media.SetFavorite(r.Context(), mux.Vars(r)["id"], req.Favorite)
	if err != nil {
		writeError(w, "set favorite", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, item)
}

// DeleteMedia removes an item and any blobs only it referenced.
func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.media.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, "delete media", err)
		return
	}
	writeJSONStatus(w, "deleted")
}

// =============================================================================
// Ads
// =============================================================================

// AdminListAds returns the banners in display order.
func (h *Handlers) AdminListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.ads.List(r.Context())
	if err != nil {
		writeError(w, "list ads", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ads)
}

// CreateAd adds a banner.
func (h *Handlers) CreateAd(w http.ResponseWriter, r *http.Request) {
	var in admin.AdInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ad, err := h.ads.Add(r.Context(), in)
	if err != nil {
		writeError(w, "add ad", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, ad)
}

// UpdateAd edits a banner; omitted fields keep their values.
func (h *Handlers) UpdateAd(w http.ResponseWriter, r *http.Request) {
	var in admin.AdInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ad, err := h.ads.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, "update ad", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ad)
}

// DeleteAd removes a banner.
func (h *Handlers) DeleteAd(w http.ResponseWriter, r *http.Request) {
	if err := h.ads.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, "delete ad", err)
		return
	}
	writeJSONStatus(w, "deleted")
}

// UploadAdImage converts the "image" form file into a data URL for a banner.
func (h *Handlers) UploadAdImage(w http.ResponseWriter, r *http.Request) {
	if h.refuseUnderPressure(w) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, admin.MaxAdImageBytes+multipartMemory)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, "An image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	data, err := io.ReadAll(io.LimitReader(file, admin.MaxAdImageBytes+1))
	if err != nil {
		writeError(w, "read ad image", err)
		return
	}

	url, err := admin.ImageDataURL(header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, "ad image", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"imageUrl": url})
}

// =============================================================================
// Users
// =============================================================================

// UserRequest is the add/edit form for admin accounts.
type UserRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ListUsers returns the admin accounts.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, "list users", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, users)
}

// CreateUser adds an admin account.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.Add(r.Context(), req.Username, req.Role)
	if err != nil {
		writeError(w, "add user", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, user)
}

// UpdateUser renames an account or changes its role.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.Update(r.Context(), mux.Vars(r)["id"], req.Username, req.Role)
	if err != nil {
		writeError(w, "update user", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, user)
}

// DeleteUser removes an admin account.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, "delete user", err)
		return
	}
	writeJSONStatus(w, "deleted")
}

// =============================================================================
// Settings
// =============================================================================

// ChangePassword replaces the front-end password.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	h.changePassword(w, r, h.settings.ChangePassword)
}

// ChangeAdminPassword replaces the admin password.
func (h *Handlers) ChangeAdminPassword(w http.ResponseWriter, r *http.Request) {
	h.changePassword(w, r, h.settings.ChangeAdminPassword)
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request,
	change func(ctx context.Context, p admin.PasswordChange) error) {
	var req admin.PasswordChange
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := change(r.Context(), req); err != nil {
		writeError(w, "change password", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AuthResponse{
		Success:         true,
		Message:         "Password updated successfully",
		IsAuthenticated: h.sessions.State().IsAuthenticated,
		IsAdmin:         h.sessions.State().IsAdmin,
	})
}

// ClearCache removes every stored key except the catalog and the admin
// list. The session goes with it, so the client is sent back to the gate.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	removed, err := h.settings.ClearCache(r.Context())
	if err != nil {
		writeError(w, "clear cache", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"removed":  removed,
		"redirect": gatePath,
	})
}
