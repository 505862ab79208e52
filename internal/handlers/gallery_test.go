package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"photo-gallery/internal/blobstore"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/viewer"
)

// =============================================================================
// Home Tests
// =============================================================================

func TestHomeSeedsAndCountsVisits(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	var resp HomeResponse
	for range 2 {
		w := httptest.NewRecorder()
		f.h.Home(w, httptest.NewRequest(http.MethodGet, "/api/home", http.NoBody))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", w.Code, w.Body)
		}
		resp = decodeBody[HomeResponse](t, w)
	}

	if len(resp.Items) != catalog.PlaceholderPhotos+catalog.PlaceholderVideos {
		t.Errorf("items = %d", len(resp.Items))
	}
	if len(resp.Categories) != 4 || resp.Categories[0].Count != 22 {
		t.Errorf("categories = %+v", resp.Categories)
	}
	if len(resp.Albums) == 0 {
		t.Error("expected derived albums")
	}
	if resp.Visits.Today != 2 || resp.Visits.Total != 2 {
		t.Errorf("visits = %+v, want 2/2", resp.Visits)
	}
	if len(resp.Ads) != 3 || resp.Ads[0].Order != 1 {
		t.Errorf("ads = %+v, want the three seeded banners", resp.Ads)
	}
}

func TestHomeMalformedCatalog(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	if err := f.store.Set(context.Background(), kvstore.KeyMediaItems, "[{"); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	f.h.Home(w, httptest.NewRequest(http.MethodGet, "/api/home", http.NoBody))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if v, _ := f.catalog.Visits(context.Background()); v.Total != 0 {
		t.Error("visit recorded despite failed load")
	}
}

// =============================================================================
// ListMedia Tests
// =============================================================================

func TestListMedia(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantEmpty bool
		wantReset bool
	}{
		{"everything", "", 22, false, false},
		{"all category", "?category=all", 22, false, false},
		{"videos", "?category=videos", 6, false, false},
		{"photos", "?category=photos", 16, false, false},
		{"text on tag", "?q=%E5%AE%B6%E5%BA%AD", 22, false, false},
		{"no match", "?q=beach", 0, true, true},
		{"unknown album", "?album=album9", 0, true, true},
		{"padded query", "?q=%E5%AE%B6%E5%BA%AD%20", 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.h.ListMedia(w, httptest.NewRequest(http.MethodGet, "/api/media"+tt.query, http.NoBody))
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			resp := decodeBody[MediaResponse](t, w)
			if resp.Total != tt.wantCount || len(resp.Items) != tt.wantCount || resp.Empty != tt.wantEmpty {
				t.Errorf("total=%d items=%d empty=%v", resp.Total, len(resp.Items), resp.Empty)
			}
			if resp.CanReset != tt.wantReset {
				t.Errorf("canReset = %v, want %v", resp.CanReset, tt.wantReset)
			}
		})
	}
}

func TestListMediaEmptyCatalogHasNothingToReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	w := httptest.NewRecorder()
	f.h.ListMedia(w, httptest.NewRequest(http.MethodGet, "/api/media", http.NoBody))
	resp := decodeBody[MediaResponse](t, w)
	if !resp.Empty || resp.CanReset {
		t.Errorf("empty=%v canReset=%v, want true/false", resp.Empty, resp.CanReset)
	}
}

func TestListMediaFavoritesMatchCategoryCount(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	items, err := f.catalog.Items(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := catalog.DeriveCategories(items)[3].Count

	w := httptest.NewRecorder()
	f.h.ListMedia(w, httptest.NewRequest(http.MethodGet, "/api/media?category=favorites", http.NoBody))
	if resp := decodeBody[MediaResponse](t, w); resp.Total != want {
		t.Errorf("favorites = %d, category count %d", resp.Total, want)
	}
}

// =============================================================================
// Viewer Tests
// =============================================================================

func TestGetMediaPosition(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	items := []gallery.MediaItem{
		{ID: "a", Kind: gallery.KindPhoto, Size: 2048},
		{ID: "b", Kind: gallery.KindVideo},
	}
	if err := f.catalog.Save(context.Background(), items); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	f.h.GetMediaPosition(w, withVars(httptest.NewRequest(http.MethodGet, "/api/media/a", http.NoBody), map[string]string{"id": "a"}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	pos := decodeBody[viewer.Position](t, w)
	if pos.Index != 0 || pos.HasPrev || !pos.HasNext || pos.NextID != "b" || pos.SizeLabel != "2.0 KB" {
		t.Errorf("position = %+v", pos)
	}
	if got := pos.Keys["ArrowRight"]; got.Action != "next" || got.Target != "/view/b" {
		t.Errorf("ArrowRight binding = %+v", got)
	}
	if _, ok := pos.Keys["ArrowLeft"]; ok {
		t.Error("ArrowLeft bound at the first item")
	}
	if _, ok := pos.Keys[" "]; ok {
		t.Error("Space bound on a photo")
	}

	w = httptest.NewRecorder()
	f.h.GetMediaPosition(w, withVars(httptest.NewRequest(http.MethodGet, "/api/media/zzz", http.NoBody), map[string]string{"id": "zzz"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}

// =============================================================================
// Ads / Blobs Tests
// =============================================================================

func TestListAdsSorted(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ads := []gallery.AdBanner{{ID: "x", Order: 3}, {ID: "y", Order: 1}, {ID: "z", Order: 2}}
	if err := kvstore.SetJSON(context.Background(), f.store, kvstore.KeyAdBanners, ads); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	f.h.ListAds(w, httptest.NewRequest(http.MethodGet, "/api/ads", http.NoBody))
	got := decodeBody[[]gallery.AdBanner](t, w)
	if len(got) != 3 || got[0].ID != "y" || got[1].ID != "z" || got[2].ID != "x" {
		t.Errorf("ads = %+v", got)
	}
}

func TestGetBlob(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	data := pngBytes(t, 4, 4)
	blob, err := f.blobs.Put(context.Background(), "image/png", data)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	f.h.GetBlob(w, withVars(httptest.NewRequest(http.MethodGet, blob.URL(), http.NoBody), map[string]string{"key": blob.Key}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "image/png" || w.Body.Len() != len(data) {
		t.Errorf("served %s, %d bytes", w.Header().Get("Content-Type"), w.Body.Len())
	}
	if w.Header().Get("ETag") == "" {
		t.Error("expected an ETag")
	}

	tests := []string{blobstore.KeyFor([]byte("never stored")), "not-a-key"}
	for _, key := range tests {
		w := httptest.NewRecorder()
		f.h.GetBlob(w, withVars(httptest.NewRequest(http.MethodGet, "/blobs/"+key, http.NoBody), map[string]string{"key": key}))
		if w.Code != http.StatusNotFound {
			t.Errorf("GetBlob(%q) = %d, want 404", key, w.Code)
		}
	}
}
