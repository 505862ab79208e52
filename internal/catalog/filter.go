package catalog

import (
	"fmt"
	"sort"
	"strings"

	"photo-gallery/internal/gallery"
)

// Filter narrows the gallery view. The zero value matches everything, which
// is also what the "reset" action on an empty result restores.
type Filter struct {
	Category string `json:"category"`
	AlbumID  string `json:"album"`
	Query    string `json:"q"`
}

// IsZero reports whether the filter is a no-op.
func (f Filter) IsZero() bool {
	return (f.Category == "" || f.Category == gallery.CategoryAll) && f.AlbumID == "" && f.Query == ""
}

// Apply runs category, then album, then text narrowing. The result keeps the
// input order and never aliases the input slice.
func (f Filter) Apply(items []gallery.MediaItem) []gallery.MediaItem {
	out := make([]gallery.MediaItem, 0, len(items))
	query := strings.ToLower(f.Query)

	for _, it := range items {
		if !matchCategory(it, f.Category) {
			continue
		}
		if f.AlbumID != "" && it.AlbumID != f.AlbumID {
			continue
		}
		if query != "" && !matchQuery(it, query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchCategory(it gallery.MediaItem, category string) bool {
	switch category {
	case gallery.CategoryPhotos:
		return it.Kind == gallery.KindPhoto
	case gallery.CategoryVideos:
		return it.Kind == gallery.KindVideo
	case gallery.CategoryFavorites:
		return it.Favorite
	default:
		return true
	}
}

// matchQuery expects query already lowercased.
func matchQuery(it gallery.MediaItem, query string) bool {
	if strings.Contains(strings.ToLower(it.Title), query) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return it.AlbumName != "" && strings.Contains(strings.ToLower(it.AlbumName), query)
}

// SortField names an admin sort column
type SortField string

const (
	SortNone  SortField = ""
	SortTitle SortField = "title"
	SortDate  SortField = "date"
	SortSize  SortField = "size"
	SortKind  SortField = "type"
)

// ParseSortField validates a sort column name.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortNone, SortTitle, SortDate, SortSize, SortKind:
		return SortField(s), nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// AdminFilter is the media manager's independent filter: kind, exact album
// name and free text, followed by an optional sort of its own copy.
type AdminFilter struct {
	Kind      string // "", "all", "photo" or "video"
	AlbumName string // "" or "all" disables
	Query     string
	Sort      SortField
	Desc      bool
}

// Apply filters and sorts a copy of items.
func (f AdminFilter) Apply(items []gallery.MediaItem) []gallery.MediaItem {
	out := make([]gallery.MediaItem, 0, len(items))
	query := strings.ToLower(f.Query)

	for _, it := range items {
		if f.Kind != "" && f.Kind != "all" && string(it.Kind) != f.Kind {
			continue
		}
		if f.AlbumName != "" && f.AlbumName != "all" && it.AlbumName != f.AlbumName {
			continue
		}
		if query != "" && !matchQuery(it, query) {
			continue
		}
		out = append(out, it)
	}

	SortItems(out, f.Sort, f.Desc)
	return out
}

// SortItems sorts in place by field. SortNone leaves the order untouched.
func SortItems(items []gallery.MediaItem, field SortField, desc bool) {
	var less func(a, b gallery.MediaItem) int
	switch field {
	case SortTitle:
		less = func(a, b gallery.MediaItem) int { return strings.Compare(a.Title, b.Title) }
	case SortDate:
		less = func(a, b gallery.MediaItem) int { return a.Date.Compare(b.Date) }
	case SortSize:
		less = func(a, b gallery.MediaItem) int { return cmpInt64(a.Size, b.Size) }
	case SortKind:
		less = func(a, b gallery.MediaItem) int { return strings.Compare(string(a.Kind), string(b.Kind)) }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// AlbumNames lists distinct album names in first-seen order, for the admin
// album dropdown.
func AlbumNames(items []gallery.MediaItem) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, it := range items {
		if it.AlbumName == "" || seen[it.AlbumName] {
			continue
		}
		seen[it.AlbumName] = true
		names = append(names, it.AlbumName)
	}
	return names
}
