package gallery

import (
	"fmt"
	"time"
)

// Kind distinguishes photos from videos
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPhoto || k == KindVideo
}

// MediaItem is one catalog entry. Identity is ID.
type MediaItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Kind         Kind      `json:"type"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Date         time.Time `json:"date"`
	Size         int64     `json:"size"`
	Tags         []string  `json:"tags"`
	Favorite     bool      `json:"favorite"`
	AlbumID      string    `json:"albumId,omitempty"`
	AlbumName    string    `json:"albumName,omitempty"`
}

// CoverURL is the image used when the item represents an album:
// the media itself for photos and the poster frame for videos.
func (m MediaItem) CoverURL() string {
	if m.Kind == KindVideo {
		return m.ThumbnailURL
	}
	return m.URL
}

// Category IDs
const (
	CategoryAll       = "all"
	CategoryPhotos    = "photos"
	CategoryVideos    = "videos"
	CategoryFavorites = "favorites"
)

// Category is a fixed bucket with a live count. Never persisted.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// Album groups items sharing an album ID. Never persisted.
type Album struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	CoverURL string    `json:"coverUrl"`
	Count    int       `json:"count"`
	Date     time.Time `json:"date"`
}

// AdBanner is a promotional banner shown on the home view.
type AdBanner struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
	Text     string `json:"text"`
	Link     string `json:"link"`
	Order    int    `json:"order"`
}

// Role of an admin account
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
)

// ParseRole validates a role name. An empty name yields RoleEditor.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleEditor, nil
	case RoleSuperadmin, RoleAdmin, RoleEditor:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// AdminUser is an entry in the admin account list.
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// SessionState is the persisted pair of session flags.
type SessionState struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	IsAdmin         bool `json:"isAdmin"`
}

// Visits holds the visit counters. Today is never reset at a day boundary.
type Visits struct {
	Today     int       `json:"today"`
	Total     int       `json:"total"`
	LastVisit time.Time `json:"lastVisit"`
}
