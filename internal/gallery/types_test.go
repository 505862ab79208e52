package gallery

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"", RoleEditor, false},
		{"editor", RoleEditor, false},
		{"admin", RoleAdmin, false},
		{"superadmin", RoleSuperadmin, false},
		{"owner", "", true},
		{"Admin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoverURL(t *testing.T) {
	photo := MediaItem{Kind: KindPhoto, URL: "/p.jpg", ThumbnailURL: "/t.jpg"}
	if got := photo.CoverURL(); got != "/p.jpg" {
		t.Errorf("photo cover = %q, want /p.jpg", got)
	}

	video := MediaItem{Kind: KindVideo, URL: "/v.mp4", ThumbnailURL: "/poster.jpg"}
	if got := video.CoverURL(); got != "/poster.jpg" {
		t.Errorf("video cover = %q, want /poster.jpg", got)
	}
}

func TestMediaItemsRoundTrip(t *testing.T) {
	items := []MediaItem{
		{
			ID:        "photo-1",
			Title:     "Beach",
			Kind:      KindPhoto,
			URL:       "/blobs/abc",
			Date:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Size:      2048,
			Tags:      []string{"family", "memories"},
			Favorite:  true,
			AlbumID:   "album1",
			AlbumName: "Family Gathering",
		},
		{
			ID:           "video-1",
			Title:        "Clip",
			Kind:         KindVideo,
			URL:          "/v.mp4",
			ThumbnailURL: "/poster.jpg",
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Size:         40000,
			Tags:         []string{},
		},
	}

	data, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"type":"photo"`) {
		t.Errorf("kind should serialize under \"type\": %s", data)
	}

	var back []MediaItem
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(items, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, items)
	}
}

func TestKindValid(t *testing.T) {
	if !KindPhoto.Valid() || !KindVideo.Valid() {
		t.Error("photo and video should be valid")
	}
	if Kind("audio").Valid() {
		t.Error("audio should not be valid")
	}
}
