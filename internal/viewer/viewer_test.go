package viewer

import (
	"reflect"
	"testing"

	"photo-gallery/internal/gallery"
)

func catalogItems() []gallery.MediaItem {
	return []gallery.MediaItem{
		{ID: "a", Kind: gallery.KindPhoto, Size: 512},
		{ID: "b", Kind: gallery.KindVideo, Size: 2048},
		{ID: "c", Kind: gallery.KindPhoto, Size: 3 * 1024 * 1024},
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		id      string
		index   int
		prev    string
		next    string
		hasPrev bool
		hasNext bool
	}{
		{"a", 0, "", "b", false, true},
		{"b", 1, "a", "c", true, true},
		{"c", 2, "b", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := Locate(catalogItems(), tt.id)
			if !ok {
				t.Fatal("not found")
			}
			if p.Index != tt.index || p.Total != 3 {
				t.Errorf("index %d of %d", p.Index, p.Total)
			}
			if p.PrevID != tt.prev || p.NextID != tt.next || p.HasPrev != tt.hasPrev || p.HasNext != tt.hasNext {
				t.Errorf("neighbours = %+v", p)
			}
		})
	}

	if _, ok := Locate(catalogItems(), "zzz"); ok {
		t.Error("unknown id located")
	}
	if _, ok := Locate(nil, "a"); ok {
		t.Error("located in empty catalog")
	}
}

func TestSingleItemCatalog(t *testing.T) {
	p, ok := Locate([]gallery.MediaItem{{ID: "only"}}, "only")
	if !ok || p.HasPrev || p.HasNext {
		t.Errorf("single item = %+v", p)
	}
	if p.KeyAction("ArrowLeft") != ActionNone || p.KeyAction("ArrowRight") != ActionNone {
		t.Error("arrows should be disabled at both boundaries")
	}
}

func TestKeyAction(t *testing.T) {
	items := catalogItems()
	first, _ := Locate(items, "a")
	video, _ := Locate(items, "b")
	last, _ := Locate(items, "c")

	tests := []struct {
		name   string
		pos    Position
		key    string
		want   Action
		target string
	}{
		{"next from first", first, "ArrowRight", ActionNext, "/view/b"},
		{"prev at first", first, "ArrowLeft", ActionNone, ""},
		{"prev from video", video, "ArrowLeft", ActionPrev, "/view/a"},
		{"next at last", last, "ArrowRight", ActionNone, ""},
		{"escape", last, "Escape", ActionHome, HomePath},
		{"space on video", video, " ", ActionTogglePlay, ""},
		{"space on photo", first, " ", ActionNone, ""},
		{"other key", first, "Enter", ActionNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pos.KeyAction(tt.key)
			if got != tt.want {
				t.Errorf("KeyAction(%q) = %s, want %s", tt.key, got, tt.want)
			}
			if target := tt.pos.Target(got); target != tt.target {
				t.Errorf("Target = %q, want %q", target, tt.target)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 / 2, "2.5 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestBindings(t *testing.T) {
	items := catalogItems()
	first, _ := Locate(items, "a")
	video, _ := Locate(items, "b")
	last, _ := Locate(items, "c")

	tests := []struct {
		name string
		pos  Position
		want map[string]KeyBinding
	}{
		{"first photo", first, map[string]KeyBinding{
			"ArrowRight": {Action: "next", Target: "/view/b"},
			"Escape":     {Action: "home", Target: HomePath},
		}},
		{"middle video", video, map[string]KeyBinding{
			"ArrowLeft":  {Action: "prev", Target: "/view/a"},
			"ArrowRight": {Action: "next", Target: "/view/c"},
			"Escape":     {Action: "home", Target: HomePath},
			" ":          {Action: "toggle"},
		}},
		{"last photo", last, map[string]KeyBinding{
			"ArrowLeft": {Action: "prev", Target: "/view/b"},
			"Escape":    {Action: "home", Target: HomePath},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.pos.Keys, tt.want) {
				t.Errorf("Keys = %+v, want %+v", tt.pos.Keys, tt.want)
			}
		})
	}
}

func TestPathEscapesID(t *testing.T) {
	if got := Path("a b/c"); got != "/view/a%20b%2Fc" {
		t.Errorf("Path = %q", got)
	}
}
