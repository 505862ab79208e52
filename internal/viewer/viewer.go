package viewer

import (
	"fmt"
	"net/url"

	"photo-gallery/internal/gallery"
)

// HomePath is where the viewer returns on Escape or an unknown id.
const HomePath = "/home"

// Path returns the viewer URL for a media id.
func Path(id string) string {
	return "/view/" + url.PathEscape(id)
}

// Position locates one item inside the full, unfiltered catalog.
type Position struct {
	Item      gallery.MediaItem `json:"item"`
	Index     int               `json:"index"`
	Total     int               `json:"total"`
	PrevID    string            `json:"prevId,omitempty"`
	NextID    string            `json:"nextId,omitempty"`
	HasPrev   bool              `json:"hasPrev"`
	HasNext   bool              `json:"hasNext"`
	SizeLabel string            `json:"sizeLabel"`
	// Keys holds what each bound key does here; inactive keys are absent.
	Keys map[string]KeyBinding `json:"keys"`
}

// Locate finds id in items. Neighbours are taken by array index, so the
// order is the stored catalog order whatever filter the gallery showed.
func Locate(items []gallery.MediaItem, id string) (Position, bool) {
	for i, it := range items {
		if it.ID != id {
			continue
		}
		p := Position{
			Item:      it,
			Index:     i,
			Total:     len(items),
			HasPrev:   i > 0,
			HasNext:   i < len(items)-1,
			SizeLabel: FormatFileSize(it.Size),
		}
		if p.HasPrev {
			p.PrevID = items[i-1].ID
		}
		if p.HasNext {
			p.NextID = items[i+1].ID
		}
		p.Keys = p.Bindings()
		return p, true
	}
	return Position{}, false
}

// Action is the outcome of a key press
type Action int

const (
	ActionNone Action = iota
	ActionPrev
	ActionNext
	ActionHome
	ActionTogglePlay
)

func (a Action) String() string {
	switch a {
	case ActionPrev:
		return "prev"
	case ActionNext:
		return "next"
	case ActionHome:
		return "home"
	case ActionTogglePlay:
		return "toggle"
	default:
		return "none"
	}
}

// KeyAction maps a KeyboardEvent.key value to an action. Stepping past either
// end of the catalog and Space on a photo do nothing.
func (p Position) KeyAction(key string) Action {
	switch key {
	case "ArrowLeft":
		if p.HasPrev {
			return ActionPrev
		}
	case "ArrowRight":
		if p.HasNext {
			return ActionNext
		}
	case "Escape":
		return ActionHome
	case " ":
		if p.Item.Kind == gallery.KindVideo {
			return ActionTogglePlay
		}
	}
	return ActionNone
}

// Target returns the path an action navigates to, or "" when the action
// stays on the current page.
func (p Position) Target(a Action) string {
	switch a {
	case ActionPrev:
		return Path(p.PrevID)
	case ActionNext:
		return Path(p.NextID)
	case ActionHome:
		return HomePath
	}
	return ""
}

// Keys the viewer page listens for, as KeyboardEvent.key values.
var Keys = []string{"ArrowLeft", "ArrowRight", "Escape", " "}

// KeyBinding is the resolved effect of one key.
type KeyBinding struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// Bindings resolves every viewer key for this position, leaving out keys
// that do nothing here.
func (p Position) Bindings() map[string]KeyBinding {
	out := make(map[string]KeyBinding, len(Keys))
	for _, key := range Keys {
		a := p.KeyAction(key)
		if a == ActionNone {
			continue
		}
		out[key] = KeyBinding{Action: a.String(), Target: p.Target(a)}
	}
	return out
}

// FormatFileSize renders bytes as B, KB or MB with one decimal.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
