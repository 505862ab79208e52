package admin

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/logging"
)

// MaxAdImageBytes caps ad banner images.
const MaxAdImageBytes = 5 * 1024 * 1024

// DefaultAdLink is used when an ad is added without a link.
const DefaultAdLink = "#"

// AdInput carries the editable ad fields. Zero values mean "not given".
type AdInput struct {
	ImageURL string `json:"imageUrl"`
	Text     string `json:"text"`
	Link     string `json:"link"`
	Order    *int   `json:"order,omitempty"`
}

// Ads manages the adBanners array.
type Ads struct {
	store kvstore.Store
	now   Clock
	mu    sync.Mutex
}

// NewAds creates an ad manager.
func NewAds(store kvstore.Store, now Clock) *Ads {
	return &Ads{store: store, now: now}
}

// List returns the banners sorted by order.
func (a *Ads) List(ctx context.Context) ([]gallery.AdBanner, error) {
	ads, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	catalog.SortAds(ads)
	return ads, nil
}

// Add appends a banner. Text and image are required; the link defaults to
// "#" and an unset or zero order becomes the list length plus one.
func (a *Ads) Add(ctx context.Context, in AdInput) (ad gallery.AdBanner, err error) {
	defer func() { recordAction("ads", "add", err) }()

	if strings.TrimSpace(in.Text) == "" || in.ImageURL == "" {
		return gallery.AdBanner{}, ErrAdFieldsRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ads, err := a.load(ctx)
	if err != nil {
		return gallery.AdBanner{}, err
	}

	order := len(ads) + 1
	if in.Order != nil && *in.Order != 0 {
		order = *in.Order
	}
	link := in.Link
	if link == "" {
		link = DefaultAdLink
	}

	ad = gallery.AdBanner{
		ID: newID("ad", a.now(), func(id string) bool {
			return indexOfAd(ads, id) >= 0
		}),
		ImageURL: in.ImageURL,
		Text:     in.Text,
		Link:     link,
		Order:    order,
	}
	if err := a.save(ctx, append(ads, ad)); err != nil {
		return gallery.AdBanner{}, err
	}
	logging.Info("Ad %s added (order %d)", ad.ID, ad.Order)
	return ad, nil
}

// Update edits a banner. Text is required; other empty fields keep their
// previous values, while an explicit order (including zero) replaces it.
func (a *Ads) Update(ctx context.Context, id string, in AdInput) (ad gallery.AdBanner, err error) {
	defer func() { recordAction("ads", "update", err) }()

	if strings.TrimSpace(in.Text) == "" {
		return gallery.AdBanner{}, ErrAdTextRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ads, err := a.load(ctx)
	if err != nil {
		return gallery.AdBanner{}, err
	}
	i := indexOfAd(ads, id)
	if i < 0 {
		return gallery.AdBanner{}, fmt.Errorf("ad %s: %w", id, ErrNotFound)
	}

	ad = ads[i]
	ad.Text = in.Text
	if in.Link != "" {
		ad.Link = in.Link
	}
	if in.ImageURL != "" {
		ad.ImageURL = in.ImageURL
	}
	if in.Order != nil {
		ad.Order = *in.Order
	}
	ads[i] = ad

	if err := a.save(ctx, ads); err != nil {
		return gallery.AdBanner{}, err
	}
	return ad, nil
}

// Delete removes a banner by id.
func (a *Ads) Delete(ctx context.Context, id string) (err error) {
	defer func() { recordAction("ads", "delete", err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	ads, err := a.load(ctx)
	if err != nil {
		return err
	}
	i := indexOfAd(ads, id)
	if i < 0 {
		return fmt.Errorf("ad %s: %w", id, ErrNotFound)
	}
	return a.save(ctx, append(ads[:i], ads[i+1:]...))
}

// ImageDataURL validates an uploaded ad image and inlines it as a data URL.
// An empty content type is sniffed from the bytes.
func ImageDataURL(contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if len(data) > MaxAdImageBytes {
		return "", ErrImageTooLarge
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (a *Ads) load(ctx context.Context) ([]gallery.AdBanner, error) {
	var ads []gallery.AdBanner
	if _, err := kvstore.GetJSON(ctx, a.store, kvstore.KeyAdBanners, &ads); err != nil {
		return nil, fmt.Errorf("load ads: %w", err)
	}
	if ads == nil {
		ads = []gallery.AdBanner{}
	}
	return ads, nil
}

func (a *Ads) save(ctx context.Context, ads []gallery.AdBanner) error {
	if err := kvstore.SetJSON(ctx, a.store, kvstore.KeyAdBanners, ads); err != nil {
		return fmt.Errorf("save ads: %w", err)
	}
	return nil
}

func indexOfAd(ads []gallery.AdBanner, id string) int {
	for i, ad := range ads {
		if ad.ID == id {
			return i
		}
	}
	return -1
}
