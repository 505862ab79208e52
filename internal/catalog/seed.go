package catalog

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"sort"
	"time"

	"photo-gallery/internal/gallery"
)

// Placeholder dataset shape
const (
	PlaceholderPhotos = 16
	PlaceholderVideos = 6

	placeholderMaxAgeDays = 180
	placeholderImageBase  = "https://space.coze.cn/api/coze_space/gen_image?image_size=square_hd&prompt="
	placeholderVideoURL   = "https://storage.googleapis.com/web-dev-assets/video-and-source-tags/chrome.mp4"
)

type seedAlbum struct {
	id   string
	name string
}

var seedAlbums = []seedAlbum{
	{"album1", "家庭聚会"},
	{"album2", "旅行记录"},
	{"album3", "生日派对"},
	{"album4", "风景摄影"},
}

// DefaultAlbum receives uploads made from the admin panel.
var DefaultAlbum = gallery.Album{ID: seedAlbums[0].id, Name: seedAlbums[0].name}

// Placeholders builds the first-run catalog: 16 photos then 6 videos, each in
// a random album with a random date within the last 180 days, sorted newest
// first. Every fifth photo and every third video is a favorite.
func Placeholders(r *rand.Rand, now time.Time) []gallery.MediaItem {
	items := make([]gallery.MediaItem, 0, PlaceholderPhotos+PlaceholderVideos)

	randomDate := func() time.Time {
		return now.Add(-time.Duration(r.IntN(placeholderMaxAgeDays)) * 24 * time.Hour).UTC()
	}

	for i := 1; i <= PlaceholderPhotos; i++ {
		album := seedAlbums[r.IntN(len(seedAlbums))]
		items = append(items, gallery.MediaItem{
			ID:        fmt.Sprintf("photo-%d", i),
			Title:     fmt.Sprintf("照片 %d", i),
			Kind:      gallery.KindPhoto,
			URL:       placeholderImageBase + url.QueryEscape(fmt.Sprintf("家庭照片 粉色系 温馨 %d", i)),
			Date:      randomDate(),
			Size:      int64(r.IntN(5000) + 1000),
			Tags:      []string{"家庭", "回忆", album.name},
			Favorite:  i%5 == 0,
			AlbumID:   album.id,
			AlbumName: album.name,
		})
	}

	for i := 1; i <= PlaceholderVideos; i++ {
		album := seedAlbums[r.IntN(len(seedAlbums))]
		items = append(items, gallery.MediaItem{
			ID:           fmt.Sprintf("video-%d", i),
			Title:        fmt.Sprintf("视频 %d", i),
			Kind:         gallery.KindVideo,
			URL:          placeholderVideoURL,
			ThumbnailURL: placeholderImageBase + url.QueryEscape(fmt.Sprintf("视频缩略图 家庭 温馨 %d", i)),
			Date:         randomDate(),
			Size:         int64(r.IntN(50000) + 10000),
			Tags:         []string{"家庭", "记录", album.name},
			Favorite:     i%3 == 0,
			AlbumID:      album.id,
			AlbumName:    album.name,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items
}

const placeholderBannerBase = "https://space.coze.cn/api/coze_space/gen_image?image_size=landscape_16_9&prompt="

// PlaceholderAds returns the three banners written alongside a generated
// catalog.
func PlaceholderAds() []gallery.AdBanner {
	return []gallery.AdBanner{
		{ID: "1", ImageURL: placeholderBannerBase + url.QueryEscape("家庭相册活动 照片 温馨 粉色系"), Text: "家庭照片征集活动开始啦！", Link: "#", Order: 1},
		{ID: "2", ImageURL: placeholderBannerBase + url.QueryEscape("家庭活动 亲子 粉色 温馨"), Text: "记录美好瞬间，留住家庭回忆", Link: "#", Order: 2},
		{ID: "3", ImageURL: placeholderBannerBase + url.QueryEscape("照片书 定制 家庭相册 粉色"), Text: "记录美好生活，珍藏珍贵回忆", Link: "#", Order: 3},
	}
}
