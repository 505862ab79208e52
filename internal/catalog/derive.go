package catalog

import (
	"sort"

	"photo-gallery/internal/gallery"
)

// DeriveCategories returns the four fixed buckets with live counts, in
// display order.
func DeriveCategories(items []gallery.MediaItem) []gallery.Category {
	var photos, videos, favorites int
	for _, it := range items {
		switch it.Kind {
		case gallery.KindPhoto:
			photos++
		case gallery.KindVideo:
			videos++
		}
		if it.Favorite {
			favorites++
		}
	}

	return []gallery.Category{
		{ID: gallery.CategoryAll, Name: "全部媒体", Icon: "fa-layer-group", Count: len(items)},
		{ID: gallery.CategoryPhotos, Name: "照片", Icon: "fa-images", Count: photos},
		{ID: gallery.CategoryVideos, Name: "视频", Icon: "fa-video", Count: videos},
		{ID: gallery.CategoryFavorites, Name: "收藏", Icon: "fa-heart", Count: favorites},
	}
}

// DeriveAlbums groups items by album ID. Items missing either the album ID
// or the album name are skipped. The cover comes from the first member seen,
// the date is the newest member date, and albums are returned newest first.
func DeriveAlbums(items []gallery.MediaItem) []gallery.Album {
	index := make(map[string]int)
	var albums []gallery.Album

	for _, it := range items {
		if it.AlbumID == "" || it.AlbumName == "" {
			continue
		}
		i, ok := index[it.AlbumID]
		if !ok {
			index[it.AlbumID] = len(albums)
			albums = append(albums, gallery.Album{
				ID:       it.AlbumID,
				Name:     it.AlbumName,
				CoverURL: it.CoverURL(),
				Count:    1,
				Date:     it.Date,
			})
			continue
		}
		albums[i].Count++
		if it.Date.After(albums[i].Date) {
			albums[i].Date = it.Date
		}
	}

	if albums == nil {
		return []gallery.Album{}
	}
	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].Date.After(albums[j].Date)
	})
	return albums
}

// SortAds orders banners by ascending order in place. Equal orders keep
// their stored sequence.
func SortAds(ads []gallery.AdBanner) {
	sort.SliceStable(ads, func(i, j int) bool {
		return ads[i].Order < ads[j].Order
	})
}
