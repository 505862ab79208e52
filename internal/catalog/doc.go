// Package catalog owns the media array stored under the mediaItems key and
// everything computed from it.
//
// The catalog is persisted as a single JSON array. Categories and albums are
// never stored; they are derived on every read by [DeriveCategories] and
// [DeriveAlbums]. The gallery views call [Catalog.Items], which seeds a
// placeholder set of 16 photos and 6 videos the first time nothing is stored.
// Admin views and the viewer use [Catalog.Load], which never seeds.
//
// [Filter] implements the gallery's narrowing pipeline (category, album,
// free text, in that order) and [AdminFilter] the media manager's variant
// with its own sorting.
//
// Visit counters live under the visits key. [Catalog.RecordVisit] increments
// both today and total; today is never rolled over at midnight.
package catalog
