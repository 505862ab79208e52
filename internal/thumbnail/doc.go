// Package thumbnail generates JPEG previews for uploaded photos.
//
// Sources are decoded with github.com/disintegration/imaging, which applies
// EXIF orientation, and fitted into a square box with Lanczos resampling.
// JPEG, PNG, GIF, BMP and WebP inputs are supported. Images above
// MaxImagePixels are rejected before full decoding.
package thumbnail
