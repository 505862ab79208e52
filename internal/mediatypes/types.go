package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind is the broad class of a file, judged by its extension.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// Generic content types that say nothing about the file.
const (
	OctetStream = "application/octet-stream"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// KindOf classifies filename by its extension, ignoring case.
func KindOf(filename string) Kind {
	e := ext(filename)
	if _, ok := imageTypes[e]; ok {
		return KindImage
	}
	if _, ok := videoTypes[e]; ok {
		return KindVideo
	}
	return KindOther
}

// ContentType returns the MIME type for filename's extension, or "" when the
// extension is not a known image or video format.
func ContentType(filename string) string {
	e := ext(filename)
	if ct, ok := imageTypes[e]; ok {
		return ct
	}
	return videoTypes[e]
}

// Resolve returns declared unless it is empty or generic, in which case the
// type implied by filename is used. The result may still be "" or generic
// when neither says anything useful.
func Resolve(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != OctetStream {
		return declared
	}
	if guessed := ContentType(filename); guessed != "" {
		return guessed
	}
	return declared
}
