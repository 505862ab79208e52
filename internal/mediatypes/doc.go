// Package mediatypes maps file extensions to media kinds and MIME types.
//
// Browsers fill the Content-Type of a multipart file part from their own
// tables and fall back to application/octet-stream for formats they do not
// know, which is common for .mkv, .heic and .3gp. [Resolve] keeps a
// specific declared type and otherwise guesses from the file name, so such
// uploads are still classified as videos or photos and served with a useful
// Content-Type.
package mediatypes
