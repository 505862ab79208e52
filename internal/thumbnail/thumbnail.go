package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"

	// Image format decoders
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// DefaultSize is the bounding box edge for generated thumbnails
	DefaultSize = 200

	// MaxImagePixels is the largest source image we'll decode.
	// A 20MP image needs roughly 80MB as RGBA.
	MaxImagePixels = 20_000_000

	jpegQuality = 80
)

var (
	ErrDisabled = errors.New("thumbnails disabled")
	ErrTooLarge = errors.New("image exceeds pixel limit")
)

// Generator turns uploaded image bytes into small JPEG previews.
type Generator struct {
	size      int
	maxPixels int
	enabled   bool
}

// Option configures a Generator
type Option func(*Generator)

// WithMaxPixels overrides MaxImagePixels.
func WithMaxPixels(n int) Option {
	return func(g *Generator) { g.maxPixels = n }
}

// New returns a generator fitting images into size x size. A size of zero
// or less uses DefaultSize.
func New(size int, enabled bool, opts ...Option) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	g := &Generator{size: size, maxPixels: MaxImagePixels, enabled: enabled}
	for _, opt := range opts {
		opt(g)
	}
	if enabled {
		logging.Debug("Thumbnail generator: enabled, size %dpx", g.size)
	} else {
		logging.Debug("Thumbnail generator: disabled")
	}
	return g
}

func (g *Generator) IsEnabled() bool {
	return g.enabled
}

// Size returns the bounding box edge in pixels.
func (g *Generator) Size() int {
	return g.size
}

// Generate decodes data, honoring EXIF orientation, fits it inside the
// generator's box and encodes the result as JPEG.
func (g *Generator) Generate(data []byte) ([]byte, error) {
	if !g.enabled {
		return nil, ErrDisabled
	}

	start := time.Now()
	out, err := g.generate(data)
	metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	return out, nil
}

func (g *Generator) generate(data []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read image header: %w", err)
	}
	logging.Debug("Thumbnail source: %s %dx%d", format, cfg.Width, cfg.Height)

	if cfg.Width*cfg.Height > g.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, g.size, g.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// DetectFormat identifies common image and video containers from their
// leading bytes. It returns "" when nothing matches.
func DetectFormat(header []byte) string {
	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return "jpeg"

	case len(header) >= 8 && header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47:
		return "png"

	case len(header) >= 4 && header[0] == 0x47 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x38:
		return "gif"

	case len(header) >= 12 && header[0] == 0x52 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x46 &&
		header[8] == 0x57 && header[9] == 0x45 && header[10] == 0x42 && header[11] == 0x50:
		return "webp"

	case len(header) >= 2 && header[0] == 0x42 && header[1] == 0x4D:
		return "bmp"

	case len(header) >= 12 && header[4] == 0x66 && header[5] == 0x74 && header[6] == 0x79 && header[7] == 0x70:
		brand := string(header[8:12])
		if brand == "heic" || brand == "heix" || brand == "mif1" {
			return "heif"
		}
		return "mp4"

	case len(header) >= 4 && header[0] == 0x1A && header[1] == 0x45 && header[2] == 0xDF && header[3] == 0xA3:
		return "webm"
	}
	return ""
}

// IsDecodable reports whether Generate can handle the format DetectFormat
// returned.
func IsDecodable(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp", "bmp":
		return true
	}
	return false
}
