// Package preview turns uploaded ID photos into small inline thumbnails.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxEdge is the longest side of a generated thumbnail, in pixels.
const DefaultMaxEdge = 320

// DefaultMaxPixels bounds the decoded size of an upload. A few hundred KB of
// compressed PNG can describe gigabytes of pixels.
const DefaultMaxPixels = 40_000_000

var (
	ErrNotImage      = errors.New("content is not a supported image")
	ErrTooManyPixels = errors.New("image dimensions exceed the preview limit")
)

// Decoder renders JPEG thumbnails as data URIs. The declared content type is
// informational only; the bytes are sniffed.
type Decoder struct {
	MaxEdge   int
	Quality   int
	MaxPixels int
}

func New() *Decoder {
	return &Decoder{MaxEdge: DefaultMaxEdge, Quality: 80, MaxPixels: DefaultMaxPixels}
}

// Decode satisfies ports.PreviewDecoder.
func (d *Decoder) Decode(ctx context.Context, contentType string, data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: sniffed %s, declared %s", ErrNotImage, mt.String(), contentType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s header: %w", mt.String(), err)
	}
	if d.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(d.MaxPixels) {
		return "", fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", mt.String(), err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	thumb := d.scale(src)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: d.Quality}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (d *Decoder) scale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	edge := max(w, h)
	if d.MaxEdge <= 0 || edge <= d.MaxEdge {
		return src
	}
	nw := max(1, w*d.MaxEdge/edge)
	nh := max(1, h*d.MaxEdge/edge)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
