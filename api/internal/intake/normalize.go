package intake

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxDimension = 2048
	// MaxPixels bounds the decoded size. A few hundred KB of compressed zeros can declare
	// a canvas that takes gigabytes to decode.
	MaxPixels   = 50_000_000
	jpegQuality = 85
)

var decodeImage = image.Decode

// Normalize fixes EXIF orientation and downscales so the longer side is at most MaxDimension,
// re-encoding as JPEG. Uploads that need neither, or cannot be decoded, are returned as is.
// It never fails an intake.
func Normalize(u Upload, log *zap.Logger) Upload {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		return u
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		log.Warn("normalize: image too large to decode, passing through",
			zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
		return u
	}
	orientation := Orientation(u.Data)
	if orientation == 1 && cfg.Width <= MaxDimension && cfg.Height <= MaxDimension {
		return u
	}

	img, _, err := decodeImage(bytes.NewReader(u.Data))
	if err != nil {
		log.Debug("normalize: decode failed, passing through", zap.Error(err))
		return u
	}
	if orientation != 1 {
		img = CorrectOrientation(img, orientation)
	}
	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		log.Warn("normalize: encode failed, passing through", zap.Error(err))
		return u
	}
	b := img.Bounds()
	log.Info("upload normalized",
		zap.Int("bytesIn", len(u.Data)),
		zap.Int("bytesOut", buf.Len()),
		zap.Int("orientation", orientation),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return Upload{Data: buf.Bytes(), MIME: "image/jpeg"}
}

// Orientation returns the EXIF orientation tag, or 1 when absent.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// CorrectOrientation returns img transformed so that EXIF orientation o displays upright.
func CorrectOrientation(img image.Image, o int) image.Image {
	if o < 2 || o > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if o >= 5 {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch o {
			case 2: // mirror horizontal
				dst.Set(w-1-x, y, c)
			case 3: // rotate 180
				dst.Set(w-1-x, h-1-y, c)
			case 4: // mirror vertical
				dst.Set(x, h-1-y, c)
			case 5: // transpose
				dst.Set(y, x, c)
			case 6: // rotate 90 clockwise
				dst.Set(h-1-y, x, c)
			case 7: // transverse
				dst.Set(h-1-y, w-1-x, c)
			case 8: // rotate 90 counter-clockwise
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}

func downscale(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}
	nw, nh := max, h*max/w
	if h > w {
		nw, nh = w*max/h, max
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
