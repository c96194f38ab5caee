package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"

	// decoders for the formats browsers upload
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")
	ErrImageTooLarge    = errors.New("image dimensions too large")
)

// DefaultMaxPixels applies when Options.MaxPixels is zero.
const DefaultMaxPixels = 40_000_000

const (
	startQuality = 90
	minQuality   = 10
	qualityStep  = 10
)

// Options bound the output. MaxDimension caps the longest side in pixels; TargetBytes
// is the size the quality search aims for.
type Options struct {
	MaxDimension uint
	TargetBytes  int
	// MaxPixels caps width*height of the source before it is decoded.
	MaxPixels int
}

var (
	AvatarOptions    = Options{MaxDimension: 400, TargetBytes: 50 * 1024}
	PostOptions      = Options{MaxDimension: 1280, TargetBytes: 500 * 1024}
	ThumbnailOptions = Options{MaxDimension: 600, TargetBytes: 100 * 1024}
)

type Result struct {
	Data    []byte
	Quality int
	Width   int
	Height  int
}

// Compress decodes src, downscales it so neither side exceeds MaxDimension and encodes
// JPEG starting at quality 90, stepping down by 10 until the output fits TargetBytes.
// At quality 10 the encoding is returned whatever its size. Sources whose header
// declares more than MaxPixels pixels are rejected with ErrImageTooLarge.
func Compress(src io.Reader, opts Options) (*Result, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedImage, err.Error())
	}
	maxPixels := opts.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, errors.Wrapf(ErrImageTooLarge, "%dx%d", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedImage, err.Error())
	}
	if opts.MaxDimension > 0 {
		img = resize.Thumbnail(opts.MaxDimension, opts.MaxDimension, img, resize.Lanczos3)
	}
	img = flatten(img)
	b := img.Bounds()

	var buf bytes.Buffer
	for q := startQuality; ; q -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, errors.Wrap(err, "encode jpeg")
		}
		if opts.TargetBytes <= 0 || buf.Len() <= opts.TargetBytes || q <= minQuality {
			return &Result{
				Data:    append([]byte(nil), buf.Bytes()...),
				Quality: q,
				Width:   b.Dx(),
				Height:  b.Dy(),
			}, nil
		}
	}
}

// flatten paints img over white so transparent regions do not turn black in JPEG.
func flatten(img image.Image) image.Image {
	if _, ok := img.(*image.YCbCr); ok {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
