package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientPNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func noisePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	rnd := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rnd.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestCompressDownscalesLongestSide(t *testing.T) {
	res, err := Compress(gradientPNG(t, 2000, 1000), AvatarOptions)
	require.NoError(t, err)

	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 200, res.Height)
	assert.LessOrEqual(t, len(res.Data), AvatarOptions.TargetBytes)

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
}

func TestCompressKeepsSmallImages(t *testing.T) {
	res, err := Compress(gradientPNG(t, 120, 80), PostOptions)
	require.NoError(t, err)
	assert.Equal(t, 120, res.Width)
	assert.Equal(t, 80, res.Height)
	assert.Equal(t, startQuality, res.Quality)
}

func TestCompressStopsAtQualityFloor(t *testing.T) {
	res, err := Compress(noisePNG(t, 300, 300), Options{MaxDimension: 300, TargetBytes: 100})
	require.NoError(t, err)
	assert.Equal(t, minQuality, res.Quality)
	assert.Greater(t, len(res.Data), 100)
}

func TestCompressLowersQualityToFit(t *testing.T) {
	full, err := Compress(noisePNG(t, 200, 200), Options{MaxDimension: 200})
	require.NoError(t, err)
	require.Equal(t, startQuality, full.Quality)

	res, err := Compress(noisePNG(t, 200, 200), Options{MaxDimension: 200, TargetBytes: len(full.Data) - 1})
	require.NoError(t, err)
	assert.Less(t, res.Quality, startQuality)
	assert.LessOrEqual(t, len(res.Data), len(full.Data)-1)
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := Compress(strings.NewReader("not an image"), AvatarOptions)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

// pngHeader returns a PNG that declares a w x h grey canvas but carries no pixel data.
func pngHeader(w, h uint32) *bytes.Buffer {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 0, 0, 0, 0) // 8-bit greyscale, no interlace
	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return &buf
}

func TestCompressRejectsHugeCanvas(t *testing.T) {
	_, err := Compress(pngHeader(12000, 12000), ThumbnailOptions)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.NotErrorIs(t, err, ErrUnsupportedImage)
}

func TestCompressHonoursMaxPixels(t *testing.T) {
	opts := ThumbnailOptions
	opts.MaxPixels = 200 * 200

	_, err := Compress(gradientPNG(t, 300, 300), opts)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	res, err := Compress(gradientPNG(t, 200, 200), opts)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Width)
}
