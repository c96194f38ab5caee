package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"testing"

	"grapebd/g2g/pkg/cloudinary"
	"grapebd/g2g/pkg/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	folders []string
	sizes   []int
}

func (m *memStore) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (*cloudinary.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	m.folders = append(m.folders, folder)
	m.sizes = append(m.sizes, len(data))
	return &cloudinary.UploadResult{URL: "https://cdn.example.com/" + folder + "/" + publicID, PublicID: publicID, Bytes: len(data)}, nil
}

func (m *memStore) Delete(context.Context, string) error { return nil }

func squarePNG(t *testing.T, side int) *bytes.Buffer {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, side, side))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestMediaUploadStoresJPEG(t *testing.T) {
	store := &memStore{}
	svc := NewMediaService(store, "g2g", 0)

	url, err := svc.Upload(context.Background(), squarePNG(t, 64), imaging.AvatarOptions, "avatars")
	require.NoError(t, err)
	assert.Contains(t, url, "g2g/avatars/")
	assert.Equal(t, []string{"g2g/avatars"}, store.folders)
}

func TestMediaUploadRejectsOversizedCanvas(t *testing.T) {
	store := &memStore{}
	svc := NewMediaService(store, "g2g", 100*100)

	_, err := svc.Upload(context.Background(), squarePNG(t, 101), imaging.ThumbnailOptions, "varieties")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.folders)

	_, err = svc.Upload(context.Background(), squarePNG(t, 100), imaging.ThumbnailOptions, "varieties")
	assert.NoError(t, err)
}

func TestMediaUploadWithoutStore(t *testing.T) {
	svc := NewMediaService(nil, "g2g", 0)
	_, err := svc.Upload(context.Background(), bytes.NewReader([]byte{1}), imaging.PostOptions, "posts")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
