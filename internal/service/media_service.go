package service

import (
	"bytes"
	"context"
	"io"
	"path"

	"grapebd/g2g/internal/logging"
	"grapebd/g2g/pkg/cloudinary"
	"grapebd/g2g/pkg/imaging"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MediaService recompresses uploads before they reach object storage.
type MediaService struct {
	store     cloudinary.Client
	folder    string
	maxPixels int
}

// NewMediaService accepts a nil store; uploads then fail with ErrStorageDisabled.
// maxPixels overrides the per-preset pixel ceiling when positive.
func NewMediaService(store cloudinary.Client, folder string, maxPixels int) *MediaService {
	return &MediaService{store: store, folder: folder, maxPixels: maxPixels}
}

// Upload compresses r with opts and stores it under <root>/<folder>. Returns the public URL.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, opts imaging.Options, folder string) (string, error) {
	if s == nil || s.store == nil {
		return "", ErrStorageDisabled
	}
	if s.maxPixels > 0 {
		opts.MaxPixels = s.maxPixels
	}
	res, err := imaging.Compress(r, opts)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUnsupportedImage):
			return "", invalid("file is not a supported image")
		case errors.Is(err, imaging.ErrImageTooLarge):
			return "", invalid("image dimensions are too large")
		}
		return "", err
	}
	up, err := s.store.UploadImage(ctx, bytes.NewReader(res.Data), path.Join(s.folder, folder), uuid.NewString())
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	logging.For("media").WithFields(logrus.Fields{
		"folder":  folder,
		"bytes":   len(res.Data),
		"quality": res.Quality,
	}).Debug("image stored")
	return up.URL, nil
}
