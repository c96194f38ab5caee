package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client stores already-compressed images.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type UploadResult struct {
	URL      string
	PublicID string
	Bytes    int
}

// Images arrive compressed, so delivery only asks for automatic format.
const ImageFetchFormat = "f_auto"

// BuildImageURL returns the delivery URL for a stored public id.
func BuildImageURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s", cloudName, ImageFetchFormat, publicID)
}

var overwrite = true

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return nil, err
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	url := result.SecureURL
	if url == "" {
		url = BuildImageURL(c.cloudName, result.PublicID)
	}
	return &UploadResult{URL: url, PublicID: result.PublicID, Bytes: result.Bytes}, nil
}

func (c *clientImpl) Delete(ctx context.Context, publicID string) error {
	_, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
