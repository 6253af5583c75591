package utils

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// AvatarUploader stores a profile picture and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, file interface{}, publicID string) (string, error)
}

// Avatars is nil when Cloudinary is not configured.
var Avatars AvatarUploader

type CloudinaryUploader struct {
	Client       *cloudinary.Cloudinary
	UploadPreset string
	Folder       string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, uploadPreset string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryUploader{
		Client:       cld,
		UploadPreset: uploadPreset,
		Folder:       "avatars",
	}, nil
}

func (u *CloudinaryUploader) UploadAvatar(ctx context.Context, file interface{}, publicID string) (string, error) {
	overwrite := true
	resp, err := u.Client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         u.Folder,
		UploadPreset:   u.UploadPreset,
		Overwrite:      &overwrite,
		Transformation: "c_thumb,w_200,h_200",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: upload %s: %s", publicID, resp.Error.Message)
	}
	return resp.SecureURL, nil
}
