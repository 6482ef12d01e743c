package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaService загружает изображения во внешнее медиахранилище и возвращает постоянные URL
type MediaService interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (string, error)
}

// NoopMediaService используется, когда загрузка изображений отключена (локальная разработка).
// Загрузки отклоняются, чтобы вопрос не был создан с битой ссылкой на изображение.
type NoopMediaService struct{}

func (s *NoopMediaService) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	log.Printf("[MediaService] noop upload rejected, folder=%s", folder)
	return "", fmt.Errorf("media uploads are disabled")
}

// CloudinaryMediaService загружает изображения через SDK Cloudinary
type CloudinaryMediaService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryMediaService(cloudinaryURL string) (*CloudinaryMediaService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryMediaService{cld: cld}, nil
}

// UploadImage загружает изображение в заданную папку и возвращает постоянный URL
func (s *CloudinaryMediaService) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return result.SecureURL, nil
}
