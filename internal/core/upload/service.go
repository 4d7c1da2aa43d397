package upload

import (
	"fmt"
	"io"
	"mime/multipart"
)

var imageMimeTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// Service provides file upload functionality with provider switching
type Service struct {
	provider     Provider
	providerName string
}

// NewService creates a new upload service
func NewService(provider Provider) *Service {
	return &Service{
		provider:     provider,
		providerName: provider.GetProviderName(),
	}
}

// Upload uploads a file using the configured provider
func (s *Service) Upload(file io.Reader, filename string, options *UploadOptions) (*UploadResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("upload provider not configured")
	}

	return s.provider.Upload(file, filename, options)
}

// UploadMultipart uploads a file from multipart form
func (s *Service) UploadMultipart(fileHeader *multipart.FileHeader, options *UploadOptions) (*UploadResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("upload provider not configured")
	}

	return s.provider.UploadMultipart(fileHeader, options)
}

// UploadProductImage stores a catalog image, square-cropped to 800px, keyed
// by product so a re-upload replaces the old image.
func (s *Service) UploadProductImage(businessID, productID string, fileHeader *multipart.FileHeader) (*UploadResult, error) {
	return s.UploadMultipart(fileHeader, &UploadOptions{
		Folder:       "products/" + businessID,
		PublicID:     productID,
		Overwrite:    true,
		ResourceType: "image",
		AllowedTypes: imageMimeTypes,
		MaxSize:      5 * 1024 * 1024, // 5MB
		Width:        800,
		Height:       800,
		Crop:         true,
	})
}

// UploadLocationPhoto stores the facade photo an operator attaches to a
// saved delivery address, fitted into 1200px.
func (s *Service) UploadLocationPhoto(customerID string, fileHeader *multipart.FileHeader) (*UploadResult, error) {
	return s.UploadMultipart(fileHeader, &UploadOptions{
		Folder:       "locations/" + customerID,
		ResourceType: "image",
		AllowedTypes: imageMimeTypes,
		MaxSize:      8 * 1024 * 1024, // 8MB
		Width:        1200,
		Height:       1200,
	})
}

// UploadBusinessImage stores a store-profile image. kind is "logo" or
// "cover" and doubles as the public id, so each business keeps one of each.
func (s *Service) UploadBusinessImage(businessID, kind string, fileHeader *multipart.FileHeader) (*UploadResult, error) {
	width, height := 512, 512
	if kind == "cover" {
		width, height = 1600, 900
	}
	return s.UploadMultipart(fileHeader, &UploadOptions{
		Folder:       "businesses/" + businessID,
		PublicID:     kind,
		Overwrite:    true,
		ResourceType: "image",
		AllowedTypes: imageMimeTypes,
		MaxSize:      8 * 1024 * 1024, // 8MB
		Width:        width,
		Height:       height,
		Crop:         true,
	})
}

// Delete deletes a file by public ID
func (s *Service) Delete(publicID string) error {
	if s.provider == nil {
		return fmt.Errorf("upload provider not configured")
	}

	return s.provider.Delete(publicID)
}

// GetURL gets the public URL for a file
func (s *Service) GetURL(publicID string) string {
	if s.provider == nil {
		return ""
	}

	return s.provider.GetURL(publicID)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.providerName
}
