package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalProvider stores uploads on the local filesystem. Unlike the hosted
// providers it has no server-side transformations, so images are resized
// in-process before they hit disk.
type LocalProvider struct {
	basePath   string // Base directory for uploads
	baseURL    string // Base URL to access files
	publicPath string // Public path for URL generation
}

// NewLocalProvider creates a new local file storage provider
func NewLocalProvider(basePath, baseURL string) *LocalProvider {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create upload directory: %v", err))
	}

	return &LocalProvider{
		basePath:   basePath,
		baseURL:    baseURL,
		publicPath: "/uploads/",
	}
}

// Upload writes a file under the base path, resizing images when the
// options ask for it.
func (p *LocalProvider) Upload(file io.Reader, filename string, options *UploadOptions) (*UploadResult, error) {
	options = MergeOptions(options)

	ext := filepath.Ext(filename)
	nameWithoutExt := strings.TrimSuffix(filename, ext)

	var finalFilename string
	if options.PublicID != "" {
		finalFilename = options.PublicID + ext
	} else {
		uniqueID := uuid.New().String()[:8]
		finalFilename = fmt.Sprintf("%s_%d_%s%s", nameWithoutExt, time.Now().Unix(), uniqueID, ext)
	}

	if (options.Width > 0 || options.Height > 0) && isImageExt(ext) {
		resized, _, err := resizeImage(file, ext, options.Width, options.Height, options.Crop)
		if err != nil {
			return nil, err
		}
		file = resized
	}

	folderPath := filepath.Join(p.basePath, options.Folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	filePath := filepath.Join(folderPath, finalFilename)

	if !options.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return nil, fmt.Errorf("file already exists: %s", finalFilename)
		}
	}

	out, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, file)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if options.MaxSize > 0 && size > options.MaxSize {
		os.Remove(filePath)
		return nil, fmt.Errorf("file size exceeds maximum allowed size: %d bytes", options.MaxSize)
	}

	publicURL := p.baseURL + p.publicPath + options.Folder + "/" + finalFilename
	publicID := options.Folder + "/" + finalFilename

	return &UploadResult{
		URL:          publicURL,
		SecureURL:    publicURL,
		FileName:     filename,
		Size:         size,
		Format:       strings.TrimPrefix(ext, "."),
		ResourceType: detectResourceType(ext),
		PublicID:     publicID,
	}, nil
}

// UploadMultipart uploads a file from multipart form
func (p *LocalProvider) UploadMultipart(fileHeader *multipart.FileHeader, options *UploadOptions) (*UploadResult, error) {
	options = MergeOptions(options)

	if err := validateMultipart(fileHeader, options); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return p.Upload(file, fileHeader.Filename, options)
}

// Delete deletes a file from local filesystem
func (p *LocalProvider) Delete(publicID string) error {
	filePath := filepath.Join(p.basePath, publicID)

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", publicID)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetURL gets the public URL for a file
func (p *LocalProvider) GetURL(publicID string) string {
	return p.baseURL + p.publicPath + publicID
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}

// detectResourceType detects the resource type based on file extension
func detectResourceType(ext string) string {
	if isImageExt(ext) {
		return "image"
	}
	return "raw"
}
