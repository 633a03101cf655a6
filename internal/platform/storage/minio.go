// File: internal/platform/storage/minio.go
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"kuwait_portal_backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Service is the object storage abstraction used by the listing and user
// services. Uploads are path-addressed and return a public URL.
type Service interface {
	Upload(ctx context.Context, prefix, fileName, contentType string, file io.Reader, size int64) (string, error)
	Delete(ctx context.Context, objectName string) error
	DeleteByURL(ctx context.Context, url string) error
}

// MinIOService stores objects in a MinIO (S3-compatible) bucket.
type MinIOService struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewMinIOService creates a MinIO-backed storage service from config.
func NewMinIOService(cfg *config.Config, logger *zap.Logger) (*MinIOService, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Info("Object storage client initialized",
		zap.String("endpoint", cfg.StorageEndpoint),
		zap.String("bucket", cfg.StorageBucket),
	)

	return &MinIOService{
		client:        client,
		bucket:        cfg.StorageBucket,
		publicBaseURL: strings.TrimSuffix(cfg.StoragePublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload writes the file under a randomized unique object name below prefix
// and returns its public URL.
func (s *MinIOService) Upload(ctx context.Context, prefix, fileName, contentType string, file io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = extensionForContentType(contentType)
	}
	objectName := fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": filepath.Base(fileName),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	url := s.publicBaseURL + "/" + objectName
	s.logger.Debug("Object uploaded", zap.String("object", objectName), zap.String("url", url))
	return url, nil
}

// Delete removes an object by name. Missing objects are not an error.
func (s *MinIOService) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectName, err)
	}
	return nil
}

// DeleteByURL removes the object behind one of our public URLs. URLs that
// do not point at this bucket's public base are ignored.
func (s *MinIOService) DeleteByURL(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.publicBaseURL+"/") {
		s.logger.Debug("Skipping delete of foreign URL", zap.String("url", url))
		return nil
	}
	objectName := strings.TrimPrefix(url, s.publicBaseURL+"/")
	return s.Delete(ctx, objectName)
}

func extensionForContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/gif"):
		return ".gif"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	default:
		return ".bin"
	}
}
