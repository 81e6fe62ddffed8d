package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nuricanozturk01/setupshowroom-public/internal/config"
	"github.com/sirupsen/logrus"
)

// Upload describes one file streamed in by a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MinioStorage is the object-storage passthrough used for setup images.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to the configured MinIO endpoint and makes sure
// the image bucket exists.
func NewMinioStorage(cfg *config.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %v", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %v", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %v", cfg.MinioBucket, err)
		}
		logrus.WithField("bucket", cfg.MinioBucket).Info("Created storage bucket")
	}

	return &MinioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

// Put streams an object into the image bucket and returns its relative path.
func (s *MinioStorage) Put(ctx context.Context, objectName string, upload Upload) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, upload.Reader, upload.Size, minio.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %v", objectName, err)
	}
	return fmt.Sprintf("/%s/%s", s.bucket, objectName), nil
}
