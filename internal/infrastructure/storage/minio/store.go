// Package minio stores uploaded policy documents in object storage so the
// original file can be retrieved after extraction.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// objectAPI is the subset of the minio client the store needs; abstracted
// for testing.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// DocumentStore persists and retrieves policy source documents.
type DocumentStore interface {
	Upload(ctx context.Context, userID, filename, contentType string, reader io.Reader, size int64) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Store is the MinIO-backed DocumentStore.
type Store struct {
	client objectAPI
	bucket string
	logger logging.Logger
}

// NewStore connects to MinIO and ensures the document bucket exists.
func NewStore(cfg config.StorageConfig, log logging.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to create object storage client")
	}

	s := &Store{client: client, bucket: cfg.Bucket, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("object storage connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "failed to check document bucket")
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal,
				fmt.Sprintf("failed to create bucket %s", s.bucket))
		}
		s.logger.Info("created document bucket", logging.String("bucket", s.bucket))
	}
	return nil
}

// ObjectKey derives the storage key for an uploaded document. Keys are
// namespaced by user and made unique with a random prefix so repeated
// uploads of the same filename never collide.
func ObjectKey(userID, filename string) string {
	return path.Join("users", userID, uuid.New().String()+"-"+sanitizeFilename(filename))
}

// sanitizeFilename keeps the base name and replaces characters that are
// awkward in object keys.
func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Upload stores the document and returns its object key.
func (s *Store) Upload(ctx context.Context, userID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	key := ObjectKey(userID, filename)
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to store document")
	}
	s.logger.Debug("document stored",
		logging.String("key", key),
		logging.Int64("size", size),
	)
	return key, nil
}

// Download streams a stored document.
func (s *Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "failed to fetch document")
	}
	return obj, nil
}

// Delete removes a stored document.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to delete document")
	}
	return nil
}

// PresignGetURL returns a time-limited download URL for a document.
func (s *Store) PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = time.Hour
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to presign document url")
	}
	return u.String(), nil
}

// NopStore satisfies DocumentStore when object storage is disabled.
// Uploads succeed with an empty key so document import still works
// without retaining the original file.
type NopStore struct{}

func (NopStore) Upload(ctx context.Context, userID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	return "", nil
}

func (NopStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, apperrors.New(apperrors.ErrCodeNotFound, "document storage disabled")
}

func (NopStore) Delete(ctx context.Context, key string) error { return nil }

func (NopStore) PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", apperrors.New(apperrors.ErrCodeNotFound, "document storage disabled")
}
