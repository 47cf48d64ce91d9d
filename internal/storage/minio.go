// Package storage wraps the MinIO client used for beat audio files and
// cover images. Objects are written under <kind>/<uuid>.<ext> and served
// back through the /static route, so the paths stored on beats stay
// valid regardless of which bucket or endpoint backs them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectTooLarge is returned by Put when an upload exceeds the size
// ceiling for its kind. Handlers translate it into HTTP 400.
var ErrObjectTooLarge = errors.New("object exceeds size limit")

// MinioStore is a thin wrapper over a MinIO bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("created bucket %s", bucket)
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put streams an upload into the bucket under <kind>/<uuid>.<ext> and
// returns the serveable /static path. The size is checked against
// maxBytes before any bytes are sent; -1 disables the ceiling.
func (s *MinioStore) Put(ctx context.Context, kind, filename string, r io.Reader, size, maxBytes int64, contentType string) (string, error) {
	if maxBytes > 0 && size > maxBytes {
		return "", ErrObjectTooLarge
	}
	ext := strings.ToLower(path.Ext(filename))
	object := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
	_, err := s.client.PutObject(ctx, s.bucket, object, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return "/static/" + object, nil
}

// Get opens an object for streaming and reports its content type. The
// object argument is the bucket-relative path ("audio/<uuid>.mp3").
func (s *MinioStore) Get(ctx context.Context, object string) (io.ReadCloser, string, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, object, minio.StatObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	return obj, stat.ContentType, nil
}

// Remove deletes an object. Callers treat failures as best-effort since
// stored /static paths tolerate missing objects.
func (s *MinioStore) Remove(ctx context.Context, object string) error {
	return s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{})
}

// ObjectFromStaticPath strips the /static/ prefix from a stored URL,
// returning the bucket-relative object path. Empty when the URL is not
// a static path.
func ObjectFromStaticPath(url string) string {
	if strings.HasPrefix(url, "/static/") {
		return strings.TrimPrefix(url, "/static/")
	}
	return ""
}
