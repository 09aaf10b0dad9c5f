package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pawshome/internal/config"
)

type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketMedia)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketMedia, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketMedia, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketMedia, err)
		}
	}
	return nil
}

func (s *ObjectStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) (int64, error) {
	info, err := s.client.PutObject(ctx, s.cfg.BucketMedia, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return info.Size, nil
}

func (s *ObjectStore) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.BucketMedia, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", objectKey, err)
	}
	return nil
}

// Exists reports whether the backing object for a media record is still
// present in the bucket.
func (s *ObjectStore) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.cfg.BucketMedia, objectKey, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", objectKey, err)
	}
	return true, nil
}

// ListPrefix walks the objects under a key prefix, calling fn with each
// object's key and last-modified time.
func (s *ObjectStore) ListPrefix(ctx context.Context, prefix string, fn func(key string, lastModified time.Time) error) error {
	for object := range s.client.ListObjects(ctx, s.cfg.BucketMedia, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return fmt.Errorf("list objects %s: %w", prefix, object.Err)
		}
		if err := fn(object.Key, object.LastModified); err != nil {
			return err
		}
	}
	return nil
}

func (s *ObjectStore) PublicURL(objectKey string) string {
	base := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.BucketMedia, objectKey)
}
