package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hasithasandunlakshan/inventory-console/internal/config"
)

// S3Archive stores attachment copies in an S3-compatible bucket.
type S3Archive struct {
	client *minio.Client
	bucket string
}

// NewS3Archive connects to the configured S3-compatible endpoint.
func NewS3Archive(cfg config.ArchiveConfig) (*S3Archive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build archive client: %w", err)
	}

	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(orderID int64, fileName string) string {
	return fmt.Sprintf("purchase-orders/%d/%s", orderID, filepath.Base(fileName))
}

// Store uploads one attachment copy under purchase-orders/{orderID}/.
func (a *S3Archive) Store(ctx context.Context, orderID int64, fileName string, content io.Reader) (ObjectInfo, error) {
	key := objectKey(orderID, fileName)
	info, err := a.client.PutObject(ctx, a.bucket, key, content, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("archive upload failed for %s: %w", key, err)
	}
	return ObjectInfo{Key: key, Size: info.Size}, nil
}

// List returns the archived objects for one order.
func (a *S3Archive) List(ctx context.Context, orderID int64) ([]ObjectInfo, error) {
	prefix := fmt.Sprintf("purchase-orders/%d/", orderID)
	var results []ObjectInfo
	for object := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("archive list failed: %w", object.Err)
		}
		results = append(results, ObjectInfo{Key: object.Key, Size: object.Size})
	}
	return results, nil
}

// LocalArchive stores attachment copies on the local filesystem. Used when no
// object storage is configured.
type LocalArchive struct {
	dir string
}

func NewLocalArchive(dir string) (*LocalArchive, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory must be provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive dir: %w", err)
	}
	return &LocalArchive{dir: dir}, nil
}

func (a *LocalArchive) Store(ctx context.Context, orderID int64, fileName string, content io.Reader) (ObjectInfo, error) {
	key := objectKey(orderID, fileName)
	dest := filepath.Join(a.dir, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ObjectInfo{}, err
	}

	f, err := os.Create(dest)
	if err != nil {
		return ObjectInfo{}, err
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return ObjectInfo{Key: key, Size: size}, nil
}

func (a *LocalArchive) List(ctx context.Context, orderID int64) ([]ObjectInfo, error) {
	prefix := filepath.Join(a.dir, fmt.Sprintf("purchase-orders/%d", orderID))
	entries, err := os.ReadDir(prefix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var results []ObjectInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		results = append(results, ObjectInfo{
			Key:  fmt.Sprintf("purchase-orders/%d/%s", orderID, entry.Name()),
			Size: info.Size(),
		})
	}
	return results, nil
}
