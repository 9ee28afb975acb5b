package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"jobbyResume/internal/config"
)

// objectGetter 是 FetchResume 依赖的最小 MinIO 能力，便于测试替换。
type objectGetter interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

// Client 封装 MinIO/S3 客户端，负责把简历下载到本地缓存目录。
type Client struct {
	internalClient objectGetter
	bucketName     string
	cacheDir       string
	logger         *zap.Logger
}

// NewClient 根据配置初始化 MinIO 客户端，并确认目标 Bucket 可访问。
func NewClient(cfg config.MinIOConfig, logger *zap.Logger) (*Client, error) {
	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
		bucketLookup = minio.BucketLookupAuto
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := internalClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return newClient(internalClient, cfg.Bucket, cfg.CacheDir, logger), nil
}

func newClient(getter objectGetter, bucket, cacheDir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		internalClient: getter,
		bucketName:     bucket,
		cacheDir:       cacheDir,
		logger:         logger,
	}
}

// FetchResume 将对象下载到本地缓存并返回本地路径。
// 对象或 Bucket 不存在时返回 found=false 且不返回错误。
func (c *Client) FetchResume(ctx context.Context, objectPath string) (localPath string, found bool, err error) {
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		c.logger.Warn("empty resume path provided")
		return "", false, nil
	}

	localPath, err = c.localPath(objectPath)
	if err != nil {
		return "", false, err
	}

	if info, statErr := os.Stat(localPath); statErr == nil && !info.IsDir() {
		c.logger.Debug("resume already cached locally", zap.String("path", localPath))
		return localPath, true, nil
	}

	if _, err := c.internalClient.StatObject(ctx, c.bucketName, objectPath, minio.StatObjectOptions{}); err != nil {
		if IsNoSuchKey(err) || IsNoSuchBucket(err) {
			c.logger.Warn("resume not found in object storage",
				zap.String("bucket", c.bucketName),
				zap.String("object", objectPath),
				zap.Error(err),
			)
			return "", false, nil
		}
		return "", false, fmt.Errorf("stat object %q: %w", objectPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", false, fmt.Errorf("create cache dir: %w", err)
	}

	if err := c.internalClient.FGetObject(ctx, c.bucketName, objectPath, localPath, minio.GetObjectOptions{}); err != nil {
		c.cleanup(localPath)
		if IsNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("download object %q: %w", objectPath, err)
	}

	return localPath, true, nil
}

var errUnsafeObjectPath = errors.New("unsafe object path")

func (c *Client) localPath(objectPath string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(objectPath))
	if strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("%w: %q", errUnsafeObjectPath, objectPath)
	}
	return filepath.Join(c.cacheDir, cleaned), nil
}

func (c *Client) cleanup(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("failed to cleanup temporary file", zap.String("path", path), zap.Error(err))
	}
}
