package service

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/util"
	"agent_academy_backend/pkg/logger"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider persists submission snapshots for later teacher review.
type StorageProvider interface {
	Put(ctx context.Context, objectPath string, data []byte) error
}

type StorageService struct {
	provider StorageProvider
}

// NewStorageService builds the configured provider. A minio that cannot be
// reached at startup degrades to local disk so submissions are never dropped.
func NewStorageService(cfg config.StorageConfig) *StorageService {
	if cfg.Type == util.StorageMinio {
		provider, err := newMinioProvider(cfg)
		if err == nil {
			return &StorageService{provider: provider}
		}
		logger.Log.Warn("minio storage unavailable, falling back to local disk", zap.Error(err))
	}

	path := cfg.LocalPath
	if path == "" {
		path = "./storage"
	}
	return &StorageService{provider: &localProvider{basePath: path}}
}

// ArchiveSubmission writes one code snapshot. Called asynchronously after the
// submission transaction commits; failures are logged, never surfaced.
func (s *StorageService) ArchiveSubmission(ctx context.Context, userID, challengeID, submissionID uint, code string) {
	objectPath := fmt.Sprintf("submissions/%d/%d/%d.txt", userID, challengeID, submissionID)
	if err := s.provider.Put(ctx, objectPath, []byte(code)); err != nil {
		logger.Log.Error("failed to archive submission",
			zap.String("object", objectPath), zap.Error(err))
	}
}

type localProvider struct {
	basePath string
}

func (p *localProvider) Put(_ context.Context, objectPath string, data []byte) error {
	full := filepath.Join(p.basePath, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0644)
}

type minioProvider struct {
	client *minio.Client
	bucket string
}

func newMinioProvider(cfg config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &minioProvider{client: client, bucket: cfg.MinioBucket}, nil
}

func (p *minioProvider) Put(ctx context.Context, objectPath string, data []byte) error {
	_, err := p.client.PutObject(ctx, p.bucket, objectPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	return err
}
