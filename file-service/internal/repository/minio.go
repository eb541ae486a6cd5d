package repository

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type MinIOConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	ConnectTimeout time.Duration
}

type MinIORepository struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIORepository(cfg MinIOConfig, logger zerolog.Logger) (*MinIORepository, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		logger: logger.With().Str("component", "minio_storage").Logger(),
	}

	// На старте не падаем, если MinIO ещё не поднялся: бакет будет создан при первом обращении.
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		repo.logger.Error().Err(err).
			Str("endpoint", cfg.Endpoint).
			Str("bucket", cfg.Bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	repo.logger.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Bool("ssl", cfg.UseSSL).
		Msg("Using MinIO file storage")

	return repo, nil
}

func (r *MinIORepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err == nil && !exists {
			err = r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region})
			if err == nil {
				r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
			}
		}
		if err == nil {
			r.bucketEnsured = true
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("minio not ready: %w", err)
		case <-time.After(backoff):
		}
	}
}

func (r *MinIORepository) Save(ctx context.Context, fileName string, content io.Reader, size int64) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	info, err := r.client.PutObject(ctx, r.bucket, fileName, content, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	r.logger.Debug().
		Str("file", fileName).
		Str("etag", info.ETag).
		Int64("size", info.Size).
		Msg("File uploaded to MinIO")

	return nil
}

func (r *MinIORepository) Open(ctx context.Context, fileName string) (io.ReadCloser, int64, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, 0, err
	}

	objInfo, err := r.client.StatObject(ctx, r.bucket, fileName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}

	object, err := r.client.GetObject(ctx, r.bucket, fileName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get file: %w", err)
	}

	return object, objInfo.Size, nil
}

func (r *MinIORepository) Ping(ctx context.Context) error {
	if _, err := r.client.BucketExists(ctx, r.bucket); err != nil {
		return fmt.Errorf("minio unavailable: %w", err)
	}
	return nil
}
