package minio

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// ResultArchive writes calculation event documents to an object-storage
// bucket for long-term retention.
type ResultArchive struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewResultArchive connects to the object store and verifies the archive
// bucket exists.
func NewResultArchive(cfg config.MinIOConfig, log logging.Logger) (*ResultArchive, error) {
	if cfg.ArchiveBucket == "" {
		return nil, errors.New(errors.ErrCodeStorageError, "archive bucket is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create object storage client").
			WithDetail("endpoint=" + cfg.Endpoint)
	}

	exists, err := client.BucketExists(context.Background(), cfg.ArchiveBucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to check archive bucket").
			WithDetail("bucket=" + cfg.ArchiveBucket)
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeStorageError, "archive bucket does not exist").
			WithDetail("bucket=" + cfg.ArchiveBucket)
	}

	log.Info("connected to result archive",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.ArchiveBucket),
	)

	return &ResultArchive{
		client: client,
		bucket: cfg.ArchiveBucket,
		logger: log.Named("result_archive"),
	}, nil
}

// Store writes one JSON document under key.
func (a *ResultArchive) Store(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to archive document").
			WithDetail("object=" + a.bucket + "/" + key)
	}
	a.logger.Debug("document archived", logging.String("key", key))
	return nil
}
