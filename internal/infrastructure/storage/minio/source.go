// Package minio provides an object-storage rule-pack source so packs can be
// distributed through an S3-compatible bucket instead of a local directory.
package minio

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// ObjectSource reads rule-pack documents from a bucket prefix.  It satisfies
// the same contract as the filesystem source: missing objects report
// ErrCodePackNotFound and List returns sorted names.
type ObjectSource struct {
	client *minio.Client
	bucket string
	prefix string
	logger logging.Logger
}

// NewObjectSource connects to the object store and verifies the bucket exists.
func NewObjectSource(cfg config.MinIOConfig, log logging.Logger) (*ObjectSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create object storage client").
			WithDetail("endpoint=" + cfg.Endpoint)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket").
			WithDetail("bucket=" + cfg.Bucket)
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeStorageError, "rule pack bucket does not exist").
			WithDetail("bucket=" + cfg.Bucket)
	}

	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.String("prefix", cfg.Prefix),
	)

	return &ObjectSource{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: log,
	}, nil
}

// Read implements rulepack.Source.
func (s *ObjectSource) Read(ctx context.Context, name string) ([]byte, string, error) {
	key := path.Join(s.prefix, name)
	location := s.bucket + "/" + key

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, location, errors.Wrap(err, errors.ErrCodeStorageError, "failed to open pack object").
			WithDetail("object=" + location)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, location, errors.New(errors.ErrCodePackNotFound, "rule pack source not found").
				WithDetail("object=" + location)
		}
		return nil, location, errors.Wrap(err, errors.ErrCodeStorageError, "failed to read pack object").
			WithDetail("object=" + location)
	}
	return data, location, nil
}

// List implements rulepack.Source.  Only .yaml, .yml, and .json objects under
// the prefix are returned.
func (s *ObjectSource) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "failed to list pack objects").
				WithDetail("bucket=" + s.bucket)
		}
		name := strings.TrimPrefix(obj.Key, s.prefix)
		name = strings.TrimPrefix(name, "/")
		if name == "" {
			continue
		}
		switch strings.ToLower(path.Ext(name)) {
		case ".yaml", ".yml", ".json":
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
