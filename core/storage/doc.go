// Package storage wraps an S3-compatible object store.
//
// The Client interface covers the calls the remote document gateway needs and
// is mocked in core/storage/mocks. NewClient builds one over minio-go for both
// AWS S3 and self-hosted MinIO.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	if err := storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
//	    return err
//	}
package storage
