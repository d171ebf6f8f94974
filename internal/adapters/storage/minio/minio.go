package minio

import (
	"beat-ingest/internal/config"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	codeNoSuchKey    = "NoSuchKey"
	codeNoSuchObject = "NoSuchObject"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter, creating the bucket when it does not exist
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// PresignPut generates a presigned url for a single PUT of key with the given content type
func (a *Adapter) PresignPut(ctx context.Context, key string, contentType string, expiry time.Duration) (*port.PresignedURL, error) {
	if expiry <= 0 {
		expiry = a.config.UploadPresignedDuration
	}

	requestHeaders := make(http.Header)
	if contentType != "" {
		requestHeaders.Set("Content-Type", contentType)
	}

	presignedURL, err := a.client.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, expiry, nil, requestHeaders)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate pre-signed URL: %w", domain.ErrStorageGateway, err)
	}

	return &port.PresignedURL{
		URL:       presignedURL.String(),
		Headers:   a.headerToMap(requestHeaders),
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// PresignGet generates a presigned URL for downloading key
func (a *Adapter) PresignGet(ctx context.Context, key string, expiry time.Duration) (*port.PresignedURL, error) {
	if expiry <= 0 {
		expiry = a.config.DownloadSignedDuration
	}

	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, expiry, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate presigned download URL: %w", domain.ErrStorageGateway, err)
	}

	return &port.PresignedURL{
		URL:       presignedURL.String(),
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// GetObject retrieves an obj. Missing objects fail here rather than on first read.
func (a *Adapter) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get object %s: %w", domain.ErrStorageGateway, key, err)
	}
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, fmt.Errorf("%w: failed to get object %s: %w", domain.ErrStorageGateway, key, err)
	}
	return object, nil
}

// PutObject streams exactly size bytes of body to key
func (a *Adapter) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	info, err := a.client.PutObject(ctx, a.config.BucketName, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to put object %s: %w", domain.ErrStorageGateway, key, err)
	}

	a.logger.Debug("object stored",
		slog.String("key", key),
		slog.Int64("size", info.Size),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// CopyObject copies srcKey onto dstKey on the server. Sources above 5GiB are copied part by part.
func (a *Adapter) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	src := minio.CopySrcOptions{Bucket: a.config.BucketName, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: a.config.BucketName, Object: dstKey}

	info, err := a.client.ComposeObject(ctx, dst, src)
	if err != nil {
		return fmt.Errorf("%w: failed to copy %s to %s: %w", domain.ErrStorageGateway, srcKey, dstKey, err)
	}

	a.logger.Debug("object copied",
		slog.String("src", srcKey),
		slog.String("dst", dstKey),
		slog.Int64("size", info.Size))

	return nil
}

// StatObject retrieves obj info, nil when the object does not exist
func (a *Adapter) StatObject(ctx context.Context, key string) (*port.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		switch minio.ToErrorResponse(err).Code {
		case codeNoSuchKey, codeNoSuchObject:
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get object info: %w", domain.ErrStorageGateway, err)
	}
	return &port.ObjectInfo{
		Key:         info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("%w: failed to delete object: %w", domain.ErrStorageGateway, err)
	}

	a.logger.Debug("object deleted",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName))

	return nil
}

func (a *Adapter) headerToMap(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if len(values) > 0 {
			result[key] = values[0]
		}
	}
	return result
}
