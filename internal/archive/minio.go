// Package archive keeps a copy of every rendered bill PDF in object storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/noah-isme/backend-billing/internal/resilience"
)

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Config describes the MinIO connection.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchiver uploads bill PDFs under bills/{yyyy}/{mm}/{id}.pdf.
type MinioArchiver struct {
	client objectPutter
	bucket string
	now    func() time.Time
	retry  resilience.Retry
}

// NewMinioClient opens a MinIO client with static credentials.
func NewMinioClient(cfg Config) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("archive: endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: new client: %w", err)
	}
	return client, nil
}

// EnsureBucket creates bucket when it does not exist.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// NewMinioArchiver constructs an archiver writing into bucket.
func NewMinioArchiver(client *minio.Client, bucket string) *MinioArchiver {
	return &MinioArchiver{client: client, bucket: bucket, now: time.Now}
}

// WithRetry routes uploads through r so an unreachable bucket trips its breaker.
func (a *MinioArchiver) WithRetry(r resilience.Retry) *MinioArchiver {
	a.retry = r
	return a
}

// ObjectKey returns the object name used for billID.
func ObjectKey(billID string, at time.Time) string {
	return fmt.Sprintf("bills/%04d/%02d/%s.pdf", at.Year(), int(at.Month()), billID)
}

// PutPDF uploads pdf and returns the object key.
func (a *MinioArchiver) PutPDF(ctx context.Context, billID string, pdf []byte) (string, error) {
	if billID == "" {
		return "", errors.New("archive: bill id is required")
	}
	key := ObjectKey(billID, a.now().UTC())
	err := a.retry.Do(ctx, func(ctx context.Context) error {
		info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
			ContentType:        "application/pdf",
			ContentDisposition: `attachment; filename="bill-` + billID + `.pdf"`,
		})
		if err != nil {
			return err
		}
		if info.Key != "" {
			key = info.Key
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("archive: put %s: %w", key, err)
	}
	return key, nil
}
