package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/resilience"
)

type capturePutter struct {
	calls  int
	bucket string
	key    string
	body   []byte
	opts   minio.PutObjectOptions
	err    error
}

func (c *capturePutter) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	c.calls++
	if c.err != nil {
		return minio.UploadInfo{}, c.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	c.bucket, c.key, c.body, c.opts = bucket, key, data, opts
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func TestPutPDFUsesDatedKey(t *testing.T) {
	putter := &capturePutter{}
	a := &MinioArchiver{client: putter, bucket: "bills", now: func() time.Time {
		return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	}}

	key, err := a.PutPDF(context.Background(), "b-1", []byte("%PDF-1.3"))
	require.NoError(t, err)
	require.Equal(t, "bills/2024/03/b-1.pdf", key)
	require.Equal(t, "bills", putter.bucket)
	require.Equal(t, "application/pdf", putter.opts.ContentType)
	require.Equal(t, []byte("%PDF-1.3"), putter.body)
}

func TestPutPDFErrors(t *testing.T) {
	a := &MinioArchiver{client: &capturePutter{err: errors.New("access denied")}, bucket: "bills", now: time.Now}
	_, err := a.PutPDF(context.Background(), "b-1", []byte("x"))
	require.ErrorContains(t, err, "access denied")

	_, err = a.PutPDF(context.Background(), "", []byte("x"))
	require.Error(t, err)
}

func TestNewMinioClientRequiresEndpoint(t *testing.T) {
	_, err := NewMinioClient(Config{})
	require.Error(t, err)
}

func TestPutPDFSkipsUploadsWhileBreakerOpen(t *testing.T) {
	putter := &capturePutter{err: errors.New("connection refused")}
	breaker := resilience.NewBreaker(resilience.Config{Target: "minio", MinRequests: 1, OpenFor: time.Hour})
	a := (&MinioArchiver{client: putter, bucket: "bills", now: time.Now}).WithRetry(resilience.Retry{Breaker: breaker, Attempts: 2, Base: time.Millisecond})

	_, err := a.PutPDF(context.Background(), "b-1", []byte("x"))
	require.ErrorContains(t, err, "connection refused")
	require.Equal(t, 1, putter.calls)

	_, err = a.PutPDF(context.Background(), "b-2", []byte("x"))
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.Equal(t, 1, putter.calls)
}
