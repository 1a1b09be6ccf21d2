package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig locates the audit bucket.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
}

func (c MinIOConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("bucket is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}

// ObjectPutter is the part of *minio.Client MinIOSink uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOSink stores records as objects in an S3-compatible bucket.
type MinIOSink struct {
	client  ObjectPutter
	bucket  string
	timeout time.Duration
}

// NewMinIOSink connects to the configured endpoint.
func NewMinIOSink(cfg MinIOConfig) (*MinIOSink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("audit minio config: %w", err)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return NewMinIOSinkWithClient(client, cfg.Bucket), nil
}

// NewMinIOSinkWithClient wraps an existing client.
func NewMinIOSinkWithClient(client ObjectPutter, bucket string) *MinIOSink {
	return &MinIOSink{client: client, bucket: bucket, timeout: 15 * time.Second}
}

func (s *MinIOSink) Record(ctx context.Context, rec Record) error {
	if rec.SubmissionID == "" || rec.Kind == "" {
		return fmt.Errorf("audit record needs a submission id and kind")
	}
	content, err := encode(rec)
	if err != nil {
		return fmt.Errorf("encoding audit record: %w", err)
	}

	putCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err = s.client.PutObject(
		putCtx,
		s.bucket,
		ObjectKey(rec),
		bytes.NewReader(content),
		int64(len(content)),
		minio.PutObjectOptions{
			ContentType:  "application/json",
			UserMetadata: map[string]string{"sha256": ComputeHash(content)},
		},
	)
	if err != nil {
		return fmt.Errorf("put audit object %s: %w", ObjectKey(rec), err)
	}
	return nil
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
