// Package publish uploads finished renders to S3-compatible object storage
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-raymarcher/pkg/config"
	"github.com/df07/go-raymarcher/pkg/core"
)

// ErrNotConfigured is returned when publishing is attempted without a bucket
var ErrNotConfigured = errors.New("publishing not configured")

// S3Publisher writes objects to one bucket
type S3Publisher struct {
	client  s3iface.S3API
	bucket  string
	prefix  string
	timeout time.Duration
	logger  core.Logger
}

// NewS3Publisher creates a publisher backed by a real S3 session. Static
// credentials are used when configured, otherwise the SDK's default chain.
func NewS3Publisher(cfg config.S3Config, logger core.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3PublisherWithClient(s3.New(sess), cfg, logger), nil
}

// NewS3PublisherWithClient creates a publisher around an existing client
func NewS3PublisherWithClient(client s3iface.S3API, cfg config.S3Config, logger core.Logger) *S3Publisher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = config.DefaultUploadTimeout
	}
	return &S3Publisher{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		timeout: timeout,
		logger:  logger,
	}
}

// Key returns the object key name is stored under
func (p *S3Publisher) Key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads data under the prefixed key and returns that key. The
// upload is bounded by the configured timeout on top of ctx.
func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", p.bucket, key, size)
	return key, nil
}
