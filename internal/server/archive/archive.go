// Package archive сохраняет аудио, прошедшее через сервер, в S3-совместимое хранилище.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/iudanet/smartnlp/internal/config"
	"github.com/iudanet/smartnlp/internal/models"
)

// Archive хранит аудио операций
type Archive interface {
	// Put stores audio and returns its object key. An empty key means nothing was stored.
	Put(ctx context.Context, userID string, kind models.Kind, audio []byte, contentType string) (string, error)
}

// Noop используется, когда архив не настроен
type Noop struct{}

// Put does nothing.
func (Noop) Put(context.Context, string, models.Kind, []byte, string) (string, error) {
	return "", nil
}

// objectPutter часть s3.Client, нужная архиву
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive складывает аудио в bucket по ключу <kind>/<user>/<date>/<uuid>
type S3Archive struct {
	client objectPutter
	now    func() time.Time
	bucket string
}

var newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
	return s3.NewFromConfig(cfg, optFns...)
}

// New returns an S3 archive for cfg, or Noop when the archive is disabled.
func New(ctx context.Context, cfg config.S3) (Archive, error) {
	if !cfg.Enabled() {
		return Noop{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // токен сессии не нужен
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO и подобные хранилища работают с path-style адресами
			o.UsePathStyle = true
		}
	})

	return &S3Archive{
		client: client,
		bucket: cfg.Bucket,
		now:    time.Now,
	}, nil
}

// Put uploads audio. Empty audio is skipped.
func (a *S3Archive) Put(ctx context.Context, userID string, kind models.Kind, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	if userID == "" {
		userID = "anonymous"
	}
	key := path.Join(string(kind), userID, a.now().UTC().Format("2006/01/02"), uuid.NewString())

	input := &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(audio),
		ContentLength: aws.Int64(int64(len(audio))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return key, nil
}
