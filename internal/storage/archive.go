package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const textContentType = "text/plain; charset=utf-8"

// ObjectPutter is the slice of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config points the archive at an S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).
// Credentials fall back to the default AWS chain when AccessKey is empty.
type Config struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Archive keeps a copy of every uploaded menu file.
type Archive struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewS3Archive builds an Archive backed by the AWS SDK.
func NewS3Archive(ctx context.Context, cfg Config, logger *slog.Logger) (*Archive, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("archive bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewArchive(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func NewArchive(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
		now:    time.Now,
	}
}

// Store uploads body under a date-partitioned key and returns that key.
func (a *Archive) Store(ctx context.Context, filename string, body []byte) (string, error) {
	key := a.objectKey(filename)
	start := time.Now()
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(textContentType),
	})
	if err != nil {
		a.logger.Error("archive.put_failed", "bucket", a.bucket, "key", key, "error", err)
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	a.logger.Info("archive.put_ok",
		"bucket", a.bucket,
		"key", key,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return key, nil
}

func (a *Archive) objectKey(filename string) string {
	day := a.now().UTC().Format("2006/01/02")
	key := path.Join(day, uuid.NewString()+"-"+sanitizeName(filename))
	if a.prefix != "" {
		key = a.prefix + "/" + key
	}
	return key
}

// sanitizeName keeps the base name and replaces anything outside [A-Za-z0-9._-].
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "menu.txt"
	}
	return out
}
