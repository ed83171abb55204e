package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/oggyb/desire-match/internal/config"
	svcErr "github.com/oggyb/desire-match/internal/errors"
)

const photoPrefix = "profile-pics"

// PhotoStore hands out presigned S3 upload URLs for profile photos.
// A store without a bucket is valid and answers Unavailable.
type PhotoStore struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewPhotoStore loads AWS config from the environment, overriding
// credentials and endpoint from cfg when set.
func NewPhotoStore(ctx context.Context, cfg *config.Config) (*PhotoStore, error) {
	if cfg.S3.Bucket == "" {
		return &PhotoStore{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
	if cfg.S3.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewPhotoStoreFromConfig(awsCfg, cfg.S3.Bucket, cfg.S3.Endpoint, cfg.S3.PresignTTL), nil
}

// NewPhotoStoreFromConfig builds the store from a ready aws.Config.
// A non-empty endpoint switches to path-style addressing (MinIO, localstack).
func NewPhotoStoreFromConfig(awsCfg aws.Config, bucket, endpoint string, ttl time.Duration) *PhotoStore {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PhotoStore{presign: s3.NewPresignClient(client), bucket: bucket, ttl: ttl}
}

func (p *PhotoStore) Enabled() bool {
	return p != nil && p.presign != nil && p.bucket != ""
}

// UploadURL presigns a PUT for a new object under the user's prefix and
// returns the URL together with the object key.
func (p *PhotoStore) UploadURL(ctx context.Context, userID uint64, fileName, contentType string) (string, string, error) {
	if !p.Enabled() {
		return "", "", svcErr.Unavailable("Photo uploads are not configured")
	}

	key := fmt.Sprintf("%s/%d/%s%s", photoPrefix, userID, uuid.NewString(), strings.ToLower(path.Ext(fileName)))
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, key, nil
}
