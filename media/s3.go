package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store uploads video objects to a bucket and hands out their public
// object URLs. The bucket is expected to allow public reads since the
// displays fetch the videos directly.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, profile, bucket string) (*S3Store, error) {
	if profile == "" {
		return nil, errors.New("no aws profile provided in environment variable HTV_AWS_PROFILE")
	}
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided in environment variable HTV_S3_BUCKET")
	}

	// Load the Shared AWS Configuration (~/.aws/config)
	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := awsconfig.LoadDefaultConfig(
		ctxCfg,
		awsconfig.WithSharedConfigProfile(profile),
	)
	cancelCfg()
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, cat, filename string, r io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("%s-%s%s", cat, uuid.New().String(), extOf(filename))

	uploader := manager.NewUploader(s.client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(s.bucket),
		Key:           awssdk.String(key),
		Body:          r,
		ContentLength: awssdk.Int64(size),
	}); err != nil {
		return "", fmt.Errorf("unable to upload object to s3, %s, %w", key, err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

func (s *S3Store) Remove(ctx context.Context, ref string) error {
	key, ok := s.objectKey(ref)
	if !ok {
		slog.Debug("skipping removal of foreign media ref", "ref", ref)
		return nil
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(key),
	}); err != nil {
		return fmt.Errorf("unable to delete object from s3, %s, %w", key, err)
	}
	return nil
}

func (s *S3Store) objectKey(ref string) (string, bool) {
	prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(ref, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
