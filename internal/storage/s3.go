package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds construction parameters for an S3-backed image store.
// Endpoint and static keys are optional; leaving them empty falls back to
// the default AWS credential chain (set them for MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Store keeps images in a single bucket. Staged uploads live under a
// "staging/" key prefix and are promoted with a server-side copy.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3 image store from config.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Stage(ctx context.Context, r io.Reader) (Staged, error) {
	key := "staging/" + uuid.NewString()

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}); err != nil {
		return nil, fmt.Errorf("staging object: %w", err)
	}

	return &stagedObject{store: s, key: key}, nil
}

func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return nil, ErrImageNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &clean,
	})
	if err != nil {
		return nil, ErrImageNotFound
	}
	return out.Body, nil
}

type stagedObject struct {
	store *S3Store
	key   string
}

func (st *stagedObject) Promote(ctx context.Context, name string) error {
	clean, err := SanitizeName(name)
	if err != nil {
		return err
	}

	source := st.store.bucket + "/" + st.key
	if _, err := st.store.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &st.store.bucket,
		Key:        &clean,
		CopySource: &source,
	}); err != nil {
		return fmt.Errorf("promoting staged object: %w", err)
	}

	// Staging cleanup is best effort; a leftover staging object is harmless.
	st.store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &st.store.bucket,
		Key:    &st.key,
	})
	return nil
}

func (st *stagedObject) Discard(ctx context.Context) error {
	_, err := st.store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &st.store.bucket,
		Key:    &st.key,
	})
	return err
}
