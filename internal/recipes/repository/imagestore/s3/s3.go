package s3

import (
	"bytes"
	"context"
	"fmt"

	appcfg "github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageStore keeps uploaded images in an S3-compatible bucket
// (MinIO in the compose setup).
type ImageStore struct {
	client *s3.Client
	bucket string
	base   string
}

func New(ctx context.Context, cfg appcfg.S3) (ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return ImageStore{}, fmt.Errorf("load aws config error: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return ImageStore{
		client: client,
		bucket: cfg.Bucket,
		base:   cfg.Endpoint + "/" + cfg.Bucket,
	}, nil
}

func (st ImageStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{ //nolint:exhaustruct
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("put object error: %w", err)
	}

	return st.base + "/" + key, nil
}
