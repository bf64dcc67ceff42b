package loaders

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/prefetch/pkg/routes"
)

// S3Config holds S3-compatible storage configuration for bundle
// fetching.
type S3Config struct {
	// AccessKey is the access key ID (required).
	AccessKey string

	// SecretKey is the secret access key (required).
	SecretKey string

	// Endpoint is a custom S3 endpoint URL (optional, for MinIO or
	// other S3-compatible services).
	Endpoint string

	// Region is the AWS region (default: us-east-1).
	Region string

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool
}

// NewS3Client creates an S3 client from the configuration.
func NewS3Client(cfg S3Config) (*s3.Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return s3.New(s3.Options{}, opts...), nil
}

// S3 returns a loader that fetches the bundle object at bucket/key and
// drains it. Useful when bundles live in object storage and the goal
// is to pull them into a warm tier ahead of first render.
func S3(client *s3.Client, bucket, key string) routes.Loader {
	return func(ctx context.Context) error {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				return fmt.Errorf("%w: s3://%s/%s: %s", ErrBundleUnavailable, bucket, key, apiErr.ErrorCode())
			}
			return errors.Join(ErrRequestFailed, err)
		}
		defer out.Body.Close()

		if _, err := io.Copy(io.Discard, out.Body); err != nil {
			return errors.Join(ErrBundleUnavailable, err)
		}

		return nil
	}
}
