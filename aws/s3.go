// Package aws defines functions used to interact with the AWS API
package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

const minMultipartSize = 12 << 20

// S3Client stores gallery images in a bucket. Any S3 compatible API works,
// see cloudflare.NewR2.
type S3Client struct {
	C      *s3.Client
	Bucket *string
	Region string
	// PublicURL is the base objects are served from. Empty means the
	// default virtual hosted S3 URL.
	PublicURL string
}

func NewS3(ctx context.Context) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("aws.access_key"),
			viper.GetString("aws.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	region := viper.GetString("aws.region")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = region
	})

	s := &S3Client{
		C:         client,
		Bucket:    aws.String(viper.GetString("aws.bucket")),
		Region:    region,
		PublicURL: viper.GetString("aws.public_url"),
	}

	if err := s.CheckBucket(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// CheckBucket fails if the configured bucket can't be reached
func (s *S3Client) CheckBucket(ctx context.Context) error {
	_, err := s.C.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: s.Bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return fmt.Errorf("bucket '%s' does not exist", aws.ToString(s.Bucket))
			}
		}

		return fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return nil
}

// Put uploads body under key and returns the public URL of the object.
// Big bodies go through the multipart uploader.
func (s *S3Client) Put(ctx context.Context, body io.Reader, size int64, contentType, key string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	}

	var err error
	if size > minMultipartSize {
		uploader := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = uploader.Upload(ctx, input)
	} else {
		_, err = s.C.PutObject(ctx, input)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload %s, %w", key, err)
	}

	return s.URL(key), nil
}

func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s, %w", key, err)
	}

	return nil
}

// Fetch streams the object back. The caller closes the reader.
func (s *S3Client) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s, %w", key, err)
	}

	return out.Body, nil
}

func (s *S3Client) URL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()

	if s.PublicURL != "" {
		return strings.TrimSuffix(s.PublicURL, "/") + "/" + escaped
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", aws.ToString(s.Bucket), s.Region, escaped)
}
