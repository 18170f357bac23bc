// Package cloudflare provides a client for interacting with the Cloudflare API.
package cloudflare

import (
	"context"
	"fmt"

	a "bitwise74/gallery-api/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/viper"
)

// NewR2 returns an object store backed by an R2 bucket. R2 speaks the S3
// API so the same client is used.
func NewR2(ctx context.Context) (*a.S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("cloudflare.access_key_id"),
			viper.GetString("cloudflare.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("cloudflare.account_id")))
		o.Region = "auto"
	})

	r2 := &a.S3Client{
		C:         client,
		Bucket:    aws.String(viper.GetString("cloudflare.bucket")),
		Region:    "auto",
		PublicURL: viper.GetString("cloudflare.public_url"),
	}

	if err := r2.CheckBucket(ctx); err != nil {
		return nil, err
	}

	return r2, nil
}
