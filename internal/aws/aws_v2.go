// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/scrapediff/scrapediff/internal/log"
)

// Settings gathers the S3 knobs that can come from the config file.
type Settings struct {
	Profile    string
	Region     string
	Endpoint   string // S3-compatible endpoint such as MinIO; implies path-style addressing
	MaxRetries int
}

type options struct {
	profile    string
	region     string
	maxRetries int
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config, applying any overrides.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("aws opts: profile=%s region=%s retries=%d", o.profile, o.region, o.maxRetries)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.maxRetries > 0 {
		n := o.maxRetries
		loadOpts = append(loadOpts, config.WithRetryer(func() awsv2.Retryer {
			return retry.NewStandard(func(so *retry.StandardOptions) {
				so.MaxAttempts = n
			})
		}))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cfg, nil
}

// NewS3 constructs an S3 client from settings.
func NewS3(ctx context.Context, s Settings) (*s3v2.Client, error) {
	cfg, err := LoadAWSConfig(ctx,
		WithProfile(s.Profile),
		WithRegion(s.Region),
		WithMaxRetries(s.MaxRetries),
	)
	if err != nil {
		return nil, err
	}

	client := s3v2.NewFromConfig(cfg, S3Options(s)...)
	log.Debugf("s3 client created: region=%s endpoint=%s", cfg.Region, s.Endpoint)
	return client, nil
}

// S3Options returns the client options implied by settings.
func S3Options(s Settings) []func(*s3v2.Options) {
	if s.Endpoint == "" {
		return nil
	}
	endpoint := s.Endpoint
	return []func(*s3v2.Options){
		func(o *s3v2.Options) {
			o.BaseEndpoint = awsv2.String(endpoint)
			o.UsePathStyle = true
		},
	}
}

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithMaxRetries bounds the attempts made by the standard retryer. Zero keeps
// the SDK default.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}
