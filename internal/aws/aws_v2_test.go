// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	var o options
	for _, opt := range []Option{WithProfile("p"), WithRegion("sa-east-1"), WithMaxRetries(5)} {
		opt(&o)
	}
	assert.Equal(t, "p", o.profile)
	assert.Equal(t, "sa-east-1", o.region)
	assert.Equal(t, 5, o.maxRetries)
}

func TestLoadAWSConfig(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	cfg, err := LoadAWSConfig(context.Background(), WithRegion("eu-west-1"), WithMaxRetries(2))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	require.NotNil(t, cfg.Retryer)
	assert.Equal(t, 2, cfg.Retryer().MaxAttempts())
}

func TestS3Options(t *testing.T) {
	assert.Empty(t, S3Options(Settings{}))

	opts := S3Options(Settings{Endpoint: "http://localhost:9000"})
	require.Len(t, opts, 1)

	var o s3v2.Options
	opts[0](&o)
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)
}

func TestNewS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	client, err := NewS3(context.Background(), Settings{Region: "us-east-1", Endpoint: "http://localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", client.Options().Region)
	assert.True(t, client.Options().UsePathStyle)
}
