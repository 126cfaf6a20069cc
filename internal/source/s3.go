// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the source needs.
type S3API interface {
	s3v2.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// S3 is a bucket prefix holding snapshot files.
type S3 struct {
	Bucket string
	Prefix string
	Ext    string

	client  S3API
	objects map[string]object
}

type object struct {
	key      string
	etag     string
	modified time.Time
}

type S3Option = func(s *S3)

// NewS3 returns an S3 source reading bucket/prefix through client.
func NewS3(client S3API, bucket, prefix string, options ...S3Option) *S3 {
	s := &S3{
		Bucket:  bucket,
		Prefix:  strings.Trim(prefix, "/"),
		Ext:     ".json",
		client:  client,
		objects: map[string]object{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithS3Ext selects the object extension to list.
func WithS3Ext(ext string) S3Option {
	return func(s *S3) {
		if ext != "" {
			s.Ext = normalizeExt(ext)
		}
	}
}

// List pages through the prefix. Only objects directly beneath the prefix are
// returned.
func (s *S3) List(ctx context.Context) ([]string, error) {
	input := &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(s.Bucket),
	}
	if s.Prefix != "" {
		input.Prefix = awsv2.String(s.Prefix + "/")
	}

	paginator := s3v2.NewListObjectsV2Paginator(s.client, input)

	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", s.Bucket, s.Prefix, err)
		}
		for _, o := range page.Contents {
			key := awsv2.ToString(o.Key)
			name := strings.TrimPrefix(key, s.keyPrefix())
			if name == "" || strings.Contains(name, "/") || !strings.HasSuffix(name, s.Ext) {
				continue
			}
			s.objects[name] = objectFrom(key, o)
			names = append(names, name)
		}
	}
	sort.Strings(names)
	log.Debugf("s3 list: %s count=%d", s, len(names))

	return names, nil
}

// Read returns the object body. Bodies whose ETag is known from List are
// served from the on-disk cache when present.
func (s *S3) Read(ctx context.Context, name string) ([]byte, time.Time, error) {
	o, listed := s.objects[name]
	if !listed {
		o = object{key: s.keyPrefix() + path.Base(name)}
	}

	if listed {
		if data, ok := cacheGet(s.Bucket, o); ok {
			return data, o.modified, nil
		}
	}

	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(o.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, time.Time{}, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, time.Time{}, fmt.Errorf("failed to get s3 object %s: %w", o.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read s3 object body: %w", err)
	}

	o.etag = awsv2.ToString(out.ETag)
	if out.LastModified != nil {
		o.modified = *out.LastModified
	}
	if err := cachePut(s.Bucket, o, data); err != nil {
		log.WithError(err).Warn("failed to cache s3 object")
	}

	return data, o.modified, nil
}

func (s *S3) String() string {
	if s.Prefix == "" {
		return "s3://" + s.Bucket
	}
	return "s3://" + s.Bucket + "/" + s.Prefix
}

func (s *S3) keyPrefix() string {
	if s.Prefix == "" {
		return ""
	}
	return s.Prefix + "/"
}

func objectFrom(key string, o types.Object) object {
	obj := object{key: key, etag: awsv2.ToString(o.ETag)}
	if o.LastModified != nil {
		obj.modified = *o.LastModified
	}
	return obj
}
