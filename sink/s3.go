// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gogpu/photomark/internal/logging"
)

// PutObjectAPI is the subset of the S3 client used by S3.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads payloads to Bucket under Prefix.
type S3 struct {
	Client PutObjectAPI
	Bucket string
	Prefix string
}

var _ Sink = (*S3)(nil)

// NewS3 returns an S3 sink using the default AWS credential chain
// (environment, shared config, instance role).
func NewS3(ctx context.Context, bucket, prefix string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("sink: empty bucket")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("sink: load AWS config: %w", err)
	}
	return &S3{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

// Save uploads payload and returns its s3:// URL.
func (s *S3) Save(ctx context.Context, name string, payload []byte) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	key := path.Join(s.Prefix, name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := s.Client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("sink: upload %s: %w", key, err)
	}
	loc := "s3://" + s.Bucket + "/" + key
	logging.With("sink").Info("export uploaded", "location", loc, "bytes", len(payload))
	return loc, nil
}
