// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps content documents as JSON objects in an
// S3-compatible bucket. Object ETags serve as revisions and every write is
// conditional (If-Match / If-None-Match), so a stale revision fails the
// write instead of overwriting. It wraps the AWS SDK v2 and is configured
// for path-style access (required by CEPH/Hetzner).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"sitecms/internal/persist"
)

// Object metadata attached to every write.
const (
	metaCommitterName  = "committer-name"
	metaCommitterEmail = "committer-email"
	metaCommitMessage  = "commit-message"
)

// Client stores documents under prefix in one bucket.
type Client struct {
	s3     *s3.Client
	bucket string
	prefix string
}

// New creates an S3 content store configured with path-style addressing.
// prefix is prepended to every object key (e.g. "src/data").
func New(endpoint, region, accessKey, secretKey, bucket, prefix string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, errors.New("s3 store: endpoint, credentials and bucket are required")
	}

	endpoint = strings.TrimRight(endpoint, "/")
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	s3Client := s3.New(s3.Options{
		Region:                     region,
		BaseEndpoint:               aws.String(endpoint),
		Credentials:                credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle:               true,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})

	return &Client{s3: s3Client, bucket: bucket, prefix: prefix}, nil
}

// ObjectKey returns the object key of a document.
func (c *Client) ObjectKey(key string) string {
	return c.prefix + key + ".json"
}

// Get returns the stored document with its ETag as revision.
func (c *Client) Get(ctx context.Context, key string) (*persist.Document, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.ObjectKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", key, classify(err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s: %w", key, err)
	}
	return &persist.Document{Key: key, Content: data, Revision: aws.ToString(out.ETag)}, nil
}

// Put writes a document. An empty revision only succeeds if the object
// does not exist yet; otherwise the object's ETag must equal revision.
func (c *Client) Put(ctx context.Context, key string, content []byte, revision string, commit persist.Commit) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(c.ObjectKey(key)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String("application/json"),
		Metadata:      metadata(commit),
	}
	if revision == "" {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(revision)
	}

	out, err := c.s3.PutObject(ctx, input)
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, classify(err))
	}
	return aws.ToString(out.ETag), nil
}

// Delete removes a document if its ETag still equals revision.
func (c *Client) Delete(ctx context.Context, key, revision string, _ persist.Commit) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.ObjectKey(key)),
	}
	if revision != "" {
		input.IfMatch = aws.String(revision)
	}
	if _, err := c.s3.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, classify(err))
	}
	return nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// metadata records the commit on the object. Values are escaped since
// S3 metadata must be ASCII.
func metadata(commit persist.Commit) map[string]string {
	return map[string]string{
		metaCommitterName:  url.QueryEscape(commit.Committer.Name),
		metaCommitterEmail: url.QueryEscape(commit.Committer.Email),
		metaCommitMessage:  url.QueryEscape(commit.Message),
	}
}

// classify maps S3 errors onto the persist sentinels.
func classify(err error) error {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return persist.ErrNotFound
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return persist.ErrNotFound
		case "PreconditionFailed", "ConditionalRequestConflict":
			return persist.ErrConflict
		}
	}
	return err
}
