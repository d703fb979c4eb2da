/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3blob stores opaque objects in an Amazon S3 bucket under a key
 * prefix, optionally gzipped. It backs both session snapshots and the
 * httpcache.Cache used when fetching entry lists.
 */
package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/mikeb26/swisstd/internal/logging"
)

var ErrNotFound = errors.New("s3blob: object not found")

const gzipSuffix = ".gz"

// Bucket is a key prefix within one S3 bucket.
type Bucket struct {
	// Client is initialized by New from the default AWS configuration;
	// callers may replace it before first use.
	Client *s3.Client

	name   string
	prefix string
	gzip   bool
	log    logging.Logger
}

// New returns a Bucket backed by the named S3 bucket. The default
// configuration sources are used:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// The bucket is checked for head and list access before returning.
func New(ctx context.Context, name string, prefix string, gzipData bool,
	log logging.Logger) (*Bucket, error) {

	if log == nil {
		log = logging.Nop()
	}
	b := &Bucket{
		name:   name,
		prefix: strings.Trim(prefix, "/"),
		gzip:   gzipData,
		log:    log.With("bucket", name),
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3blob.new: failed to load AWS config: %w", err)
	}
	b.Client = s3.NewFromConfig(awsCfg)

	if _, err = b.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	}); err != nil {
		return nil, fmt.Errorf("s3blob.new: head bucket failed for %s: %w", name, err)
	}
	if _, err = b.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(name),
		Prefix:  aws.String(b.prefix + "/"),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return nil, fmt.Errorf("s3blob.new: list objects failed for %s: %w", name, err)
	}

	return b, nil
}

func (b *Bucket) Name() string {
	return b.name
}

func (b *Bucket) objectKey(key string) string {
	objKey := path.Join(b.prefix, key)
	if b.gzip {
		objKey += gzipSuffix
	}
	return objKey
}

func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	}

	resp, err := b.Client.GetObject(ctx, input)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
		}
		return nil, fmt.Errorf("s3blob.get: failed to get object %v/%v: %w",
			b.name, *input.Key, err)
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if b.gzip {
		gr, err := gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("s3blob.get: failed to open compressed object %v/%v: %w",
				b.name, *input.Key, err)
		}
		defer gr.Close()
		rdr = gr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3blob.get: failed to read object %v/%v: %w",
			b.name, *input.Key, err)
	}

	return data, nil
}

func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if b.gzip {
		compressed, err := gzipBytes(data)
		if err != nil {
			return fmt.Errorf("s3blob.put: failed to gzip data for %v/%v: %w",
				b.name, *input.Key, err)
		}
		input.Body = bytes.NewReader(compressed)
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3blob.put: put failed for %v/%v: %w", b.name,
			*input.Key, err)
	}
	return nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	}

	if _, err := b.Client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3blob.delete: delete failed for %v/%v: %w", b.name,
			*input.Key, err)
	}
	return nil
}

// List returns the keys stored under sub (relative to the bucket prefix),
// with the prefix and any gzip suffix removed.
func (b *Bucket) List(ctx context.Context, sub string) ([]string, error) {
	listPrefix := path.Join(b.prefix, sub) + "/"
	paginator := s3.NewListObjectsV2Paginator(b.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.name),
		Prefix: aws.String(listPrefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3blob.list: list failed for %v/%v: %w",
				b.name, listPrefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, b.trimKey(aws.ToString(obj.Key)))
		}
	}

	return keys, nil
}

func (b *Bucket) trimKey(objKey string) string {
	if b.prefix != "" {
		objKey = strings.TrimPrefix(objKey, b.prefix+"/")
	}
	if b.gzip {
		objKey = strings.TrimSuffix(objKey, gzipSuffix)
	}
	return objKey
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
