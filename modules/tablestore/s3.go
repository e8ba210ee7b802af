package tablestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store keeps each entity as one object at "<collection>/<encoded key>".
// The object ETag is the version tag; writes are guarded with If-Match and
// If-None-Match.
type S3Store struct {
	client s3API
	bucket string
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates an S3 backed store (AWS S3 or any S3 compatible
// endpoint supporting conditional writes).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Store(client, cfg.Bucket), nil
}

func newS3Store(client s3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func objectKey(collection, key string) string {
	return collection + "/" + encodeKey(key)
}

func (s *S3Store) Get(ctx context.Context, collection, key string) (Entry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("s3 get %s/%s: %w", collection, key, err)
	}
	defer out.Body.Close()

	value, err := io.ReadAll(out.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("s3 read %s/%s: %w", collection, key, err)
	}
	return Entry{Key: key, Value: value, Version: aws.ToString(out.ETag)}, nil
}

func (s *S3Store) Insert(ctx context.Context, collection, key string, value []byte) (string, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(collection, key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isS3PreconditionFailed(err) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("s3 insert %s/%s: %w", collection, key, err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *S3Store) Put(ctx context.Context, collection, key string, value []byte, expectedVersion string) (string, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(collection, key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
		IfMatch:     aws.String(expectedVersion),
	})
	if err != nil {
		if isS3PreconditionFailed(err) || isS3NotFound(err) {
			return "", ErrVersionMismatch
		}
		return "", fmt.Errorf("s3 put %s/%s: %w", collection, key, err)
	}
	return aws.ToString(out.ETag), nil
}

// Delete checks existence first since S3 deletes of missing keys succeed.
func (s *S3Store) Delete(ctx context.Context, collection, key string) error {
	objKey := aws.String(objectKey(collection, key))
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: objKey}); err != nil {
		if isS3NotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("s3 head %s/%s: %w", collection, key, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: objKey}); err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *S3Store) Query(ctx context.Context, collection string, match KeyPredicate) ([]Entry, error) {
	prefix := collection + "/"
	entries := []Entry{}

	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 list %s: %w", collection, err)
		}
		for _, obj := range out.Contents {
			key, err := decodeKey(strings.TrimPrefix(aws.ToString(obj.Key), prefix))
			if err != nil || !match(key) {
				continue
			}
			e, err := s.Get(ctx, collection, key)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	return sortEntries(entries), nil
}

func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3Store) Close() error { return nil }

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// isS3PreconditionFailed reports a lost conditional write. S3 answers 409
// ConditionalRequestConflict when two conditional writes race.
func isS3PreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
