package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/logger"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// SpacesStorage keeps assets in an S3 compatible bucket (DigitalOcean Spaces by default)
type SpacesStorage struct {
	client *s3.Client
	bucket string
	root   string
}

func NewSpacesStorage(ctx context.Context, cfg ascendance.SpacesConfig) (*SpacesStorage, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Region)
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: endpoint,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	return &SpacesStorage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		root:   strings.Trim(cfg.Root, "/"),
	}, nil
}

func (s *SpacesStorage) objectKey(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if s.root == "" {
		return cleaned, nil
	}
	return path.Join(s.root, cleaned), nil
}

// Stage uploads data under a private staging key. The SDK needs a seekable
// body to sign the payload, so non-seekable readers are buffered.
func (s *SpacesStorage) Stage(ctx context.Context, key string, data io.Reader) (StagedObject, error) {
	final, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	staging, err := s.objectKey(path.Join(stagingDir, uuid.NewString()))
	if err != nil {
		return nil, err
	}

	body, ok := data.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(staging),
		Body:   body,
		ACL:    types.ObjectCannedACLPrivate,
	})
	logger.LogStorage("stage", key, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &spacesStaged{storage: s, key: key, staging: staging, final: final}, nil
}

func (s *SpacesStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, &errs.NotFoundError{Entity: "file", ID: key}
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, &errs.NotFoundError{Entity: "file", ID: key}
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	return out.Body, nil
}

// Delete removes the object. S3 reports success for keys that do not exist.
func (s *SpacesStorage) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	logger.LogStorage("delete", key, err)
	return err
}

func (s *SpacesStorage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	return err
}

type spacesStaged struct {
	storage   *SpacesStorage
	key       string
	staging   string
	final     string
	committed bool
}

func (o *spacesStaged) Key() string {
	return o.key
}

// Commit copies the staged object to its final key and drops the staging copy
func (o *spacesStaged) Commit(ctx context.Context) error {
	_, err := o.storage.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(o.storage.bucket),
		CopySource: aws.String(path.Join(o.storage.bucket, o.staging)),
		Key:        aws.String(o.final),
		ACL:        types.ObjectCannedACLPrivate,
	})
	logger.LogStorage("commit", o.key, err)
	if err != nil {
		return fmt.Errorf("failed to commit %s: %w", o.key, err)
	}
	o.committed = true

	if _, err := o.storage.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.storage.bucket),
		Key:    aws.String(o.staging),
	}); err != nil {
		logger.LogStorage("cleanup", o.staging, err)
	}
	return nil
}

func (o *spacesStaged) Discard(ctx context.Context) error {
	target := o.staging
	if o.committed {
		target = o.final
	}
	_, err := o.storage.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.storage.bucket),
		Key:    aws.String(target),
	})
	logger.LogStorage("discard", o.key, err)
	return err
}
