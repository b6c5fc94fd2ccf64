// Package s3 implements artifactstore.Store backed by S3 or an S3-compatible
// object store. No multipart upload state, no buffered deletion queue: the
// hub only reads game artifacts through this path.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/arcadefleet/hub/pkg/artifactstore"
)

// Config configures a Store.
type Config struct {
	Client    *s3.Client
	Bucket    string
	KeyPrefix string // optional prefix for all object keys, e.g. "arcade/"
}

// Store is an artifactstore.Store backed by an S3 bucket. Manifests live at
// "<prefix>games/<gameID>/<versionID>/manifest.json"; game files live at
// "<prefix>games/<gameID>/<versionID>/<path>".
type Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	keyPrefix string
}

// New builds a Store. It does not verify bucket access; callers that want a
// fail-fast check should call VerifyBucket separately, since presign clients
// are also frequently built against buckets the caller doesn't own.
func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("artifactstore/s3: client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("artifactstore/s3: bucket is required")
	}
	return &Store{
		client:    cfg.Client,
		presign:   s3.NewPresignClient(cfg.Client),
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// NewClientFromConfig builds an S3 client from static, YAML-driven config.
func NewClientFromConfig(ctx context.Context, endpoint, region, accessKeyID, secretAccessKey string, forcePathStyle bool) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("artifactstore/s3: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
		o.UsePathStyle = forcePathStyle
	}), nil
}

// VerifyBucket confirms the configured bucket is reachable.
func (s *Store) VerifyBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("artifactstore/s3: access bucket %q: %w", s.bucket, err)
	}
	return nil
}

func (s *Store) manifestKey(gameID, versionID string) string {
	return fmt.Sprintf("%sgames/%s/%s/manifest.json", s.keyPrefix, gameID, versionID)
}

func (s *Store) fileKey(gameID, versionID, path string) string {
	return fmt.Sprintf("%sgames/%s/%s/%s", s.keyPrefix, gameID, versionID, path)
}

// Manifest fetches and decodes the manifest object for gameID/versionID.
func (s *Store) Manifest(ctx context.Context, gameID, versionID string) (*artifactstore.GameManifest, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.manifestKey(gameID, versionID)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, artifactstore.ErrNotFound
		}
		return nil, fmt.Errorf("artifactstore/s3: get manifest: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("artifactstore/s3: read manifest: %w", err)
	}

	var manifest artifactstore.GameManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("artifactstore/s3: decode manifest: %w", err)
	}
	return &manifest, nil
}

// PutManifest writes a manifest object, used by the admin surface (or tests)
// to publish a new game version.
func (s *Store) PutManifest(ctx context.Context, gameID, versionID string, manifest *artifactstore.GameManifest) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("artifactstore/s3: encode manifest: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.manifestKey(gameID, versionID)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("artifactstore/s3: put manifest: %w", err)
	}
	return nil
}

// SignedURL mints a presigned GET URL for one game file, valid for ttl.
func (s *Store) SignedURL(ctx context.Context, gameID, versionID, path string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fileKey(gameID, versionID, path)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("artifactstore/s3: presign %s: %w", path, err)
	}
	return req.URL, nil
}
