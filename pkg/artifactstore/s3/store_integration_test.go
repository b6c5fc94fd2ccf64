//go:build integration

package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/arcadefleet/hub/pkg/artifactstore"
)

// localstackHelper manages the Localstack container backing the S3 artifact
// store integration tests. Set LOCALSTACK_ENDPOINT to point at an
// already-running instance instead of spinning one up per test.
type localstackHelper struct {
	container testcontainers.Container
	endpoint  string
	client    *s3.Client
}

func newLocalstackHelper(t *testing.T) *localstackHelper {
	t.Helper()
	ctx := context.Background()

	if endpoint := os.Getenv("LOCALSTACK_ENDPOINT"); endpoint != "" {
		h := &localstackHelper{endpoint: endpoint}
		h.createClient(t)
		return h
	}

	req := testcontainers.ContainerRequest{
		Image:        "localstack/localstack:3.0",
		ExposedPorts: []string{"4566/tcp"},
		Env: map[string]string{
			"SERVICES":              "s3",
			"DEFAULT_REGION":        "us-east-1",
			"EAGER_SERVICE_LOADING": "1",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("4566/tcp"),
			wait.ForHTTP("/_localstack/health").WithPort("4566/tcp").WithStartupTimeout(60*time.Second),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "4566")
	require.NoError(t, err)

	h := &localstackHelper{container: container, endpoint: fmt.Sprintf("http://%s:%s", host, port.Port())}
	h.createClient(t)
	return h
}

func (h *localstackHelper) createClient(t *testing.T) {
	t.Helper()
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err)

	h.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = &h.endpoint
		o.UsePathStyle = true
	})
}

func (h *localstackHelper) createBucket(t *testing.T, bucket string) {
	t.Helper()
	_, err := h.client.CreateBucket(context.Background(), &s3.CreateBucketInput{Bucket: &bucket})
	require.NoError(t, err)
}

func newTestStore(t *testing.T, h *localstackHelper) *Store {
	t.Helper()
	bucket := fmt.Sprintf("arcade-test-%d", time.Now().UnixNano())
	h.createBucket(t, bucket)

	store, err := New(Config{Client: h.client, Bucket: bucket, KeyPrefix: "arcade/"})
	require.NoError(t, err)
	return store
}

func TestStore_ManifestRoundTrip(t *testing.T) {
	h := newLocalstackHelper(t)
	s := newTestStore(t, h)
	ctx := context.Background()

	gameID, versionID := "beatsaber", "v1.2.3"
	manifest := &artifactstore.GameManifest{
		Version: versionID,
		Files: map[string]artifactstore.ManifestFile{
			"apk/beatsaber.apk": {Hash: "deadbeef", Size: 1024},
		},
	}

	require.NoError(t, s.PutManifest(ctx, gameID, versionID, manifest))

	got, err := s.Manifest(ctx, gameID, versionID)
	require.NoError(t, err)
	require.Equal(t, manifest.Version, got.Version)
	require.Len(t, got.Files, 1)
	require.Equal(t, manifest.Files["apk/beatsaber.apk"].Hash, got.Files["apk/beatsaber.apk"].Hash)
}

func TestStore_ManifestNotFound(t *testing.T) {
	h := newLocalstackHelper(t)
	s := newTestStore(t, h)

	_, err := s.Manifest(context.Background(), "nonexistent", "v1")
	require.ErrorIs(t, err, artifactstore.ErrNotFound)
}

func TestStore_SignedURLIsFetchable(t *testing.T) {
	h := newLocalstackHelper(t)
	s := newTestStore(t, h)
	ctx := context.Background()

	url, err := s.SignedURL(ctx, "beatsaber", "v1.2.3", "apk/beatsaber.apk", 5*time.Minute)
	require.NoError(t, err)
	require.Contains(t, url, "beatsaber")

	require.NoError(t, s.VerifyBucket(ctx))
}
