package storage

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Location(t *testing.T) {
	for raw, want := range map[string][2]string{
		"s3://minio:9000/data":              {"data", ""},
		"s3://minio:9000/data/":             {"data", ""},
		"s3://minio:9000/data/bulk/staging": {"data", "bulk/staging"},
	} {
		u, err := url.Parse(raw)
		require.NoError(t, err)

		bucket, prefix, err := s3Location(u)
		require.NoError(t, err, raw)
		assert.Equal(t, want[0], bucket, raw)
		assert.Equal(t, want[1], prefix, raw)
	}

	u, err := url.Parse("s3://minio:9000/")
	require.NoError(t, err)
	_, _, err = s3Location(u)
	require.Error(t, err)
}

func TestS3Config(t *testing.T) {
	u, err := url.Parse("s3://minio:9000/data?region=eu-west-1&insecure=true")
	require.NoError(t, err)

	cfg := s3Config(u, "data")
	assert.Equal(t, "minio:9000", cfg.Endpoint)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.True(t, cfg.Insecure)

	u, err = url.Parse("s3://s3.amazonaws.com/data")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s3Config(u, "data").Region)
}

func TestNew(t *testing.T) {
	ctx := t.Context()

	b, err := New(ctx, "inmemory://")
	require.NoError(t, err)
	require.NoError(t, b.Upload(ctx, "a", bytes.NewReader([]byte("x"))))

	b, err = New(ctx, "filesystem://"+t.TempDir())
	require.NoError(t, err)
	require.NoError(t, b.Upload(ctx, "dir/a", bytes.NewReader([]byte("x"))))
	exists, err := b.Exists(ctx, "dir/a")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = New(ctx, "gs://bucket")
	require.Error(t, err)
}
