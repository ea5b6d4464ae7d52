package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test; t.Setenv restores them.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "AWS_REGION", "FETCH_TIMEOUT", "STORE_REQUESTS", "CACHE_TTL", "DEFAULT_MODEL_ID")
	t.Setenv("BUCKET_NAME", "bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bucket", cfg.BucketName)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "us-west-2", cfg.AWSRegion)
	assert.False(t, cfg.StoreRequests)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", cfg.DefaultModelID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_MODEL_ID", "amazon.titan-text-lite-v1")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("STORE_REQUESTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "amazon.titan-text-lite-v1", cfg.DefaultModelID)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.StoreRequests)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}
