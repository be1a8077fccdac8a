package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":     "www.example:9000",
		"database_dsn":      "vault-dsn",
		"identity_secret":   "my_secret_key",
		"default_share_ttl": "30m",
		"max_upload_bytes":  1024,
		"s3_root_user":      "user",
		"s3_root_password":  "password",
		"s3_bucket":         "bucket",
		"s3_region":         "region",
		"s3_base_endpoint":  "base_endpoint",
	})
	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
	assert.Equal(t, "vault-dsn", cfg.DatabaseDSN)
	assert.Equal(t, "my_secret_key", cfg.IdentitySecret)
	assert.Equal(t, 30*time.Minute, cfg.DefaultShareTTL)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, "user", cfg.S3RootUser)
	assert.Equal(t, "password", cfg.S3RootPassword)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, "region", cfg.S3Region)
	assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
}

func Test_parseJson_PartialFileKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{"endpoint_addr": ":7070"})
	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, 1*time.Hour, cfg.DefaultShareTTL)
	assert.Equal(t, "secretKey", cfg.IdentitySecret)
}

func Test_parseJson_NoFlagLoadsNothing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
}

func Test_parseJson_BadFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Panics(t, func() { parseJson(cfg) })
}
