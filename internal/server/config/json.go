package config

import (
	"encoding/json"
	"os"

	"github.com/recordvault/recordvault/internal/flagx"
	"github.com/recordvault/recordvault/internal/timex"
)

// JsonConfig is the intermediate DTO for the optional JSON config file.
// It uses timex.Duration for the TTL so the file can say "1h" instead of
// nanoseconds. Zero values are treated as "not set" and leave the target
// Config field alone.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	IdentitySecret  string         `json:"identity_secret"`
	DefaultShareTTL timex.Duration `json:"default_share_ttl"`
	MaxUploadBytes  int64          `json:"max_upload_bytes"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flag, when present. A missing flag means nothing is loaded; an
// unreadable or malformed file panics, since running with half-applied
// configuration is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.IdentitySecret != "" {
		config.IdentitySecret = c.IdentitySecret
	}
	if c.DefaultShareTTL.Duration != 0 {
		config.DefaultShareTTL = c.DefaultShareTTL.Duration
	}
	if c.MaxUploadBytes != 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
