package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: s3cret\nminio:\n  endpoint: localhost:9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Hour, cfg.JWT.ExpireDuration())
	assert.Equal(t, "media", cfg.MinIO.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.MinIO.BaseURL())
	assert.Equal(t, int64(500*1024*1024), cfg.Media.MaxVideoBytes())
	assert.NotEmpty(t, cfg.Media.DefaultProfilePic)
	assert.Equal(t, "blob_cleanup", cfg.Kafka.Topic("blob_cleanup"))
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("VIDSHARE_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoad_RequiresSecret(t *testing.T) {
	path := writeConfig(t, "app:\n  name: x\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestMinIOConfig_PublicURL(t *testing.T) {
	m := MinIOConfig{Endpoint: "minio:9000", UseSSL: true, PublicURL: "https://cdn.example.com/"}
	assert.Equal(t, "https://cdn.example.com", m.BaseURL())

	m.PublicURL = ""
	assert.Equal(t, "https://minio:9000", m.BaseURL())
}
