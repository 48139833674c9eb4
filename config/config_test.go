package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PROFILE_CACHE_TTL", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.ProfileCacheTTL)
	assert.Equal(t, "s3", cfg.StorageBackend)
	assert.Equal(t, "smtp-service", cfg.RabbitMQEmailQueue)
	assert.Equal(t, "notification-service", cfg.RabbitMQNotificationQueue)
	assert.Equal(t, 5, cfg.PropagationMaxRetries)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PROFILE_CACHE_TTL", "5s")
	t.Setenv("PROPAGATION_MAX_RETRIES", "not-a-number")
	t.Setenv("AVATARS_LINK", "https://cdn.example.com/avatars/")
	t.Setenv("STORAGE_BACKEND", "GCS")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200, ,http://es2:9200")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Second, cfg.ProfileCacheTTL)
	assert.Equal(t, 5, cfg.PropagationMaxRetries)
	assert.Equal(t, "https://cdn.example.com/avatars", cfg.AvatarsLink)
	assert.Equal(t, "gcs", cfg.StorageBackend)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
