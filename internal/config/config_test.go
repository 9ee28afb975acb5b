package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_S3_BUCKET", "resumes")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8000, cfg.API.Port)
	require.Equal(t, 30, cfg.API.RateLimitPerMinute)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, 8, cfg.Evaluation.Concurrency)
	require.Equal(t, "it", cfg.Evaluation.Language)
	require.Equal(t, 10*time.Minute, cfg.LLM.TranslationCacheTTL)
	require.Empty(t, cfg.Clamd.Addr)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9000")
	t.Setenv("PG_HOST", "pg")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("DB_HOST", "mysql")
	t.Setenv("DB_USER", "jobby")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("EVALUATION_CONCURRENCY", "4")
	t.Setenv("EVALUATION_LANGUAGE", "en")
	t.Setenv("LLM_TRANSLATION_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.API.Port)
	require.Equal(t, "host=pg port=5432 user=postgres password=secret dbname=jobby_resume sslmode=disable", cfg.Database.DSN())
	require.Equal(t, "jobby:pw@tcp(mysql:3306)/jobby?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Platform.DSN())
	require.Equal(t, 4, cfg.Evaluation.Concurrency)
	require.Equal(t, "en", cfg.Evaluation.Language)
	require.Equal(t, 30*time.Second, cfg.LLM.TranslationCacheTTL)
}

func TestLoadValidates(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("EVALUATION_LANGUAGE", "fr")

	_, err := Load()
	require.ErrorContains(t, err, "unsupported evaluation language")
}

func TestLoadRequiresBucket(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AWS_S3_BUCKET", "")

	_, err := Load()
	require.ErrorContains(t, err, "minio bucket is required")
}
