package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Platform   PlatformDBConfig `mapstructure:"platform_db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Clamd      ClamdConfig      `mapstructure:"clamd"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Log        LogConfig        `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port               int      `mapstructure:"port"`
	InternalSecret     string   `mapstructure:"internal_secret"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// PlatformDBConfig 描述 jobby 平台 MySQL 只读库的连接参数。
type PlatformDBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	BucketLookup    string `mapstructure:"bucket_lookup"`
	Bucket          string `mapstructure:"bucket"`
	CacheDir        string `mapstructure:"cache_dir"`
}

// LLMConfig 描述结构化抽取与 text-to-SQL 所用的模型参数。
type LLMConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	TranslatorModel     string        `mapstructure:"translator_model"`
	Temperature         float32       `mapstructure:"temperature"`
	MaxRetries          int           `mapstructure:"max_retries"`
	TranslationCacheTTL time.Duration `mapstructure:"translation_cache_ttl"`
}

// EvaluationConfig controls the candidate evaluation fan-out.
type EvaluationConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Language    string `mapstructure:"language"`
}

// ClamdConfig 为空地址时跳过病毒扫描。
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// TracingConfig contains OpenTelemetry exporter options.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// DSN builds a go-sql-driver/mysql connection string.
func (p PlatformDBConfig) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
	)
}

// Addr 返回 host:port 形式的 Redis 地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from an optional .env file and environment variables (with defaults).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.rate_limit_per_minute", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "jobby_resume")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("platform_db.host", "localhost")
	v.SetDefault("platform_db.port", 3306)
	v.SetDefault("platform_db.name", "jobby")
	v.SetDefault("platform_db.user", "root")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "s3.amazonaws.com")
	v.SetDefault("minio.use_ssl", true)
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.cache_dir", "resumes")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.translator_model", "gemini-2.5-pro")
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.translation_cache_ttl", 10*time.Minute)
	v.SetDefault("evaluation.concurrency", 8)
	v.SetDefault("evaluation.language", "it")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "jobby-resume")
	v.SetDefault("tracing.sample_ratio", 0.1)
	v.SetDefault("log.json", true)
	v.SetDefault("log.debug", false)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                  "API_PORT",
		"api.internal_secret":       "INTERNAL_API_SECRET",
		"api.rate_limit_per_minute": "API_RATE_LIMIT_PER_MINUTE",
		"api.allowed_origins":       "WS_ALLOWED_ORIGINS",
		"database.host":             "PG_HOST",
		"database.port":             "PG_PORT",
		"database.name":             "PG_DATABASE",
		"database.user":             "PG_USER",
		"database.password":         "PG_PASSWORD",
		"database.sslmode":          "PG_SSLMODE",
		"platform_db.host":          "DB_HOST",
		"platform_db.port":          "DB_PORT",
		"platform_db.name":          "DB_NAME",
		"platform_db.user":          "DB_USER",
		"platform_db.password":      "DB_PASSWORD",
		"redis.host":                "REDIS_HOST",
		"redis.port":                "REDIS_PORT",
		"minio.endpoint":            "S3_ENDPOINT",
		"minio.access_key_id":       "AWS_ACCESS_KEY_ID",
		"minio.secret_access_key":   "AWS_SECRET_ACCESS_KEY",
		"minio.use_ssl":             "S3_USE_SSL",
		"minio.region":              "AWS_REGION",
		"minio.bucket_lookup":       "S3_BUCKET_LOOKUP",
		"minio.bucket":              "AWS_S3_BUCKET",
		"minio.cache_dir":           "RESUME_CACHE_DIR",
		"llm.api_key":               "GEMINI_API_KEY",
		"llm.model":                 "LLM_MODEL",
		"llm.translator_model":      "LLM_TRANSLATOR_MODEL",
		"llm.temperature":           "LLM_TEMPERATURE",
		"llm.max_retries":           "LLM_MAX_RETRIES",
		"llm.translation_cache_ttl": "LLM_TRANSLATION_CACHE_TTL",
		"evaluation.concurrency":    "EVALUATION_CONCURRENCY",
		"evaluation.language":       "EVALUATION_LANGUAGE",
		"clamd.addr":                "CLAMD_ADDR",
		"tracing.enabled":           "OTEL_ENABLED",
		"tracing.service_name":      "OTEL_SERVICE_NAME",
		"tracing.endpoint":          "OTEL_EXPORTER_OTLP_ENDPOINT",
		"tracing.insecure":          "OTEL_EXPORTER_OTLP_INSECURE",
		"tracing.sample_ratio":      "OTEL_SAMPLER_RATIO",
		"log.json":                  "LOG_JSON",
		"log.debug":                 "LOG_DEBUG",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.RateLimitPerMinute < 0 {
		return errors.New("api rate limit must not be negative")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Platform.Host == "" {
		return errors.New("platform db host is required")
	}
	if cfg.Platform.Port <= 0 {
		return errors.New("platform db port must be positive")
	}
	if cfg.Platform.Name == "" {
		return errors.New("platform db name is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.MinIO.CacheDir == "" {
		return errors.New("minio cache dir is required")
	}
	if cfg.LLM.Model == "" {
		return errors.New("llm model is required")
	}
	if cfg.LLM.MaxRetries < 0 {
		return errors.New("llm max retries must not be negative")
	}
	if cfg.Evaluation.Concurrency <= 0 {
		return errors.New("evaluation concurrency must be positive")
	}
	switch cfg.Evaluation.Language {
	case "it", "en":
	default:
		return fmt.Errorf("unsupported evaluation language %q", cfg.Evaluation.Language)
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return errors.New("tracing sample ratio must be within [0,1]")
	}
	return nil
}
