package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Assessment AssessmentConfig
	Recompute  RecomputeConfig
	Metrics    MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	// AutoMigrate applies the idempotent schema on startup.
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig configures bearer token validation for write routes. Tokens are
// issued by the institution's identity provider.
type JWTConfig struct {
	Secret       string
	Issuer       string
	AuthRequired bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs Redis caching of the IIQA window and score summaries.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AssessmentConfig holds the accreditation-cycle rules applied to submissions and scoring.
type AssessmentConfig struct {
	MinYear        int
	SubmissionSpan int
	ScoringSpan    int
	InstitutionID  int
}

// RecomputeConfig sizes the bulk score recompute worker pool.
type RecomputeConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	JobTimeout time.Duration
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:       v.GetString("JWT_SECRET"),
		Issuer:       v.GetString("JWT_ISSUER"),
		AuthRequired: v.GetBool("AUTH_REQUIRED"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
	}

	cfg.Assessment = AssessmentConfig{
		MinYear:        v.GetInt("ASSESSMENT_MIN_YEAR"),
		SubmissionSpan: v.GetInt("ASSESSMENT_SUBMISSION_SPAN"),
		ScoringSpan:    v.GetInt("ASSESSMENT_SCORING_SPAN"),
		InstitutionID:  v.GetInt("ASSESSMENT_INSTITUTION_ID"),
	}

	cfg.Recompute = RecomputeConfig{
		Workers:    v.GetInt("RECOMPUTE_WORKERS"),
		BufferSize: v.GetInt("RECOMPUTE_BUFFER_SIZE"),
		MaxRetries: v.GetInt("RECOMPUTE_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("RECOMPUTE_RETRY_DELAY"), 2*time.Second),
		JobTimeout: parseDuration(v.GetString("RECOMPUTE_JOB_TIMEOUT"), 5*time.Minute),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "naac_sar")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("AUTH_REQUIRED", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "10m")

	v.SetDefault("ASSESSMENT_MIN_YEAR", 1990)
	v.SetDefault("ASSESSMENT_SUBMISSION_SPAN", 5)
	v.SetDefault("ASSESSMENT_SCORING_SPAN", 5)
	v.SetDefault("ASSESSMENT_INSTITUTION_ID", 1)

	v.SetDefault("RECOMPUTE_WORKERS", 1)
	v.SetDefault("RECOMPUTE_BUFFER_SIZE", 16)
	v.SetDefault("RECOMPUTE_MAX_RETRIES", 2)
	v.SetDefault("RECOMPUTE_RETRY_DELAY", "2s")
	v.SetDefault("RECOMPUTE_JOB_TIMEOUT", "5m")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
