package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hugh/ritum/pkg/util"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Encryption    EncryptionConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	AI            AIConfig
	CaseLaw       CaseLawConfig
	Search        SearchConfig
	Documents     DocumentsConfig
	Log           LogConfig
	Jurisprudence JurisprudenceConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret                   string
	AccessTokenExpireMinutes int
	RefreshTokenExpireDays   int
}

type EncryptionConfig struct {
	Key string
}

type RateLimitConfig struct {
	Enabled       bool
	Requests      int
	WindowSeconds int
}

type CORSConfig struct {
	Origins []string
}

type AIConfig struct {
	GoogleAPIKey string
	Model        string
}

type CaseLawConfig struct {
	APIKey          string
	URL             string
	CacheTTLSeconds int
}

type SearchConfig struct {
	MeiliURL    string
	MeiliAPIKey string
}

type DocumentsConfig struct {
	Storage       string
	Dir           string
	Format        string
	RetentionDays int
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	GCSBucket     string
}

type LogConfig struct {
	File string
}

type JurisprudenceConfig struct {
	ReindexCron string
}

const (
	minSecretLength = 32

	productionOrigin = "https://ritum-app.web.app"
)

var developmentOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
	"http://localhost:8080",
	"http://localhost:8081",
}

func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) AccessExpiry() time.Duration {
	return time.Duration(j.AccessTokenExpireMinutes) * time.Minute
}

func (j *JWTConfig) RefreshExpiry() time.Duration {
	return time.Duration(j.RefreshTokenExpireDays) * 24 * time.Hour
}

func (c *CaseLawConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (d *DocumentsConfig) Retention() time.Duration {
	return time.Duration(d.RetentionDays) * 24 * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWT.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretLength))
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.JWT.RefreshTokenExpireDays <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRE_DAYS must be positive"))
	}
	if c.Encryption.Key == "" {
		errs = append(errs, errors.New("ENCRYPTION_KEY is required"))
	}

	switch c.Documents.Storage {
	case "local":
	case "s3":
		if c.Documents.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when DOCUMENTS_STORAGE=s3"))
		}
	case "gcs":
		if c.Documents.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required when DOCUMENTS_STORAGE=gcs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DOCUMENTS_STORAGE %q", c.Documents.Storage))
	}

	if c.Documents.Format != "pdf" && c.Documents.Format != "html" {
		errs = append(errs, fmt.Errorf("unknown DOCUMENTS_FORMAT %q", c.Documents.Format))
	}

	if err := util.ValidateCronExpr(c.Jurisprudence.ReindexCron); err != nil {
		errs = append(errs, fmt.Errorf("JURISPRUDENCE_REINDEX_CRON: %w", err))
	}

	return errors.Join(errs...)
}

// rateLimitEnabled defaults to on in production. An explicit
// RATE_LIMIT_ENABLED wins in every environment.
func rateLimitEnabled(v *viper.Viper, env string) bool {
	if v.IsSet("RATE_LIMIT_ENABLED") {
		return v.GetBool("RATE_LIMIT_ENABLED")
	}
	return env == "production"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "ritum")
	v.SetDefault("DATABASE_PASSWORD", "ritum_secret")
	v.SetDefault("DATABASE_NAME", "ritum")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro-latest")
	v.SetDefault("DATAJUD_URL", "https://api-publica.datajud.cnj.jus.br/api_publica_tjsp/_search")
	v.SetDefault("CASELAW_CACHE_TTL_SECONDS", 600)
	v.SetDefault("DOCUMENTS_STORAGE", "local")
	v.SetDefault("DOCUMENTS_DIR", "generated_documents")
	v.SetDefault("DOCUMENTS_FORMAT", "pdf")
	v.SetDefault("DOCUMENTS_RETENTION_DAYS", 30)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("JURISPRUDENCE_REINDEX_CRON", "0 3 * * *")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := v.GetString("ENVIRONMENT")

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  env,
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:                   v.GetString("SECRET_KEY"),
			AccessTokenExpireMinutes: v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES"),
			RefreshTokenExpireDays:   v.GetInt("REFRESH_TOKEN_EXPIRE_DAYS"),
		},
		Encryption: EncryptionConfig{
			Key: v.GetString("ENCRYPTION_KEY"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       rateLimitEnabled(v, env),
			Requests:      v.GetInt("RATE_LIMIT_PER_MINUTE"),
			WindowSeconds: 60,
		},
		CORS: CORSConfig{
			Origins: corsOrigins(env, v.GetString("CORS_ORIGINS")),
		},
		AI: AIConfig{
			GoogleAPIKey: v.GetString("GOOGLE_API_KEY"),
			Model:        v.GetString("GEMINI_MODEL"),
		},
		CaseLaw: CaseLawConfig{
			APIKey:          v.GetString("DATAJUD_API_KEY"),
			URL:             v.GetString("DATAJUD_URL"),
			CacheTTLSeconds: v.GetInt("CASELAW_CACHE_TTL_SECONDS"),
		},
		Search: SearchConfig{
			MeiliURL:    v.GetString("MEILI_URL"),
			MeiliAPIKey: v.GetString("MEILI_API_KEY"),
		},
		Documents: DocumentsConfig{
			Storage:       strings.ToLower(v.GetString("DOCUMENTS_STORAGE")),
			Dir:           v.GetString("DOCUMENTS_DIR"),
			Format:        strings.ToLower(v.GetString("DOCUMENTS_FORMAT")),
			RetentionDays: v.GetInt("DOCUMENTS_RETENTION_DAYS"),
			S3Bucket:      v.GetString("S3_BUCKET"),
			S3Region:      v.GetString("S3_REGION"),
			S3Endpoint:    v.GetString("S3_ENDPOINT"),
			S3AccessKey:   v.GetString("S3_ACCESS_KEY_ID"),
			S3SecretKey:   v.GetString("S3_SECRET_ACCESS_KEY"),
			GCSBucket:     v.GetString("GCS_BUCKET"),
		},
		Log: LogConfig{
			File: v.GetString("LOG_FILE"),
		},
		Jurisprudence: JurisprudenceConfig{
			ReindexCron: v.GetString("JURISPRUDENCE_REINDEX_CRON"),
		},
	}

	return cfg, nil
}

func corsOrigins(env, explicit string) []string {
	if explicit != "" {
		var origins []string
		for _, o := range strings.Split(explicit, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return origins
	}
	if env == "production" {
		return []string{productionOrigin}
	}
	return append([]string(nil), developmentOrigins...)
}
