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

// Storage backends understood by the signed-link service.
const (
	StorageBackendSupabase = "supabase"
	StorageBackendLocal    = "local"
)

// Development secrets. Production refuses to start while either is in use.
const (
	devJWTSecret     = "dev_secret"
	devStorageSecret = "dev_storage_secret"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Exports  ExportsConfig
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig describes the object storage used for photos, timetables and report PDFs.
type StorageConfig struct {
	Backend         string
	URL             string
	ServiceKey      string
	ImagesBucket    string
	DocumentsBucket string
	LinkTTL         time.Duration
	SignTimeout     time.Duration
	LocalDir        string
	LocalSecret     string
	PublicBaseURL   string
}

// CacheConfig toggles the redis cache for reference rows (academic years, houses).
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuthConfig controls whether guardian routes demand a bearer token.
type AuthConfig struct {
	Required bool
}

// ExportsConfig gates the report summary export endpoint.
type ExportsConfig struct {
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
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Backend:         strings.ToLower(v.GetString("STORAGE_BACKEND")),
		URL:             strings.TrimRight(v.GetString("STORAGE_URL"), "/"),
		ServiceKey:      v.GetString("STORAGE_SERVICE_KEY"),
		ImagesBucket:    v.GetString("STORAGE_IMAGES_BUCKET"),
		DocumentsBucket: v.GetString("STORAGE_DOCUMENTS_BUCKET"),
		LinkTTL:         parseDuration(v.GetString("STORAGE_LINK_TTL"), time.Hour),
		SignTimeout:     parseDuration(v.GetString("STORAGE_SIGN_TIMEOUT"), 5*time.Second),
		LocalDir:        v.GetString("STORAGE_LOCAL_DIR"),
		LocalSecret:     v.GetString("STORAGE_LOCAL_SECRET"),
		PublicBaseURL:   strings.TrimRight(v.GetString("STORAGE_PUBLIC_BASE_URL"), "/"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_REFERENCE_CACHE"),
		TTL:     parseDuration(v.GetString("REFERENCE_CACHE_TTL"), 30*time.Minute),
	}

	cfg.Auth = AuthConfig{Required: v.GetBool("AUTH_REQUIRED")}

	cfg.Exports = ExportsConfig{Enabled: v.GetBool("ENABLE_EXPORTS")}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != EnvProduction {
		return nil
	}
	if c.JWT.Secret == "" || c.JWT.Secret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Storage.Backend == StorageBackendLocal && (c.Storage.LocalSecret == "" || c.Storage.LocalSecret == devStorageSecret) {
		return errors.New("STORAGE_LOCAL_SECRET must be set in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3000)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "school-portal-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_BACKEND", StorageBackendSupabase)
	v.SetDefault("STORAGE_URL", "")
	v.SetDefault("STORAGE_SERVICE_KEY", "")
	v.SetDefault("STORAGE_IMAGES_BUCKET", "images")
	v.SetDefault("STORAGE_DOCUMENTS_BUCKET", "pdfs")
	v.SetDefault("STORAGE_LINK_TTL", "1h")
	v.SetDefault("STORAGE_SIGN_TIMEOUT", "5s")
	v.SetDefault("STORAGE_LOCAL_DIR", "./storage")
	v.SetDefault("STORAGE_LOCAL_SECRET", devStorageSecret)
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:3000")

	v.SetDefault("ENABLE_REFERENCE_CACHE", false)
	v.SetDefault("REFERENCE_CACHE_TTL", "30m")
	v.SetDefault("AUTH_REQUIRED", true)
	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
