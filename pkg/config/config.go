package config

import (
	"errors"
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

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Sessions SessionConfig
	Roles    RoleConfig
	Exports  ExportConfig
	Audit    AuditConfig
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
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig governs sign-in/sign-up policy and the external OAuth provider
// used by the login completion endpoint.
type AuthConfig struct {
	AllowedEmailDomain string
	SingleSession      bool

	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string

	AppHomeURL  string
	AppLoginURL string
}

// SessionConfig tunes the background purge of expired refresh tokens.
type SessionConfig struct {
	JanitorInterval time.Duration
}

// RoleConfig tunes the Redis-backed role resolution cache.
type RoleConfig struct {
	CacheTTL time.Duration
}

// ExportConfig gates the committee export endpoints.
type ExportConfig struct {
	Enabled bool
}

// AuditConfig tunes the asynchronous audit trail writer.
type AuditConfig struct {
	Workers    int
	BufferSize int
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
		if !errors.As(err, &notFound) {
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
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{
		AllowedEmailDomain: strings.TrimPrefix(strings.ToLower(v.GetString("AUTH_ALLOWED_EMAIL_DOMAIN")), "@"),
		SingleSession:      v.GetBool("AUTH_SINGLE_SESSION"),
		OAuthTokenURL:      v.GetString("OAUTH_TOKEN_URL"),
		OAuthUserInfoURL:   v.GetString("OAUTH_USERINFO_URL"),
		OAuthClientID:      v.GetString("OAUTH_CLIENT_ID"),
		OAuthClientSecret:  v.GetString("OAUTH_CLIENT_SECRET"),
		OAuthRedirectURL:   v.GetString("OAUTH_REDIRECT_URL"),
		AppHomeURL:         v.GetString("APP_HOME_URL"),
		AppLoginURL:        v.GetString("APP_LOGIN_URL"),
	}

	cfg.Sessions = SessionConfig{
		JanitorInterval: parseDuration(v.GetString("SESSION_JANITOR_INTERVAL"), 15*time.Minute),
	}

	cfg.Roles = RoleConfig{
		CacheTTL: parseDuration(v.GetString("ROLE_CACHE_TTL"), time.Minute),
	}

	cfg.Exports = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	cfg.Audit = AuditConfig{
		Workers:    v.GetInt("AUDIT_WORKERS"),
		BufferSize: v.GetInt("AUDIT_BUFFER_SIZE"),
	}

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
	v.SetDefault("DB_NAME", "honor_site")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "1h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "honor-site-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AUTH_ALLOWED_EMAIL_DOMAIN", "episcopalhighschool.org")
	v.SetDefault("AUTH_SINGLE_SESSION", false)
	v.SetDefault("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token")
	v.SetDefault("OAUTH_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo")
	v.SetDefault("OAUTH_CLIENT_ID", "")
	v.SetDefault("OAUTH_CLIENT_SECRET", "")
	v.SetDefault("OAUTH_REDIRECT_URL", "http://localhost:8080/api/v1/auth/callback")
	v.SetDefault("APP_HOME_URL", "http://localhost:3000/home")
	v.SetDefault("APP_LOGIN_URL", "http://localhost:3000/login")

	v.SetDefault("SESSION_JANITOR_INTERVAL", "15m")
	v.SetDefault("ROLE_CACHE_TTL", "1m")
	v.SetDefault("ENABLE_EXPORTS", true)

	v.SetDefault("AUDIT_WORKERS", 1)
	v.SetDefault("AUDIT_BUFFER_SIZE", 64)
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
