package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Token     TokenConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	// FrontendURL is the base of the links embedded in verification and reset emails.
	FrontendURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenConfig struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	CleanupInterval time.Duration
}

type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	ProductName string
	ProductLink string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Requests per second for credential endpoints
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "240h")

	v.SetDefault("VERIFICATION_TOKEN_TTL", "24h")
	v.SetDefault("RESET_TOKEN_TTL", "20m")
	v.SetDefault("TOKEN_CLEANUP_INTERVAL", "1h")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "ProjectPilot <no-reply@projectpilot.com>")
	v.SetDefault("MAIL_PRODUCT_NAME", "ProjectPilot")
	v.SetDefault("MAIL_PRODUCT_LINK", "https://projectpilot.com")

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("RATE_LIMIT_AUTH_RPS", 1)
	v.SetDefault("RATE_LIMIT_AUTH_BURST", 5)

	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	v.SetDefault("CORS_MAX_AGE", 43200)
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(homeDir)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),
			FrontendURL: v.GetString("FRONTEND_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
			RefreshSecret: v.GetString("REFRESH_TOKEN_SECRET"),
			AccessTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
			RefreshTTL:    v.GetDuration("REFRESH_TOKEN_TTL"),
		},
		Token: TokenConfig{
			VerificationTTL: v.GetDuration("VERIFICATION_TOKEN_TTL"),
			ResetTTL:        v.GetDuration("RESET_TOKEN_TTL"),
			CleanupInterval: v.GetDuration("TOKEN_CLEANUP_INTERVAL"),
		},
		SMTP: SMTPConfig{
			Host:        v.GetString("SMTP_HOST"),
			Port:        v.GetInt("SMTP_PORT"),
			User:        v.GetString("SMTP_USER"),
			Password:    v.GetString("SMTP_PASSWORD"),
			From:        v.GetString("SMTP_FROM"),
			ProductName: v.GetString("MAIL_PRODUCT_NAME"),
			ProductLink: v.GetString("MAIL_PRODUCT_LINK"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      v.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    v.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   v.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   v.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}
}

// Validate reports the first missing setting the server cannot start without.
func (c *Config) Validate() error {
	switch {
	case c.Database.Host == "" || c.Database.DBName == "":
		return errors.New("database configuration is missing: set DB_HOST and DB_NAME")
	case c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "":
		return errors.New("token secrets are missing: set ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET")
	case c.JWT.AccessSecret == c.JWT.RefreshSecret:
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	case c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0:
		return errors.New("ACCESS_TOKEN_TTL and REFRESH_TOKEN_TTL must be positive")
	case c.Token.VerificationTTL <= 0 || c.Token.ResetTTL <= 0:
		return errors.New("VERIFICATION_TOKEN_TTL and RESET_TOKEN_TTL must be positive")
	case c.Token.CleanupInterval <= 0:
		return errors.New("TOKEN_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
