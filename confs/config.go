package confs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "change-me-in-prod"

type Config struct {
	Server             ServerConfig
	Database           DatabaseConfig
	Auth               AuthConfig
	Mail               MailConfig
	FrontendURL        string
	AMQPURL            string
	ResetSweepInterval time.Duration
	AuthRatePerMinute  int
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	Production     bool
}

type DatabaseConfig struct {
	Driver     string // postgres | mysql | sqlite
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
}

type MailConfig struct {
	Server        string
	Port          int
	UseSSL        bool
	Username      string
	Password      string
	DefaultSender string
}

// Configured reports whether outbound mail can be sent at all.
func (m MailConfig) Configured() bool {
	return m.Server != "" && m.Username != "" && m.Password != ""
}

// LoadConfig loads environment variables from a .env file if present
// and builds the application configuration from them.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	production := os.Getenv("ENV") == "production"

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		secret = os.Getenv("SECRET_KEY")
	}
	if secret == "" {
		if production {
			return nil, errors.New("JWT_SECRET_KEY must be set in production")
		}
		log.Println("warning: using development JWT secret")
		secret = devJWTSecret
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			AllowedOrigins: splitList(os.Getenv("CORS_ORIGINS")),
			Production:     production,
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:        os.Getenv("DB_URL"),
			Host:       os.Getenv("DB_HOST"),
			Port:       os.Getenv("DB_PORT"),
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       os.Getenv("DB_NAME"),
			SQLitePath: getEnv("DB_PATH", "finance.db"),
		},
		Auth: AuthConfig{
			JWTSecret: secret,
			TokenTTL:  getDuration("JWT_TTL", 24*time.Hour),
			ResetTTL:  time.Hour,
		},
		Mail: MailConfig{
			Server:   getEnv("MAIL_SERVER", "smtp.gmail.com"),
			Port:     getInt("MAIL_PORT", 587),
			UseSSL:   getBool("MAIL_USE_SSL", false),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
		},
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5174"),
		AMQPURL:            os.Getenv("AMQP_URL"),
		ResetSweepInterval: getDuration("RESET_SWEEP_INTERVAL", 10*time.Minute),
		AuthRatePerMinute:  getIntAllowZero("AUTH_RATE_LIMIT", 10),
	}
	cfg.Mail.DefaultSender = getEnv("MAIL_DEFAULT_SENDER", cfg.Mail.Username)

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return v
}

// getIntAllowZero is getInt for settings where 0 means "off".
func getIntAllowZero(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return def
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	log.Printf("invalid %s=%q, using default %t", key, raw, def)
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
