package confs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"JWT_SECRET_KEY", "SECRET_KEY", "ENV", "PORT", "DB_DRIVER", "JWT_TTL",
		"MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_DEFAULT_SENDER", "FRONTEND_URL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTTL)
	assert.Equal(t, "http://localhost:5174", cfg.FrontendURL)
	assert.False(t, cfg.Mail.Configured())
	assert.Empty(t, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SECRET_KEY", "from-secret-key")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MAIL_PORT", "not-a-number")
	t.Setenv("MAIL_USERNAME", "bot@example.com")
	t.Setenv("MAIL_PASSWORD", "pw")
	t.Setenv("MAIL_DEFAULT_SENDER", "")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:3000 ,")
	t.Setenv("DB_DRIVER", "SQLite")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret-key", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.Mail.Configured())
	assert.Equal(t, "bot@example.com", cfg.Mail.DefaultSender)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("SECRET_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadConfig_AuthRateLimit(t *testing.T) {
	t.Setenv("ENV", "")

	t.Setenv("AUTH_RATE_LIMIT", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.AuthRatePerMinute)

	t.Setenv("AUTH_RATE_LIMIT", "0")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.AuthRatePerMinute, "0 turns rate limiting off")

	t.Setenv("AUTH_RATE_LIMIT", "-3")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.AuthRatePerMinute)
}
