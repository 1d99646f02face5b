package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"DB_DRIVER", "DB_PORT", "DB_MAX_CONNS", "APP_PORT", "APP_TIMEZONE", "CORS_ALLOWED_ORIGINS",
		"JWT_ACCESS_EXPIRATION_TIME", "OVERTIME_DEFAULT_HOURLY_RATE", "OVERTIME_RULES_REFRESH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.UTC, cfg.App.Location)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.True(t, cfg.Overtime.DefaultHourlyRate.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 5*time.Minute, cfg.Overtime.RulesRefresh)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("OVERTIME_DEFAULT_HOURLY_RATE", "31.75")
	t.Setenv("OVERTIME_RULES_REFRESH", "30s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "Asia/Jakarta", cfg.App.Location.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "31.75", cfg.Overtime.DefaultHourlyRate.String())
	assert.Equal(t, 30*time.Second, cfg.Overtime.RulesRefresh)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DB_PORT", "abc"},
		{"DB_MAX_CONNS", "many"},
		{"APP_PORT", "http"},
		{"APP_TIMEZONE", "Mars/Olympus"},
		{"JWT_ACCESS_EXPIRATION_TIME", "soon"},
		{"OVERTIME_DEFAULT_HOURLY_RATE", "lots"},
		{"OVERTIME_RULES_REFRESH", "5 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverPostgres, Password: "secret", MaxConns: 5},
		JWT:      JWTConfig{Secret: "jwt-secret", AccessExpiration: time.Hour},
		App:      AppConfig{LogLevel: "info", Location: time.UTC},
		Overtime: OvertimeConfig{DefaultHourlyRate: decimal.NewFromInt(25), RulesRefresh: time.Minute},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = ""
		assert.EqualError(t, cfg.Validate(), "JWT_SECRET_KEY is required")
	})

	t.Run("postgres needs a password", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Password = ""
		assert.EqualError(t, cfg.Validate(), "DB_PASSWORD is required")
	})

	t.Run("memory driver needs no password", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = DriverMemory
		cfg.Database.Password = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "sqlite"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive default rate", func(t *testing.T) {
		cfg := validConfig()
		cfg.Overtime.DefaultHourlyRate = decimal.Zero
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.User = "hris"
	cfg.Database.Host = "db"
	cfg.Database.Port = 5433
	cfg.Database.Name = "overtime"
	cfg.Database.SSLMode = "require"

	assert.Equal(t, "postgres://hris:secret@db:5433/overtime?sslmode=require", cfg.DatabaseURL())
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := validConfig()
	for level, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		cfg.App.LogLevel = level
		assert.Equal(t, want, cfg.SlogLevel(), level)
	}
}
