package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg := Load()

	assert.Equal(t, "8099", cfg.Server.Port)
	assert.False(t, cfg.Gifts.RestoreStockOnCancel)
	assert.Equal(t, 50*1024, cfg.Images.AvatarMaxBytes)
	assert.Equal(t, 500*1024, cfg.Images.PostMaxBytes)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("GIFT_RESTORE_STOCK_ON_CANCEL", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("IMAGE_AVATAR_MAX_BYTES", "1024")
	t.Setenv("ADMIN_EMAIL", "Admin@Example.COM")
	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Gifts.RestoreStockOnCancel)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 1024, cfg.Images.AvatarMaxBytes)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")
	t.Setenv("GIFT_RESTORE_STOCK_ON_CANCEL", "maybe")
	cfg := Load()

	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.False(t, cfg.Gifts.RestoreStockOnCancel)
}
