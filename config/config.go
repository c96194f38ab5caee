package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Firebase   FirebaseConfig
	Redis      RedisConfig
	Sentry     SentryConfig
	Gifts      GiftConfig
	Images     ImageConfig
	RateLimit  RateLimitConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	PublicURL    string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// FirebaseConfig enables FCM push when ServiceAccountPath is set.
type FirebaseConfig struct {
	ServiceAccountPath string
	SendsPerSecond     int
}

// RedisConfig selects the Redis-backed rate limiter when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SentryConfig struct {
	DSN              string
	TracesSampleRate float64
}

type GiftConfig struct {
	// RestoreStockOnCancel credits the sender's stock back when an admin cancels a gift.
	RestoreStockOnCancel bool
}

// ImageConfig holds the byte budgets used when recompressing uploads.
type ImageConfig struct {
	AvatarMaxBytes    int
	ThumbnailMaxBytes int
	PostMaxBytes      int
	MaxUploadBytes    int64
	// MaxPixels rejects sources whose declared width*height is larger, before decoding.
	MaxPixels int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// Load reads .env files (most specific first) and builds the config from the environment.
func Load() *Config {
	loadDotEnvs()
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8099"),
			Env:          getEnv("APP_ENV", "development"),
			PublicURL:    getEnv("PUBLIC_APP_URL", ""),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=g2g port=5432 sslmode=disable TimeZone=UTC"),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "grapebd-g2g"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "g2g"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
			SendsPerSecond:     getInt("FCM_SENDS_PER_SECOND", 50),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			TracesSampleRate: getFloat("SENTRY_TRACES_SAMPLE_RATE", 0.2),
		},
		Gifts: GiftConfig{
			RestoreStockOnCancel: getBool("GIFT_RESTORE_STOCK_ON_CANCEL", false),
		},
		Images: ImageConfig{
			AvatarMaxBytes:    getInt("IMAGE_AVATAR_MAX_BYTES", 50*1024),
			ThumbnailMaxBytes: getInt("IMAGE_THUMBNAIL_MAX_BYTES", 100*1024),
			PostMaxBytes:      getInt("IMAGE_POST_MAX_BYTES", 500*1024),
			MaxUploadBytes:    int64(getInt("IMAGE_MAX_UPLOAD_BYTES", 10*1024*1024)),
			MaxPixels:         getInt("IMAGE_MAX_PIXELS", 40_000_000),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		},
		Admin: AdminConfig{
			Email:    strings.ToLower(getEnv("ADMIN_EMAIL", "")),
			Password: getEnv("ADMIN_PASSWORD", ""),
			FullName: getEnv("ADMIN_FULL_NAME", "Administrator"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// loadDotEnvs loads .env.<env>.local, .env.local, .env.<env> and .env. Earlier files win
// because godotenv never overrides a variable that is already set.
func loadDotEnvs() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	_ = godotenv.Load(".env." + env + ".local")
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load(".env")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
