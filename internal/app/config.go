package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/db"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/envutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Addr        string
	Environment string

	DB db.Config

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Media       media.Config
	ColorsPath  string
	Cache       cache.Config
	ListingPath string

	CORSOrigins []string
	// PublicBaseURL prefixes sermon links and pagination. Pagination falls
	// back to the request origin when it is empty.
	PublicBaseURL string

	MetricsAddr string
	ServiceName string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	log.Info("Loading environment variables...")
	port := envutil.String("PORT", "8080")
	cfg := Config{
		Addr:        ":" + strings.TrimPrefix(port, ":"),
		Environment: envutil.String("ENVIRONMENT", "development"),
		DB: db.Config{
			Driver:        strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres)),
			DSN:           databaseDSN(),
			SlowThreshold: envutil.Duration("DB_SLOW_THRESHOLD", time.Second),
			MaxOpenConns:  envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:  envutil.Int("DB_MAX_IDLE_CONNS", 10),
		},
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Duration("REFRESH_TOKEN_TTL", 24*time.Hour),
		Media: media.Config{
			Mode:          media.Mode(envutil.String("MEDIA_STORE_MODE", string(media.ModeLocal))),
			Dir:           envutil.String("MEDIA_DIR", "media"),
			PublicBaseURL: envutil.String("MEDIA_PUBLIC_BASE_URL", "/media"),
			Bucket:        envutil.String("MEDIA_BUCKET", ""),
			CDNDomain:     envutil.String("MEDIA_CDN_DOMAIN", ""),
			EmulatorHost:  envutil.String("STORAGE_EMULATOR_HOST", ""),
			S3Region:      envutil.String("S3_REGION", "us-east-1"),
			S3Endpoint:    envutil.String("S3_ENDPOINT", ""),
			S3AccessKey:   envutil.String("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:   envutil.String("S3_SECRET_ACCESS_KEY", ""),
		},
		ColorsPath: envutil.String("ARTWORK_COLORS_PATH", ""),
		Cache: cache.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Prefix:   envutil.String("REDIS_PREFIX", "ecc"),
			TTL:      envutil.Duration("CACHE_TTL", 5*time.Minute),
		},
		ListingPath:   envutil.String("LISTING_CONFIG_PATH", ""),
		CORSOrigins:   envutil.CSV("CORS_ALLOWED_ORIGINS", nil),
		PublicBaseURL: strings.TrimRight(envutil.String("PUBLIC_BASE_URL", ""), "/"),
		MetricsAddr:   envutil.String("METRICS_ADDR", ""),
		ServiceName:   envutil.String("OTEL_SERVICE_NAME", "elevation-church-api"),
		Version:       envutil.String("APP_VERSION", "dev"),
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the insecure default")
	}
	log.Debug("Environment variables loaded", "db_driver", cfg.DB.Driver, "media_mode", cfg.Media.Mode)
	return cfg
}

// databaseDSN prefers DATABASE_URL and otherwise assembles a postgres URL
// from the POSTGRES_* variables. For sqlite the value is a file path.
func databaseDSN() string {
	if dsn := envutil.String("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	if strings.EqualFold(envutil.String("DB_DRIVER", ""), db.DriverSQLite) {
		return envutil.String("SQLITE_PATH", "elevation.db")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.String("POSTGRES_USER", "postgres"),
		envutil.String("POSTGRES_PASSWORD", ""),
		envutil.String("POSTGRES_HOST", "localhost"),
		envutil.String("POSTGRES_PORT", "5432"),
		envutil.String("POSTGRES_NAME", "elevation"),
		envutil.String("POSTGRES_SSLMODE", "disable"),
	)
}

// linkBase is the absolute prefix for sermon links.
func (c Config) linkBase() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	return "http://localhost" + c.Addr
}
