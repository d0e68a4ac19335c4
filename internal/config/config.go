package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry   time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`
	Port        int           `env:"PORT" envDefault:"8080"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string        `env:"APP_ENV" envDefault:"production"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`

	Redis RedisConfig
	S3    S3Config

	DashboardCacheTTL    time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"30s"`
	OverdueSweepInterval time.Duration `env:"OVERDUE_SWEEP_INTERVAL" envDefault:"1h"`
	OverdueGraceDays     int           `env:"OVERDUE_GRACE_DAYS" envDefault:"0"`
	IdempotencyCleanup   time.Duration `env:"IDEMPOTENCY_CLEANUP_INTERVAL" envDefault:"30m"`
	ImportMaxBytes       int64         `env:"IMPORT_MAX_BYTES" envDefault:"10485760"`
}

// RedisConfig is optional; an empty URL disables the dashboard cache.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// S3Config is optional; an empty endpoint disables archiving of import uploads.
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Region    string `env:"S3_REGION"`
	Bucket    string `env:"S3_BUCKET" envDefault:"imports"`
	UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`
}

func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.OverdueGraceDays < 0 {
		return nil, fmt.Errorf("config.Load: OVERDUE_GRACE_DAYS must not be negative")
	}
	return &cfg, nil
}
