package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

var knownWeakSecrets = []string{
	"supersecretkey", "change-me", "secret", "admin", "password",
}

var hmacAlgorithms = []string{"HS256", "HS384", "HS512"}

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	SecretKey                string `env:"SECRET_KEY,required"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`
	CookieSecure             bool   `env:"COOKIE_SECURE" envDefault:"false"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	PasswordScheme string `env:"PASSWORD_SCHEME" envDefault:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"12"`
	PBKDF2Rounds   int    `env:"PBKDF2_ROUNDS" envDefault:"29000"`

	StaticDir       string `env:"STATIC_DIR" envDefault:"static"`
	StorageDriver   string `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"static/uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/static/uploads"`
	MaxUploadBytes  int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// AccessTokenTTL is the default lifetime of an issued session token.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: contacts, projects and admins are lost on restart")
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (expected %s or %s)", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if !isHMACAlgorithm(c.Algorithm) {
		return fmt.Errorf("ALGORITHM must be one of %s, got %q", strings.Join(hmacAlgorithms, ", "), c.Algorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	switch c.StorageDriver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required when STORAGE_DRIVER=%s", StorageDriverS3)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected %s or %s)", c.StorageDriver, StorageDriverLocal, StorageDriverS3)
	}

	checkSecret(c.SecretKey)
	return nil
}

func isHMACAlgorithm(alg string) bool {
	for _, a := range hmacAlgorithms {
		if alg == a {
			return true
		}
	}
	return false
}

func checkSecret(value string) {
	for _, weak := range knownWeakSecrets {
		if value == weak {
			log.Warn().Msg("SECRET_KEY is a known weak default; set a strong secret (openssl rand -base64 32)")
			return
		}
	}
	if len(value) < 32 {
		log.Warn().Int("length", len(value)).Msg("SECRET_KEY is shorter than 32 characters")
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
