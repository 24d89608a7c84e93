package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers for accepted submissions.
const (
	StorageLog      = "log"
	StoragePostgres = "postgres"
	StorageDynamoDB = "dynamodb"
)

var Empty = new(Config)

type Config struct {
	AppEnv        string        `envconfig:"APP_ENV"`
	Port          int           `envconfig:"PORT" default:"8080"`
	SentryDSN     string        `envconfig:"SENTRY_DSN"`
	AllowOrigins  string        `envconfig:"ALLOW_ORIGINS"`
	StorageDriver string        `envconfig:"STORAGE_DRIVER" default:"log"`
	SubmitTimeout time.Duration `envconfig:"SUBMIT_TIMEOUT" default:"10s"`
	DraftTTL      time.Duration `envconfig:"DRAFT_TTL" default:"30m"`
	DraftLimit    int           `envconfig:"DRAFT_LIMIT" default:"1000"`

	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	DynamoDB struct {
		Region        string `envconfig:"DDB_REGION"`
		Endpoint      string `envconfig:"DDB_ENDPOINT"`
		AccessKey     string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey     string `envconfig:"DDB_SECRET_KEY"`
		SessionToken  string `envconfig:"DDB_SESSION_TOKEN"`
		ContactsTable string `envconfig:"DDB_CONTACTS_TABLE" default:"contacts"`
	}
	Auth struct {
		JWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.StorageDriver {
	case StorageLog, StoragePostgres, StorageDynamoDB:
	default:
		return nil, fmt.Errorf("load config error: unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// Origins splits ALLOW_ORIGINS into a list, dropping blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
