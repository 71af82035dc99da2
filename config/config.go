package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `env:"ENV" env-default:"prod"`
	ServerPort int    `env:"SERVER_PORT" env-default:"8080"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string `env:"LOG_FORMAT" env-default:"text"`
	// CORSOrigins is a comma separated allow-list; "*" allows any origin.
	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	Database DatabaseConfig
	JWT      JWTConfig
	Media    MediaConfig
	Notify   NotifyConfig
}

type DatabaseConfig struct {
	// Driver is either "postgres" (lib/pq) or "pgx".
	Driver   string `env:"DB_DRIVER" env-default:"postgres"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"aeonaxy"`
	Password string `env:"DB_PASSWORD" env-default:"password"`
	DBName   string `env:"DB_NAME" env-default:"aeonaxy_db"`
	UseSSL   bool   `env:"DB_USE_SSL" env-default:"false"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	Issuer string        `env:"JWT_ISSUER" env-default:"aeonaxy"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"1h"`
}

// MediaConfig selects the object store used for profile images.
type MediaConfig struct {
	Backend string `env:"MEDIA_BACKEND" env-default:"minio"`
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"aeonaxy"`
	UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

type GCSConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	ProjectID       string `env:"GCS_PROJECT_ID"`
	CredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
}

// NotifyConfig controls how outgoing email is delivered. Provider picks
// the sender; Queue, when set, routes messages through a broker so the
// worker command does the actual delivery.
type NotifyConfig struct {
	Provider string `env:"NOTIFY_PROVIDER" env-default:"none"`
	Queue    string `env:"NOTIFY_QUEUE" env-default:"none"`
	Channel  string `env:"NOTIFY_CHANNEL" env-default:"notifications"`
	FromName string `env:"NOTIFY_FROM_NAME" env-default:"Aeonaxy"`
	From     string `env:"NOTIFY_FROM"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SMTP           SMTPConfig
	RabbitMQ       RabbitMQConfig
	PubSub         PubSubConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

type RabbitMQConfig struct {
	URL             string `env:"RABBITMQ_URL"`
	QueueDurable    bool   `env:"RABBITMQ_QUEUE_DURABLE" env-default:"true"`
	QueueAutoDelete bool   `env:"RABBITMQ_QUEUE_AUTO_DELETE" env-default:"false"`
	PrefetchCount   int    `env:"RABBITMQ_PREFETCH" env-default:"10"`
}

type PubSubConfig struct {
	ProjectID          string `env:"PUBSUB_PROJECT_ID"`
	CredentialsFile    string `env:"PUBSUB_CREDENTIALS_FILE"`
	SubscriptionSuffix string `env:"PUBSUB_SUBSCRIPTION_SUFFIX" env-default:"-sub"`
}

// LoadConfig reads configuration from the environment. In dev mode a
// local .env file is loaded first.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return errors.New("DB_DRIVER must be postgres or pgx")
	}
	return nil
}

// IsProduction reports whether the process runs with ENV=prod.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// AllowedOrigins splits CORSOrigins into a list.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, part := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
